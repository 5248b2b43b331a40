package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

var ErrBadStatus = errors.New("unknown reservation status")

// Nights counts started days between check-in and check-out. Partial days
// round up and are never prorated.
func Nights(checkIn, checkOut time.Time) int64 {
	ms := checkOut.Sub(checkIn).Milliseconds()
	if ms <= 0 {
		return 0
	}
	perDay := day.Milliseconds()
	return (ms + perDay - 1) / perDay
}

func TotalAmount(checkIn, checkOut time.Time, nightlyPrice float64) float64 {
	return float64(Nights(checkIn, checkOut)) * nightlyPrice
}

// Overlaps compares the two stays as closed intervals, so a stay ending on the
// day another begins still counts as a clash.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

// ParseReservationStatus accepts any casing and surrounding space, and the
// hyphenated spelling used by some clients ("checked-in").
func ParseReservationStatus(s string) (ReservationStatus, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch st := ReservationStatus(norm); st {
	case ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadStatus, s)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads the date formats sent by the booking forms. Values
// without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
