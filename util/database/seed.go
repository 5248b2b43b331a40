package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type seedRoom struct {
	number, kind string
	price        float64
	amenities    []string
	description  string
}

var seedRooms = []seedRoom{
	{"101", "single", 4500, []string{"WiFi", "TV", "AC", "Room Service"}, "Comfortable single room with city view"},
	{"205", "double", 6000, []string{"WiFi", "TV", "AC", "Mini Bar", "Room Service"}, "Spacious double room with garden view"},
	{"301", "suite", 12000, []string{"WiFi", "TV", "AC", "Mini Bar", "Balcony", "Jacuzzi", "Room Service"}, "Luxury suite with ocean view and private balcony"},
	{"405", "deluxe", 9000, []string{"WiFi", "TV", "AC", "Mini Bar", "Balcony", "Room Service"}, "Deluxe room with premium amenities"},
}

type seedGuest struct{ name, email, phone, address string }

var seedGuests = []seedGuest{
	{"John Doe", "john.doe@example.com", "+1-555-0123", "123 Main St, New York, NY 10001"},
	{"Jane Smith", "jane.smith@example.com", "+1-555-0456", "456 Oak Ave, Los Angeles, CA 90210"},
}

// Seed loads the demo hotel: an admin account, four rooms, two guests and one
// confirmed stay in room 205. Rows that already exist are left alone.
func (db *DB) Seed(ctx context.Context, adminPasswordHash string) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (username, email, password_hash, role)
			VALUES ('admin', 'admin@hotel.com', $1, 'admin')
			ON CONFLICT (username) DO NOTHING`, adminPasswordHash); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		for _, r := range seedRooms {
			if _, err := tx.Exec(ctx, `
				INSERT INTO rooms (number, type, price, status, amenities, description)
				VALUES ($1, $2, $3, 'available', $4, $5)
				ON CONFLICT (number) DO NOTHING`,
				r.number, r.kind, r.price, r.amenities, r.description); err != nil {
				return fmt.Errorf("seed room %s: %w", r.number, err)
			}
		}

		for _, g := range seedGuests {
			if _, err := tx.Exec(ctx, `
				INSERT INTO guests (name, email, phone, address)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT ((lower(email))) DO NOTHING`,
				g.name, g.email, g.phone, g.address); err != nil {
				return fmt.Errorf("seed guest %s: %w", g.email, err)
			}
		}

		// 3 nights x 6000
		_, err := tx.Exec(ctx, `
			INSERT INTO reservations (guest_id, room_id, check_in, check_out, number_of_guests,
			                          total_amount, status, special_requests)
			SELECT g.id, r.id, '2024-02-15T15:00:00Z', '2024-02-18T11:00:00Z', 2, 18000,
			       'confirmed', 'Late check-in requested'
			FROM guests g, rooms r
			WHERE lower(g.email) = 'john.doe@example.com' AND r.number = '205'
			  AND NOT EXISTS (SELECT 1 FROM reservations)`)
		if err != nil {
			return fmt.Errorf("seed reservation: %w", err)
		}
		return nil
	})
}
