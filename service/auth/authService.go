package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelreservation/model"
	authrepo "hotelreservation/repository/auth"
	"hotelreservation/util/database"
	"hotelreservation/util/hash"
	jwtutil "hotelreservation/util/jwt"
)

type ErrCode string

const (
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrInvalidCreds  ErrCode = "INVALID_CREDENTIALS"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"
)

type codedError struct {
	code ErrCode
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return string(e.code) + ": " + e.err.Error()
	}
	return string(e.code)
}
func (e *codedError) Unwrap() error { return e.err }

func wrap(code ErrCode, msg string) error {
	return &codedError{code: code, err: errors.New(msg)}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ""
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	r      authrepo.Repo
	secret string
	ttl    time.Duration
}

func New(r authrepo.Repo, secret string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{r: r, secret: secret, ttl: ttl}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(username) < 3 || email == "" || len(req.Password) < 6 {
		return nil, "", wrap(ErrBadInput, "username, email and a 6+ character password are required")
	}

	existing, err := s.r.ByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, "", wrap(ErrUsernameTaken, username)
	case err != nil && !database.IsNoRows(err):
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	u := &model.User{
		Username:     username,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hashed,
		Role:         model.RoleStaff,
	}
	if err := s.r.Create(ctx, u); err != nil {
		if _, ok := database.IsUniqueViolation(err); ok {
			return nil, "", wrap(ErrUsernameTaken, username)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, "", wrap(ErrBadInput, "username and password are required")
	}

	u, err := s.r.ByUsername(ctx, username)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, "", wrap(ErrInvalidCreds, "unknown user")
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", wrap(ErrInvalidCreds, "password mismatch")
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) issue(u *model.User) (string, error) {
	return jwtutil.Issue(s.secret, u.ID, u.Username, string(u.Role), s.ttl)
}
