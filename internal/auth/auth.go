// internal/auth/auth.go
//
// Accounts and tokens.
// Responsibilities:
//   - Validate and create users (bcrypt password hashes).
//   - Verify logins and password changes.
//   - Sign and parse HS256 JWTs carrying the user id and username.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError describes a rejected username or password.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service owns the users table and token signing.
type Service struct {
	db     *sql.DB
	secret []byte
	ttl    time.Duration
	cost   int
}

// NewService returns a Service signing tokens with secret that expire after ttl.
func NewService(db *sql.DB, secret string, ttl time.Duration) *Service {
	return &Service{db: db, secret: []byte(secret), ttl: ttl, cost: bcrypt.DefaultCost}
}

// Signup validates input, checks uniqueness, hashes the password and inserts a new user.
func (s *Service) Signup(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	if _, err := s.findByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), s.cost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Login returns the user when username and password match.
func (s *Service) Login(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.findByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(u.PasswordHash, pw) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ChangePassword replaces the password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPw, newPw string) error {
	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(u.PasswordHash, oldPw) {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPw); err != nil {
		return err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(newPw), s.cost)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET password_hash=? WHERE id=?`, string(h), userID)
	return err
}

// FindByID loads a user or returns ErrUserNotFound.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func (s *Service) findByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// ------------------------------ tokens -------------------------------------

// Claims is what a token proves about its bearer.
type Claims struct {
	UserID   string
	Username string
}

// Sign creates an HS256 JWT for u and returns it with its expiry.
func (s *Service) Sign(u *User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// Parse verifies a token and extracts its claims.
func (s *Service) Parse(tok string) (Claims, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: id, Username: username}, nil
}

// ------------------------------ validation ---------------------------------

// normalizeUsername trims whitespace.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return &ValidationError{"username must be 3–24 chars"}
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return &ValidationError{"username: letters, numbers, underscore only"}
		}
	}
	return validatePassword(p)
}

func validatePassword(p string) error {
	if len(p) < 8 || len(p) > 100 {
		return &ValidationError{"password must be 8–100 chars"}
	}
	return nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
