// Package session implements the demo admin login: validated credentials,
// HS256 tokens and a pluggable session store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrValidation      = errors.New("session: invalid credentials")
	ErrInvalidToken    = errors.New("session: invalid token")
	ErrSessionNotFound = errors.New("session: session not found")
	ErrMissingSecret   = errors.New("session: signing secret is required")
)

const (
	RoleAdmin  = "Admin"
	DefaultTTL = 12 * time.Hour
	demoUserID = "1"
)

// User is the signed-in viewer.
type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
}

// Session ties a token to its user.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Options struct {
	Store  Store
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Manager issues, verifies and revokes sessions.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, secret: opts.Secret, ttl: ttl, now: now}, nil
}

// Login accepts any well formed credentials and opens a session for the
// demo admin.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	issued := m.now().UTC().Truncate(time.Second)
	sess := Session{
		ID:        uuid.NewString(),
		User:      userFor(creds.Email),
		IssuedAt:  issued,
		ExpiresAt: issued.Add(m.ttl),
	}

	token, err := m.sign(sess)
	if err != nil {
		return Session{}, fmt.Errorf("session: sign token: %w", err)
	}
	sess.Token = token

	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("session: save: %w", err)
	}
	return sess, nil
}

// Authenticate resolves a bearer token to its live session.
func (m *Manager) Authenticate(ctx context.Context, token string) (Session, error) {
	sid, err := m.sessionID(token)
	if err != nil {
		return Session{}, err
	}
	sess, err := m.store.Load(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Logout revokes the session behind token. Unknown sessions are not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	sid, err := m.sessionID(token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

func (m *Manager) sign(sess Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   sess.User.ID,
		"sid":   sess.ID,
		"email": sess.User.Email,
		"name":  sess.User.Name,
		"role":  sess.User.Role,
		"iat":   sess.IssuedAt.Unix(),
		"exp":   sess.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) sessionID(token string) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}

// userFor derives the display user from an email: the capitalised local part
// becomes the name.
func userFor(email string) User {
	local, _, _ := strings.Cut(email, "@")
	return User{
		ID:    demoUserID,
		Email: email,
		Name:  capitalize(local),
		Role:  RoleAdmin,
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
