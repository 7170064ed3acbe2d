// Package auth gates the admin API: a shared staff password exchanged for a
// short-lived signed session token.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrBadPassword  = errors.New("wrong password")
	ErrInvalidToken = errors.New("invalid session token")
)

type Manager struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(password, secret string, ttl time.Duration) *Manager {
	return &Manager{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks the staff password in constant time and issues a session
// token.
func (m *Manager) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare(m.password, []byte(password)) != 1 {
		return "", ErrBadPassword
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Verify(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
