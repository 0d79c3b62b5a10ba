package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samy1995/Mealwise/internal/service"
)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func issueToken(secret []byte, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func parseToken(secret []byte, raw string, now time.Time) (*service.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !token.Valid {
		return nil, service.ErrNotAuthenticated
	}
	if claims.Subject == "" {
		return nil, service.ErrNotAuthenticated
	}
	s := &service.Session{UserID: claims.Subject, Email: claims.Email}
	if claims.IssuedAt != nil {
		s.StartedAt = claims.IssuedAt.Time
	}
	return s, nil
}

// LoadOrCreateSecret returns the device signing secret, generating one on
// first use.
func LoadOrCreateSecret(store service.KeyValueStore) ([]byte, error) {
	v, ok, err := store.Get(service.KeySigningSecret)
	if err != nil {
		return nil, err
	}
	if ok && v != "" {
		return []byte(v), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	if err := store.Set(service.KeySigningSecret, secret); err != nil {
		return nil, err
	}
	return []byte(secret), nil
}
