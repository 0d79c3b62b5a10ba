package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

// SessionMaxAge is how long an interactive login stays valid on a device.
const SessionMaxAge = 10 * 24 * time.Hour

// Session is the signed-in state for one process. It is built at startup,
// replaced on login and cleared on sign-out.
type Session struct {
	UserID    string
	Email     string
	StartedAt time.Time
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

func (s *Session) RequireUser() (string, error) {
	if !s.Authenticated() {
		return "", ErrNotAuthenticated
	}
	return s.UserID, nil
}

type Authenticator interface {
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (model.Profile, error)
}

// SessionGuard enforces SessionMaxAge at app entry.
type SessionGuard struct {
	Store KeyValueStore
	Auth  Authenticator
	Now   func() time.Time
}

func (g SessionGuard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Check signs the user out and returns ErrSessionExpired when the stored
// session start is older than SessionMaxAge. A missing or unreadable start
// time is not an expiry.
func (g SessionGuard) Check(ctx context.Context) (model.Profile, error) {
	raw, ok, err := g.Store.Get(KeySessionStartedAt)
	if err != nil {
		return model.Profile{}, err
	}
	if ok {
		if start, perr := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw)); perr == nil && g.now().Sub(start) > SessionMaxAge {
			if err := g.Auth.SignOut(ctx); err != nil {
				return model.Profile{}, fmt.Errorf("sign out expired session: %w", err)
			}
			if err := g.Store.Delete(KeySessionStartedAt); err != nil {
				return model.Profile{}, err
			}
			return model.Profile{}, ErrSessionExpired
		}
	}
	return g.Auth.CurrentUser(ctx)
}

// RecordLogin restarts the session clock after an interactive login.
func (g SessionGuard) RecordLogin() error {
	return g.Store.Set(KeySessionStartedAt, g.now().UTC().Format(time.RFC3339Nano))
}

func (g SessionGuard) Clear() error {
	return g.Store.Delete(KeySessionStartedAt)
}

// RememberEmail stores or forgets the login email preference.
func RememberEmail(store KeyValueStore, email string, remember bool) error {
	if remember && strings.TrimSpace(email) != "" {
		return store.Set(KeySavedEmail, strings.TrimSpace(email))
	}
	return store.Delete(KeySavedEmail)
}
