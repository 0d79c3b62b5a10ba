package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

type fakeAuth struct {
	signedOut bool
	profile   model.Profile
	err       error
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.signedOut = true
	return nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (model.Profile, error) {
	return f.profile, f.err
}

func TestSessionGuardExpiresAfterTenDays(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	store := service.MemoryStore{}
	auth := &fakeAuth{profile: model.Profile{ID: "u1"}}
	guard := service.SessionGuard{Store: store, Auth: auth, Now: func() time.Time { return now }}

	store[service.KeySessionStartedAt] = now.Add(-11 * 24 * time.Hour).Format(time.RFC3339Nano)
	if _, err := guard.Check(context.Background()); !errors.Is(err, service.ErrSessionExpired) {
		t.Fatalf("expected expired session, got %v", err)
	}
	if !auth.signedOut {
		t.Fatalf("expected forced sign-out")
	}
	if _, ok := store[service.KeySessionStartedAt]; ok {
		t.Fatalf("expected stored session start to be cleared")
	}
}

func TestSessionGuardRetainsRecentSession(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	store := service.MemoryStore{service.KeySessionStartedAt: now.Add(-9 * 24 * time.Hour).Format(time.RFC3339Nano)}
	auth := &fakeAuth{profile: model.Profile{ID: "u1"}}
	guard := service.SessionGuard{Store: store, Auth: auth, Now: func() time.Time { return now }}

	p, err := guard.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if p.ID != "u1" || auth.signedOut {
		t.Fatalf("expected session retained, got %+v signedOut=%v", p, auth.signedOut)
	}
	if _, ok := store[service.KeySessionStartedAt]; !ok {
		t.Fatalf("expected session start to be kept")
	}
}

func TestSessionGuardMissingOrUnreadableStartIsNotExpiry(t *testing.T) {
	for _, stored := range []string{"", "yesterday-ish"} {
		store := service.MemoryStore{}
		if stored != "" {
			store[service.KeySessionStartedAt] = stored
		}
		auth := &fakeAuth{err: service.ErrNotAuthenticated}
		guard := service.SessionGuard{Store: store, Auth: auth}
		if _, err := guard.Check(context.Background()); !errors.Is(err, service.ErrNotAuthenticated) {
			t.Fatalf("stored %q: expected current user error, got %v", stored, err)
		}
		if auth.signedOut {
			t.Fatalf("stored %q: did not expect sign-out", stored)
		}
	}
}

func TestSessionGuardRecordLogin(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := service.MemoryStore{}
	guard := service.SessionGuard{Store: store, Now: func() time.Time { return now }}
	if err := guard.RecordLogin(); err != nil {
		t.Fatalf("record login: %v", err)
	}
	if got := store[service.KeySessionStartedAt]; got != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected stored instant %q", got)
	}
}

func TestRememberEmail(t *testing.T) {
	store := service.MemoryStore{}
	if err := service.RememberEmail(store, " a@b.test ", true); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if store[service.KeySavedEmail] != "a@b.test" {
		t.Fatalf("expected saved email, got %q", store[service.KeySavedEmail])
	}
	if err := service.RememberEmail(store, "a@b.test", false); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, ok := store[service.KeySavedEmail]; ok {
		t.Fatalf("expected saved email removed")
	}
}

func TestSessionRequireUser(t *testing.T) {
	var s *service.Session
	if _, err := s.RequireUser(); !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
	s = &service.Session{UserID: "u1"}
	if id, err := s.RequireUser(); err != nil || id != "u1" {
		t.Fatalf("expected u1, got %q %v", id, err)
	}
}
