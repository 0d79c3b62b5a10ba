package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

func TestEnsureProfileCreatesMissingRow(t *testing.T) {
	store := newMemoryProfiles()
	p, err := service.EnsureProfile(context.Background(), store, "u1", "a@b.test")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p.DietPreference != service.DefaultDiet || p.Email != "a@b.test" || p.Allergens == nil {
		t.Fatalf("unexpected default profile %+v", p)
	}
	if _, ok := store.profiles["u1"]; !ok {
		t.Fatalf("expected profile to be persisted")
	}
}

func TestEnsureProfilePropagatesOtherErrors(t *testing.T) {
	store := newMemoryProfiles()
	store.getErr = errors.New("connection reset")
	if _, err := service.EnsureProfile(context.Background(), store, "u1", "a@b.test"); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.profiles) != 0 {
		t.Fatalf("must not create a profile on unknown errors")
	}
}

func TestUpdateProfileValidatesAndNormalizes(t *testing.T) {
	store := newMemoryProfiles()
	store.profiles["u1"] = model.Profile{ID: "u1", DietPreference: service.DefaultDiet}
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	p, err := service.UpdateProfile(context.Background(), store, "u1", service.ProfilePatch{
		FirstName:      ptr("  Ada "),
		DietPreference: ptr(" Vegan"),
		Allergens:      ptr([]string{"Soy", "soy", " sesame"}),
		DateOfBirth:    ptr(" 1990-04-01 "),
	}, now)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.FirstName != "Ada" || p.DietPreference != "vegan" || p.DateOfBirth != "1990-04-01" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if !reflect.DeepEqual(p.Allergens, []string{"soy", "sesame"}) {
		t.Fatalf("unexpected allergens %v", p.Allergens)
	}
}

func TestUpdateProfileRejectsUnderageBeforeStore(t *testing.T) {
	store := newMemoryProfiles()
	store.profiles["u1"] = model.Profile{ID: "u1"}
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	_, err := service.UpdateProfile(context.Background(), store, "u1", service.ProfilePatch{DateOfBirth: ptr("2020-01-01")}, now)
	if !errors.Is(err, service.ErrUnderage) {
		t.Fatalf("expected underage error, got %v", err)
	}
	if store.profiles["u1"].DateOfBirth != "" {
		t.Fatalf("store must not be updated")
	}
	if _, err := service.UpdateProfile(context.Background(), store, "u1", service.ProfilePatch{}, now); !service.IsValidation(err) {
		t.Fatalf("expected empty patch to be rejected, got %v", err)
	}
}
