package service_test

import (
	"testing"

	"github.com/samy1995/Mealwise/internal/service"
)

func TestLocalStoreSetGetDelete(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	store := service.NewLocalStore(db)

	if _, ok, err := store.Get(service.KeySavedEmail); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(service.KeySavedEmail, "a@b.test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(service.KeySavedEmail, "c@d.test"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := store.Get(service.KeySavedEmail)
	if err != nil || !ok || v != "c@d.test" {
		t.Fatalf("expected c@d.test, got %q ok=%v err=%v", v, ok, err)
	}
	if err := store.Delete(service.KeySavedEmail); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(service.KeySavedEmail); ok {
		t.Fatalf("expected key removed")
	}
}

func TestActionPlanCacheOnLocalStore(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	cache := service.ActionPlanCache{Store: service.NewLocalStore(db)}

	if got, err := cache.Last("u1", "2026-03"); err != nil || got != "" {
		t.Fatalf("expected empty plan, got %q %v", got, err)
	}
	if err := cache.Remember("u1", "2026-03", "Try: more fiber."); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if got, _ := cache.Last("u1", "2026-03"); got != "Try: more fiber." {
		t.Fatalf("unexpected plan %q", got)
	}
	if got, _ := cache.Last("u2", "2026-03"); got != "" {
		t.Fatalf("plans must be per user, got %q", got)
	}

	all, err := service.NewLocalStore(db).List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all[string(service.ActionPlanKey("u1", "2026-03"))] != "Try: more fiber." {
		t.Fatalf("expected namespaced key in %v", all)
	}
}
