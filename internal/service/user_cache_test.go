package service

import (
	"testing"
	"time"

	"ecofinds/internal/domain"
)

func TestMemoryUserCache_SetGetInvalidate(t *testing.T) {
	cache := NewMemoryUserCache()
	user := domain.SanitizedUser{ID: "u1", Email: "a@x.com", Name: "Ann", IsVerified: true}

	if err := cache.Set(user, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := cache.Get("u1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != user {
		t.Fatalf("unexpected cached user: %+v", got)
	}

	if err := cache.Invalidate("u1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get("u1"); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestMemoryUserCache_Expiry(t *testing.T) {
	cache := NewMemoryUserCache()
	user := domain.SanitizedUser{ID: "u1", Email: "a@x.com"}

	if err := cache.Set(user, time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := cache.Get("u1"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryUserCache_IgnoresEmptyID(t *testing.T) {
	cache := NewMemoryUserCache()

	if err := cache.Set(domain.SanitizedUser{}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := cache.Get(""); ok {
		t.Fatalf("expected miss for empty id")
	}
}
