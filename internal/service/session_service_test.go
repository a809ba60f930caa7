package service

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSessionService_IssueVerify(t *testing.T) {
	svc := NewSessionService("secret", 7*24*time.Hour)

	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %s", userID)
	}
}

func TestSessionService_RejectsExpired(t *testing.T) {
	svc := NewSessionService("secret", -time.Minute)
	// TTL invalido cae al default; forzamos expiracion con un servicio corto.
	short := &SessionService{secret: []byte("secret"), ttl: time.Millisecond, issuer: "ecofinds"}

	token, err := short.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := short.Verify(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	if svc.TTL() != 7*24*time.Hour {
		t.Fatalf("expected default ttl, got %v", svc.TTL())
	}
}

func TestSessionService_RejectsTampered(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)

	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected JWT structure, got %q", token)
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestSessionService_RejectsWrongSecret(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)
	other := NewSessionService("other", time.Hour)

	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestSessionService_RejectsMalformed(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)

	for _, bad := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(bad); !errors.Is(err, ErrSessionInvalid) {
			t.Fatalf("expected ErrSessionInvalid for %q, got %v", bad, err)
		}
	}
}

func TestSessionService_EmptyUserID(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)

	if _, err := svc.Issue(""); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}
