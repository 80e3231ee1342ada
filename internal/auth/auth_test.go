package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("s3cret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	tok, err := iss.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sub, err := iss.Subject(tok)
	if err != nil {
		t.Fatalf("Subject: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("Subject = %q, want alice", sub)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	a, _ := NewIssuer("one")
	b, _ := NewIssuer("two")
	tok, _ := a.Issue("alice", 0)

	if _, err := b.Subject(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss, _ := NewIssuer("s3cret")
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _ := iss.Issue("alice", time.Hour)

	if _, err := iss.Subject(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestIssuer_Garbage(t *testing.T) {
	iss, _ := NewIssuer("s3cret")
	if _, err := iss.Subject("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := iss.Issue("", 0); err == nil {
		t.Fatal("Issue accepted an empty subject")
	}
}

func TestNewIssuer_NoSecret(t *testing.T) {
	if _, err := NewIssuer(""); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("err = %v, want ErrNoSecret", err)
	}
}
