package jwtrsa

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"vet-clinic-backend/internal/ports/auth"
)

func newKeyPair(t *testing.T) (*Issuer, *Verifier) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewIssuer(key, 0), NewVerifier(&key.PublicKey)
}

func ptr(v int64) *int64 { return &v }

func TestIssueVerify_Roundtrip(t *testing.T) {
	iss, ver := newKeyPair(t)

	in := auth.Claims{
		UserID:   7,
		Email:    "laura@example.com",
		Role:     "CLIENTE",
		ClientID: ptr(3),
	}
	token, err := iss.Issue(in)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	out, err := ver.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.UserID != in.UserID || out.Email != in.Email || out.Role != in.Role {
		t.Fatalf("claims mismatch: %+v", out)
	}
	if out.ClientID == nil || *out.ClientID != 3 {
		t.Fatalf("client_id lost in transit: %v", out.ClientID)
	}
	if out.VetID != nil {
		t.Fatalf("vet_id should stay empty, got %v", *out.VetID)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	iss, ver := newKeyPair(t)

	token, err := iss.Issue(auth.Claims{UserID: 1, Email: "x@example.com", Role: "VETERINARIO"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Reloj del verificador más allá del TTL de 24h.
	ver.now = func() time.Time { return time.Now().Add(DefaultTTL + time.Hour) }
	if _, err := ver.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerify_WrongKey(t *testing.T) {
	iss, _ := newKeyPair(t)
	_, ver := newKeyPair(t)

	token, err := iss.Issue(auth.Claims{UserID: 1, Email: "x@example.com", Role: "VETERINARIO"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ver.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected signature from foreign key to be rejected")
	}
}

func TestVerify_Garbage(t *testing.T) {
	_, ver := newKeyPair(t)

	if _, err := ver.Verify(context.Background(), "no-es-un-jwt"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}
