package security

import (
	"testing"
	"time"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("secret"))
	token, exp, err := Generate(opts, "user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Error("expiry not in the future")
	}
	sub, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-1" {
		t.Errorf("subject = %q", sub)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("secret")), "user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Verify(DefaultOptions([]byte("other")), token); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	opts := Options{Secret: []byte("secret"), Alg: "HS256", TTL: time.Millisecond}
	token, _, err := Generate(opts, "user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := Verify(opts, token); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestVerifyGarbage(t *testing.T) {
	if _, err := Verify(DefaultOptions([]byte("secret")), "not-a-token"); err == nil {
		t.Error("expected parse failure")
	}
}

func TestUnsupportedAlg(t *testing.T) {
	if _, _, err := Generate(Options{Secret: []byte("s"), Alg: "RS256"}, "u"); err == nil {
		t.Error("expected unsupported alg error")
	}
}
