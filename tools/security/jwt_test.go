package security

import (
	"testing"
	"time"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))

	token, expireAt, err := Generate(opts, "u1", []string{"read", "write"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expireAt.After(time.Now()) {
		t.Fatal("expireAt must be in the future")
	}

	claims, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject() != "u1" {
		t.Fatalf("subject: got %q", claims.Subject())
	}

	// 签发与校验必须用同一个 claim key
	raw, ok := claims.MapClaims[ClaimScope]
	if !ok {
		t.Fatalf("claim %q missing after round trip", ClaimScope)
	}
	scopes, ok := raw.([]any)
	if !ok || len(scopes) != 2 {
		t.Fatalf("scope claim shape: %#v", raw)
	}
	if scopes[0] != "read" || scopes[1] != "write" {
		t.Fatalf("scope values: %#v", scopes)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("secret-a")), "u1", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Verify(DefaultOptions([]byte("secret-b")), token); err == nil {
		t.Fatal("token signed with another secret must fail verification")
	}
}
