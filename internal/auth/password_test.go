package auth

import (
	"strings"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("P@ssw0rd!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	if err := CheckPassword(hash, "P@ssw0rd!"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

func TestPasswordHashEmbedsSalt(t *testing.T) {
	h1, _ := HashPassword("same")
	h2, _ := HashPassword("same")
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ (random salt)")
	}
	// both still verify
	if err := CheckPassword(h1, "same"); err != nil {
		t.Fatalf("h1 should verify: %v", err)
	}
	if err := CheckPassword(h2, "same"); err != nil {
		t.Fatalf("h2 should verify: %v", err)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"plainly-not-a-hash",
		"$argon2i$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=2,p=1$!!!$aGFzaA",
	} {
		if err := CheckPassword(hash, "anything"); err != ErrInvalidCredentials {
			t.Fatalf("malformed hash %q: got %v, want ErrInvalidCredentials", hash, err)
		}
	}
}
