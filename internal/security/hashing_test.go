package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("opaque-refresh-secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "" || digest == "opaque-refresh-secret" {
		t.Fatal("digest must be non-empty and not the plaintext")
	}
	if !h.Verify("opaque-refresh-secret", digest) {
		t.Error("Verify should succeed for the original secret")
	}
	if h.Verify("wrong-secret", digest) {
		t.Error("Verify should fail for a different secret")
	}
}

func TestHasher_HashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	d1, err := h.Hash("same-secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d2, err := h.Hash("same-secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if d1 == d2 {
		t.Error("two hashes of the same secret should differ (salted)")
	}
}

func TestHasher_VerifyMalformedDigestReturnsFalse(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$xx$garbage"} {
		if h.Verify("anything", digest) {
			t.Errorf("Verify(%q) should be false", digest)
		}
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	if c := NewHasher(0).Cost; c != bcrypt.DefaultCost {
		t.Errorf("cost for 0 = %d, want default %d", c, bcrypt.DefaultCost)
	}
	if c := NewHasher(1).Cost; c != bcrypt.MinCost {
		t.Errorf("cost for 1 = %d, want min %d", c, bcrypt.MinCost)
	}
	if c := NewHasher(99).Cost; c != bcrypt.MaxCost {
		t.Errorf("cost for 99 = %d, want max %d", c, bcrypt.MaxCost)
	}
}
