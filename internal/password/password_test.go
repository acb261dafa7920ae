package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	for _, pw := range []string{"a", "SuperAdmin2024!", "pässwörd", strings.Repeat("x", 72)} {
		hashed, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q): %v", pw, err)
		}
		if !h.Verify(pw, hashed) {
			t.Errorf("Verify(%q, Hash(%q)) = false", pw, pw)
		}
	}
}

func TestVerifyRejectsOtherPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hashed, err := h.Hash("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if h.Verify("battery staple", hashed) {
		t.Error("Verify accepted a different password")
	}
	if h.Verify("Correct horse", hashed) {
		t.Error("Verify must be case sensitive")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, _ := h.Hash("same-input")
	b, _ := h.Hash("same-input")
	if a == b {
		t.Error("two hashes of the same input should differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	if h.Verify("pw", "not-a-bcrypt-hash") {
		t.Error("malformed hash must not verify")
	}
}

func TestHashFailureWrapsCause(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Fatal("expected error for password longer than 72 bytes")
	}
	if !errors.Is(err, ErrHashing) {
		t.Errorf("error %v should wrap ErrHashing", err)
	}
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Errorf("error %v should keep the bcrypt cause", err)
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	if got := NewHasher(1).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default", got)
	}
	if got := NewHasher(12).cost; got != 12 {
		t.Errorf("cost = %d, want 12", got)
	}
}

func TestGenerateRandom(t *testing.T) {
	for _, n := range []int{8, 12, 32} {
		pw := GenerateRandom(n)
		if len(pw) != n {
			t.Errorf("len = %d, want %d", len(pw), n)
		}
		for _, c := range pw {
			if !strings.ContainsRune(Charset, c) {
				t.Errorf("character %q outside charset", c)
			}
		}
	}
	if got := len(GenerateRandom(0)); got != DefaultLength {
		t.Errorf("default length = %d, want %d", got, DefaultLength)
	}
	if GenerateRandom(16) == GenerateRandom(16) {
		t.Error("two generated passwords should differ")
	}
}
