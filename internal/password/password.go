// Package password hashes and verifies account passwords and generates
// temporary onboarding passwords.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashing wraps any failure of the underlying hash function.
var ErrHashing = errors.New("hashing failed")

// Charset is the alphabet of generated temporary passwords.
const Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*_"

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

// DefaultLength is the generated password length used for non-positive input.
const DefaultLength = 12

// Hasher hashes passwords with bcrypt at a fixed work factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of pw. Each call uses a fresh salt.
func (h *Hasher) Hash(pw string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}
	return string(out), nil
}

// Verify reports whether pw matches hashed. Malformed hashes never match.
func (h *Hasher) Verify(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// GenerateRandom returns a password of the given length drawn uniformly
// from Charset using crypto/rand.
func GenerateRandom(length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	upper := big.NewInt(int64(len(Charset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, upper)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is unusable.
			panic(fmt.Sprintf("password: read random: %v", err))
		}
		b[i] = Charset[n.Int64()]
	}
	return string(b)
}
