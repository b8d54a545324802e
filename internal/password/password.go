package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords using bcrypt.
type Hasher struct {
	cost int
}

// Opt configures a Hasher.
type Opt func(*Hasher)

// WithCost sets the bcrypt cost. Values outside the bcrypt range fall
// back to the default cost.
func WithCost(cost int) Opt {
	return func(h *Hasher) {
		h.cost = cost
	}
}

// New creates a Hasher with the default bcrypt cost unless overridden.
func New(opts ...Opt) *Hasher {
	h := &Hasher{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	if h.cost < bcrypt.MinCost || h.cost > bcrypt.MaxCost {
		h.cost = bcrypt.DefaultCost
	}
	return h
}

// Hash returns the bcrypt digest of plaintext. Each call embeds a fresh
// random salt, so hashing the same password twice yields different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Comparison is
// constant-time; a malformed digest verifies false rather than erroring.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
