package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher struct {
	cost    int
	dummy   []byte
	compare func(hash, plain []byte) error
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Only fails for an out-of-range cost, which was ruled out above.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("unused placeholder password"), cost)
	return &PasswordHasher{cost: cost, dummy: dummy, compare: bcrypt.CompareHashAndPassword}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. A malformed hash is an error,
// a wrong password is not.
func (h *PasswordHasher) Verify(hash, plain string) (bool, error) {
	err := h.compare([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// VerifyDummy compares plain against a throwaway hash of the hasher's cost.
// It takes as long as a Verify that fails.
func (h *PasswordHasher) VerifyDummy(plain string) {
	_ = h.compare(h.dummy, []byte(plain))
}

// NeedsRehash reports whether hash was produced with a different cost.
func (h *PasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != h.cost
}
