// Package digest abstracts the password hashing used by the account store so
// the algorithm can be swapped without touching the account control flow.
package digest

import (
	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
)

// ErrMismatch is returned by Compare when the password does not match the
// stored digest.
var ErrMismatch = errors.New("digest: mismatched password")

// A Digest generates and verifies password digests.
type Digest interface {
	// Generate returns the digest of the given password.
	Generate(password string) (string, error)
	// Compare checks the given password against a stored digest.
	// It returns ErrMismatch when the password does not match.
	Compare(encoded, password string) error
}

// New returns the digest implementation for the given name.
// An empty name selects Argon2.
func New(name string) (Digest, error) {
	switch name {
	case "", "argon2":
		return Argon2{}, nil
	case "legacy":
		return Legacy{}, nil
	}
	return nil, errors.Errorf("unknown digest: %s", name)
}

// Argon2 hashes passwords with salted Argon2id. It is the default for new
// databases.
type Argon2 struct{}

// Generate returns the digest of the given password.
func (Argon2) Generate(password string) (string, error) {
	digest, err := argon2.GenerateFromPasswordString(password, argon2.Default)
	return digest, errors.Wrap(err, "could not generate argon2 digest")
}

// Compare checks the given password against a stored digest.
func (Argon2) Compare(encoded, password string) error {
	err := argon2.CompareHashAndPasswordString(encoded, password)
	if err == argon2.ErrMismatchedHashAndPassword {
		return ErrMismatch
	}
	return errors.Wrap(err, "could not compare argon2 digest")
}
