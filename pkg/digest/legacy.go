package digest

import (
	"crypto/subtle"
	"strconv"
	"unicode/utf16"
)

// Legacy reproduces the 32-bit signed rolling checksum used by historical
// CloudDrop databases, rendered in base36. It has no salt and is trivially
// brute-forceable for short inputs: it is NOT a password-hashing primitive
// and exists only to keep stored digests readable. New databases use Argon2.
type Legacy struct{}

// Generate returns the digest of the given password.
// The checksum runs over UTF-16 code units to stay bit-for-bit compatible
// with digests already present in historical databases.
func (Legacy) Generate(password string) (string, error) {
	var h int32
	for _, c := range utf16.Encode([]rune(password)) {
		h = h*31 + int32(c)
	}
	return strconv.FormatInt(int64(h), 36), nil
}

// Compare checks the given password against a stored digest.
func (l Legacy) Compare(encoded, password string) error {
	computed, _ := l.Generate(password)
	if subtle.ConstantTimeCompare([]byte(encoded), []byte(computed)) != 1 {
		return ErrMismatch
	}
	return nil
}
