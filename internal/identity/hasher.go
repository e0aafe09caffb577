package identity

import (
	"log"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher digests and verifies passwords. Digests are not interchangeable
// between implementations.
type Hasher interface {
	Hash(password string) string
	Verify(password, digest string) bool
}

// LegacyHasher reproduces the historical rolling multiply-add digest so
// digests already in storage keep verifying. It is fast, deterministic,
// unsalted and not collision resistant; its only job is to keep plaintext out
// of storage. Do not carry it into a security-sensitive deployment - switch to
// BcryptHasher and re-enrol passwords.
type LegacyHasher struct{}

// Hash folds the password into an int32 and renders it as hash_<abs hex>.
func (LegacyHasher) Hash(password string) string {
	var h int32
	for _, r := range password {
		h = (h << 5) - h + int32(r)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return "hash_" + strconv.FormatInt(abs, 16)
}

// Verify recomputes the digest and compares.
func (lh LegacyHasher) Verify(password, digest string) bool {
	return lh.Hash(password) == digest
}

// BcryptHasher is the salted, slow replacement, selected with
// PASSWORD_SCHEME=bcrypt.
type BcryptHasher struct{}

// Hash generates a bcrypt digest at the default cost. On failure it returns an
// empty digest, which never verifies.
func (BcryptHasher) Hash(password string) string {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("identity: bcrypt hashing failed: %v", err)
		return ""
	}
	return string(digest)
}

// Verify compares the password against the bcrypt digest.
func (BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// HasherFor maps a configured scheme name to a Hasher. Anything other than
// "bcrypt" falls back to the legacy digest for compatibility with existing
// stored digests.
func HasherFor(scheme string) Hasher {
	if strings.EqualFold(scheme, "bcrypt") {
		return BcryptHasher{}
	}
	return LegacyHasher{}
}
