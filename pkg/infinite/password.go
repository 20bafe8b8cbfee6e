package infinite

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashPassword returns the base64 encoded SHA-256 digest the platform expects
// in password fields.
//
// This is an unsalted digest kept for wire compatibility with the platform's
// auth endpoints. It is not a password storage scheme.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.StdEncoding.EncodeToString(sum[:])
}
