// Package nationalid handles CCCD numbers: format check, keyed hash and
// last-4 projection. The plaintext number is never persisted.
package nationalid

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

const Length = 12

var pattern = regexp.MustCompile(`^\d{12}$`)

// Normalize trims whitespace and reports whether s is exactly 12 digits.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, pattern.MatchString(s)
}

func Last4(id string) string {
	if len(id) < 4 {
		return id
	}
	return id[len(id)-4:]
}

// Mask is the form written to audit logs.
func Mask(id string) string {
	return "****" + Last4(id)
}

type Hasher struct {
	key []byte
}

func NewHasher(pepper string) Hasher {
	return Hasher{key: []byte(pepper)}
}

// Hash returns hex(HMAC-SHA256(pepper, id)).
func (h Hasher) Hash(id string) string {
	m := hmac.New(sha256.New, h.key)
	_, _ = m.Write([]byte(id))
	return hex.EncodeToString(m.Sum(nil))
}
