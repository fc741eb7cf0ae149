// Package rooms derives the broadcast room identifier for a pair of users.
//
// The room id is a pure function of the unordered pair: both participants,
// on any service instance, at any time, derive the same id. Clients are never
// shown the id's inputs, only the digest.
package rooms

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// separator joins the sorted pair before hashing. It must never appear in a
// legal user identifier, which rules out concatenation ambiguity between
// distinct pairs.
const separator = "-$%^&*#@!~"

// ErrEmptyUserID is returned when either identifier is empty.
var ErrEmptyUserID = errors.New("rooms: empty user id")

// ID returns the stable room identifier for the unordered pair (a, b):
// sha256 over the lexicographically sorted pair, hex encoded.
func ID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", ErrEmptyUserID
	}
	if b < a {
		a, b = b, a
	}
	sum := sha256.Sum256([]byte(a + separator + b))
	return hex.EncodeToString(sum[:]), nil
}
