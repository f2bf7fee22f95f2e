// Package fingerprint derives deterministic cache keys from request
// payloads.
package fingerprint

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the cache key for a payload. The payload is normalized
// first so that requests differing only in letter case or whitespace
// share a key. Identical payloads always produce identical keys.
func Sum(payload string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(Normalize(payload)))
}

// Normalize lowercases the payload and collapses whitespace runs into
// single spaces.
func Normalize(payload string) string {
	return strings.Join(strings.Fields(strings.ToLower(payload)), " ")
}
