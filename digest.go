// Output digests.
//
// The sink hashes every byte it writes, before compression, so two runs that
// report the same digest wrote the same records. This is how the seek and
// stream strategies are checked against each other without diffing files.
package logsearch

import (
	"encoding/hex"
	"hash"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Digest algorithm names.
const (
	DigestXXH3    = "xxh3"    // Default, fastest
	DigestBlake2b = "blake2b" // Cryptographic, 256-bit
	DigestNone    = "none"
)

// newDigest returns a fresh hash for alg. A nil hash means no digest.
func newDigest(alg string) (hash.Hash, error) {
	switch strings.ToLower(alg) {
	case "", DigestXXH3:
		return xxh3.New(), nil
	case DigestBlake2b:
		return blake2b.New256(nil)
	case DigestNone:
		return nil, nil
	default:
		return nil, ErrUnknownDigest
	}
}

func sumHex(h hash.Hash) string {
	if h == nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
