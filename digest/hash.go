package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names a digest function.
type Algorithm string

// Supported algorithms.
const (
	SHA256  Algorithm = "sha256"
	SHA512  Algorithm = "sha512"
	BLAKE2b Algorithm = "blake2b"
	BLAKE3  Algorithm = "blake3"
)

// builtinAlgorithms returns the digest constructors by name.
func builtinAlgorithms() map[Algorithm]func() hash.Hash {
	return map[Algorithm]func() hash.Hash{
		SHA256: sha256.New,
		SHA512: sha512.New,
		BLAKE2b: func() hash.Hash {
			// New256 only fails for keys longer than 64 bytes.
			h, _ := blake2b.New256(nil)
			return h
		},
		BLAKE3: func() hash.Hash {
			return blake3.New()
		},
	}
}

var algorithms = builtinAlgorithms()

// lookup returns the canonical algorithm and its constructor for name,
// matched case-insensitively.
func lookup(name string) (Algorithm, func() hash.Hash, bool) {
	algo := Algorithm(strings.ToLower(name))
	fn, ok := algorithms[algo]
	return algo, fn, ok
}

// Algorithms returns the supported algorithm names, sorted.
func Algorithms() []Algorithm {
	names := make([]Algorithm, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
