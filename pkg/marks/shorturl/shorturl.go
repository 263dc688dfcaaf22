// Package shorturl converts link identities to short public aliases and back.
//
// Aliases are numerals in base 64 over a fixed alphabet, most significant
// digit first. A deployment-wide seed is added before encoding so that small
// identities do not map to trivially guessable aliases and so that two
// deployments with different seeds number their links differently.
package shorturl

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Alphabet holds the 64 alias symbols in digit order.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

const base = uint64(len(Alphabet))

// DefaultSeed is used when no seed is configured.
const DefaultSeed = 1000

// ErrInvalidAlias is returned by Decode for strings that are not aliases.
var ErrInvalidAlias = errors.New("invalid alias")

// Codec encodes and decodes aliases for one seed. It is immutable and safe
// for concurrent use.
type Codec struct {
	seed uint64
}

// New returns a codec for seed.
func New(seed uint64) *Codec {
	return &Codec{seed: seed}
}

// Seed returns the codec's seed.
func (c *Codec) Seed() uint64 {
	return c.seed
}

// Encode returns the alias for id.
func (c *Codec) Encode(id uint64) string {
	n := id + c.seed
	if n == 0 {
		return Alphabet[:1]
	}

	var digits [11]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = Alphabet[n%base]
		n /= base
	}
	return string(digits[i:])
}

// Decode returns the id encoded in alias.
func (c *Codec) Decode(alias string) (uint64, error) {
	if alias == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAlias)
	}

	var n uint64
	for _, r := range alias {
		idx := strings.IndexRune(Alphabet, r)
		if idx < 0 {
			return 0, fmt.Errorf("%w: unexpected character %q", ErrInvalidAlias, r)
		}
		if n > (math.MaxUint64-uint64(idx))/base {
			return 0, fmt.Errorf("%w: out of range", ErrInvalidAlias)
		}
		n = n*base + uint64(idx)
	}

	if n < c.seed {
		return 0, fmt.Errorf("%w: below seed", ErrInvalidAlias)
	}
	return n - c.seed, nil
}
