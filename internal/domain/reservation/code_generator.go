package reservation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	DefaultCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	DefaultCodeLength   = 6
)

// CodeGenerator mints pickup codes and recognises codes it could have minted.
type CodeGenerator interface {
	Generate() (PickupCode, error)
	Normalize(raw string) (PickupCode, error)
}

// RandomCodeGenerator draws each symbol uniformly from alphabet with crypto/rand.
// Codes are not guaranteed unique; pickup resolves collisions by creation order.
type RandomCodeGenerator struct {
	alphabet string
	length   int
	max      *big.Int
}

func NewRandomCodeGenerator(alphabet string, length int) (*RandomCodeGenerator, error) {
	alphabet = strings.ToUpper(alphabet)
	if length <= 0 {
		return nil, fmt.Errorf("pickup code length must be positive, got %d", length)
	}
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("pickup code alphabet too small")
	}
	seen := make(map[byte]struct{}, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		ch := alphabet[i]
		if ch > 0x7f {
			return nil, fmt.Errorf("pickup code alphabet must be ASCII")
		}
		if _, dup := seen[ch]; dup {
			return nil, fmt.Errorf("pickup code alphabet has duplicate symbol %q", ch)
		}
		seen[ch] = struct{}{}
	}
	return &RandomCodeGenerator{
		alphabet: alphabet,
		length:   length,
		max:      big.NewInt(int64(len(alphabet))),
	}, nil
}

func (g *RandomCodeGenerator) Generate() (PickupCode, error) {
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, g.max)
		if err != nil {
			return PickupCode{}, fmt.Errorf("generate pickup code: %w", err)
		}
		buf[i] = g.alphabet[n.Int64()]
	}
	return PickupCode{value: string(buf)}, nil
}

// Normalize trims and upper-cases raw and rejects anything this generator could not emit.
func (g *RandomCodeGenerator) Normalize(raw string) (PickupCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != g.length {
		return PickupCode{}, ErrMalformedPickupCode
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(g.alphabet, code[i]) < 0 {
			return PickupCode{}, ErrMalformedPickupCode
		}
	}
	return PickupCode{value: code}, nil
}

func (g *RandomCodeGenerator) Length() int      { return g.length }
func (g *RandomCodeGenerator) Alphabet() string { return g.alphabet }
