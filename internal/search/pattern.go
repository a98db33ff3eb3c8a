package search

import (
	"encoding/hex"
	"strings"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// MaxPatternLen is the longest pattern accepted, in hex characters.
const MaxPatternLen = 16

// Digest is a SHA-1 commit object id.
type Digest [20]byte

// String returns the lowercase hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Pattern is a compiled hex prefix matched against digests with half-byte
// precision.
type Pattern struct {
	text  string
	bytes [MaxPatternLen / 2]byte
	full  int  // whole bytes to compare
	odd   bool // a trailing high nibble follows the whole bytes
	last  byte // value of that nibble
}

// CompilePattern validates and compiles a hex pattern. Upper case is
// accepted and normalised.
func CompilePattern(s string) (*Pattern, error) {
	text := strings.ToLower(strings.TrimSpace(s))

	switch {
	case text == "":
		return nil, vainErrors.NewPatternError(s, "is empty")
	case len(text) > MaxPatternLen:
		return nil, vainErrors.NewPatternError(s, "is longer than 16 hex characters")
	}

	p := &Pattern{text: text, full: len(text) / 2, odd: len(text)%2 == 1}
	for i := 0; i < len(text); i++ {
		nibble, ok := fromHex(text[i])
		if !ok {
			return nil, vainErrors.NewPatternError(s, "must be hexadecimal")
		}
		if i%2 == 0 {
			p.bytes[i/2] = nibble << 4
		} else {
			p.bytes[i/2] |= nibble
		}
	}
	if p.odd {
		p.last = p.bytes[p.full] >> 4
	}
	return p, nil
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// Match reports whether d starts with the pattern.
func (p *Pattern) Match(d *Digest) bool {
	for i := 0; i < p.full; i++ {
		if d[i] != p.bytes[i] {
			return false
		}
	}
	return !p.odd || d[p.full]>>4 == p.last
}

// Len returns the pattern length in nibbles.
func (p *Pattern) Len() int {
	return len(p.text)
}

// String returns the normalised pattern.
func (p *Pattern) String() string {
	return p.text
}

// Expected returns the mean number of candidates needed for one match.
func (p *Pattern) Expected() float64 {
	n := 1.0
	for i := 0; i < p.Len(); i++ {
		n *= 16
	}
	return n
}
