package game

import (
	"strings"
)

// Pair is an unordered pair of endpoint symbols. A is always the lesser
// endpoint so two pairs with the same endpoints compare equal.
type Pair struct {
	A string
	B string
}

func NewPair(a, b string) (Pair, error) {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" || a == b {
		return Pair{}, ErrInvalidPair
	}
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}, nil
}

// ParsePair accepts "A-B", "A,B" or a bare two-symbol key such as "AP".
func ParsePair(s string) (Pair, error) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{"-", ","} {
		if a, b, ok := strings.Cut(s, sep); ok {
			return NewPair(a, b)
		}
	}
	if len(s) == 2 {
		return NewPair(s[:1], s[1:])
	}
	return Pair{}, ErrInvalidPair
}

// CanonicalPair normalises a pair key, e.g. "b,a" -> "A-B".
func CanonicalPair(s string) (string, error) {
	p, err := ParsePair(s)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

func (p Pair) String() string {
	return p.A + "-" + p.B
}

func (p Pair) Has(endpoint string) bool {
	return p.A == endpoint || p.B == endpoint
}

// Other returns the endpoint opposite to the given one.
func (p Pair) Other(endpoint string) (string, bool) {
	switch endpoint {
	case p.A:
		return p.B, true
	case p.B:
		return p.A, true
	default:
		return "", false
	}
}
