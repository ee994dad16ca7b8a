package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Notation is a parsed dice expression such as "d20", "2d6" or "2d6+3".
type Notation struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseNotation parses a dice expression permissively. Anything that cannot
// be understood collapses to a single d20 rather than an error, because the
// dice type usually arrives from model output and a bad string must not
// crash the turn loop.
func ParseNotation(s string) Notation {
	fallback := Notation{Count: 1, Sides: DefaultSides}

	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	idx := strings.IndexByte(s, 'd')
	if idx < 0 {
		return fallback
	}

	count := 1
	if idx > 0 {
		n, err := strconv.Atoi(s[:idx])
		if err != nil || n <= 0 {
			return fallback
		}
		count = n
	}

	rest := s[idx+1:]
	modifier := 0
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		m, err := strconv.Atoi(rest[plus+1:])
		if err != nil {
			return fallback
		}
		modifier = m
		rest = rest[:plus]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil || sides <= 0 {
		return fallback
	}

	return Notation{Count: count, Sides: sides, Modifier: modifier}
}

// Roll evaluates the notation against src.
func (n Notation) Roll(src Source) int {
	total, err := Roll(src, n.Count, n.Sides)
	if err != nil {
		// Notation values are normalized by ParseNotation; a literal
		// zero-value Notation still rolls the default die.
		total, _ = Roll(src, 1, DefaultSides)
	}
	return total + n.Modifier
}

// String renders the notation in its canonical form, e.g. "2d6+3".
func (n Notation) String() string {
	s := fmt.Sprintf("%dd%d", n.Count, n.Sides)
	if n.Modifier != 0 {
		s += fmt.Sprintf("%+d", n.Modifier)
	}
	return s
}
