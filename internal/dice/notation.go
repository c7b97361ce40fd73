package dice

import (
	"fmt"
	"strconv"
	"strings"

	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Notation is a parsed dice expression such as "2d6" or "d6+4"
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// ParseNotation parses "NdS", "dS", "NdS+B" and "NdS-B" expressions
func ParseNotation(expr string) (Notation, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Notation{}, terrerr.InvalidArgument("empty dice expression")
	}

	var n Notation
	dice := s
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		bonus, err := strconv.Atoi(s[i:])
		if err != nil {
			return Notation{}, terrerr.InvalidArgumentf("invalid dice bonus in %q", expr)
		}
		n.Bonus = bonus
		dice = s[:i]
	}

	parts := strings.Split(dice, "d")
	if len(parts) != 2 {
		return Notation{}, terrerr.InvalidArgumentf("invalid dice expression %q", expr)
	}

	n.Count = 1
	if parts[0] != "" {
		count, err := strconv.Atoi(parts[0])
		if err != nil {
			return Notation{}, terrerr.InvalidArgumentf("invalid dice count in %q", expr)
		}
		n.Count = count
	}

	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return Notation{}, terrerr.InvalidArgumentf("invalid dice size in %q", expr)
	}
	n.Sides = sides

	if n.Count < 1 {
		return Notation{}, terrerr.InvalidArgumentf("dice count must be positive in %q", expr)
	}
	if !IsSupported(n.Sides) {
		return Notation{}, terrerr.InvalidArgumentf("unsupported die d%d in %q", n.Sides, expr)
	}

	return n, nil
}

// String renders the notation the way the tables print it, e.g. "D6+4"
func (n Notation) String() string {
	var b strings.Builder
	if n.Count > 1 {
		b.WriteString(strconv.Itoa(n.Count))
	}
	fmt.Fprintf(&b, "D%d", n.Sides)
	switch {
	case n.Bonus > 0:
		fmt.Fprintf(&b, "+%d", n.Bonus)
	case n.Bonus < 0:
		fmt.Fprintf(&b, "%d", n.Bonus)
	}
	return b.String()
}

// Min returns the smallest possible total
func (n Notation) Min() int {
	return n.Count + n.Bonus
}

// Max returns the largest possible total
func (n Notation) Max() int {
	return n.Count*n.Sides + n.Bonus
}
