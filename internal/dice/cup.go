package dice

import (
	"fmt"
	"strconv"
	"strings"

	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/KirkDiggler/battlefield-terrain/internal/rolllog"
)

var supportedSides = map[int]bool{
	2:  true,
	3:  true,
	4:  true,
	6:  true,
	8:  true,
	10: true,
	12: true,
	20: true,
}

// IsSupported reports whether a die with the given number of faces can be rolled
func IsSupported(sides int) bool {
	return supportedSides[sides]
}

// Cup rolls dice through a Roller and traces labelled rolls to a roll log
type Cup struct {
	roller Roller
	log    *rolllog.Log
}

// NewCup creates a cup. A nil log gets a fresh one.
func NewCup(roller Roller, log *rolllog.Log) *Cup {
	if roller == nil {
		panic("roller is required")
	}
	if log == nil {
		log = rolllog.New()
	}
	return &Cup{roller: roller, log: log}
}

// Log returns the roll log this cup writes to
func (c *Cup) Log() *rolllog.Log {
	return c.log
}

// RollDie rolls a single die. A non-empty label traces "<label> [<value>]".
func (c *Cup) RollDie(sides int, label string) (int, error) {
	rolls, err := c.RollDice(sides, 1, label)
	if err != nil {
		return 0, err
	}
	return rolls[0], nil
}

// RollDice rolls count independent dice and returns them in roll order.
// A non-empty label traces "<label> [<v1>, <v2>, ...]".
func (c *Cup) RollDice(sides, count int, label string) ([]int, error) {
	if !IsSupported(sides) {
		return nil, terrerr.InvalidArgumentf("unsupported die d%d", sides).
			WithMeta("sides", sides)
	}
	if count < 1 {
		return nil, terrerr.InvalidArgumentf("dice count must be positive, got %d", count)
	}

	rolls := make([]int, count)
	for i := range rolls {
		roll, err := c.roller.Roll(sides)
		if err != nil {
			return nil, terrerr.Wrapf(err, "failed to roll d%d", sides)
		}
		if roll < 1 || roll > sides {
			return nil, terrerr.InvariantViolationf("roller returned %d for d%d", roll, sides)
		}
		rolls[i] = roll
	}

	if label != "" {
		c.log.Append(FormatTrace(label, rolls))
	}

	return rolls, nil
}

// RollNotation rolls a parsed expression and returns the total including bonus
func (c *Cup) RollNotation(n Notation, label string) (int, error) {
	rolls, err := c.RollDice(n.Sides, n.Count, label)
	if err != nil {
		return 0, err
	}
	return Sum(rolls) + n.Bonus, nil
}

// Sum adds up a set of rolls
func Sum(rolls []int) int {
	total := 0
	for _, r := range rolls {
		total += r
	}
	return total
}

// FormatTrace renders a labelled roll the way the roll log shows it
func FormatTrace(label string, rolls []int) string {
	values := make([]string, len(rolls))
	for i, r := range rolls {
		values[i] = strconv.Itoa(r)
	}
	return fmt.Sprintf("%s [%s]", label, strings.Join(values, ", "))
}
