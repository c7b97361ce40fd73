package dice

import (
	"math/rand"
	"sync"

	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// countingSource counts every value drawn from the wrapped source so a
// stream can be replayed to the same position later.
type countingSource struct {
	src   rand.Source
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.draws = 0
}

// RandomRoller implements Roller with a seeded math/rand stream
type RandomRoller struct {
	mu     sync.Mutex
	seed   int64
	source *countingSource
	rng    *rand.Rand
}

// NewRandomRoller creates a roller whose results are reproducible for seed
func NewRandomRoller(seed int64) *RandomRoller {
	source := &countingSource{src: rand.NewSource(seed)}
	return &RandomRoller{
		seed:   seed,
		source: source,
		rng:    rand.New(source),
	}
}

// RestoreRandomRoller creates a roller for seed and advances it past draws
// values, reproducing the exact stream position of an earlier roller.
func RestoreRandomRoller(seed, draws int64) *RandomRoller {
	r := NewRandomRoller(seed)
	for i := int64(0); i < draws; i++ {
		r.source.Int63()
	}
	return r
}

// Roll implements Roller.Roll
func (r *RandomRoller) Roll(sides int) (int, error) {
	if sides < 1 {
		return 0, terrerr.InvalidArgumentf("invalid die size d%d", sides)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1, nil
}

// Seed returns the seed the stream started from
func (r *RandomRoller) Seed() int64 {
	return r.seed
}

// Draws returns how many values have been drawn from the source
func (r *RandomRoller) Draws() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source.draws
}
