package command

import (
	"math/rand/v2"
	"sync"
)

// Picker selects random entries from static lists. Seeding it makes the
// selection reproducible in tests.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a picker seeded with the given value.
func NewPicker(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed))}
}

// NewRandomPicker returns a picker with an unpredictable seed.
func NewRandomPicker() *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Pick returns a uniformly random element. Empty input returns "".
func (p *Picker) Pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return list[p.rng.IntN(len(list))]
}
