package runtime

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource is the pseudo-random source behind both sampling modes, the
// per-persona delay draw, and the cascade coin flip. Production uses one
// time-seeded LockedSource per process; tests inject a seeded or rigged
// implementation for reproducibility.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
	Between(min, max float64) float64
}

type LockedSource struct {
	mu  sync.Mutex
	src *rand.Rand
}

func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{src: rand.New(rand.NewSource(seed))}
}

func NewTimeSource() *LockedSource {
	return NewLockedSource(time.Now().UnixNano())
}

func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *LockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

func (l *LockedSource) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.Shuffle(n, swap)
}

// Between draws uniformly from the inclusive [min,max] range.
func (l *LockedSource) Between(min, max float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.src.Float64()*(max-min)
}
