package random

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_random.go github.com/KirkDiggler/pickup/internal/random Shuffler,Picker

// Shuffler produces the permutation used to seed captains and draft order
type Shuffler interface {
	// Perm returns a permutation of [0, n)
	Perm(n int) []int
}

// Picker chooses an index, used for flavor text
type Picker interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// Source implements Shuffler and Picker over a seedable math/rand source
type Source struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for the random source
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new random source
func New(cfg *Config) *Source {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Source{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Perm returns a pseudo-random permutation of [0, n)
func (s *Source) Perm(n int) []int {
	if n <= 0 {
		return []int{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Perm(n)
}

// Intn returns a pseudo-random value in [0, n), or 0 when n < 1
func (s *Source) Intn(n int) int {
	if n < 1 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Intn(n)
}
