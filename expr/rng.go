package expr

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
)

// Source is the process-wide random source shared by every deviate
// Expression in one Analyze() run. It is not safe for concurrent Sample
// calls across Expressions that share it (spec §4.1 Concurrency) — the
// analytical core is single-threaded, so the mutex here only guards
// against accidental reuse across goroutines in host applications, the
// same defensive posture the teacher takes with its *rand.Rand option
// (builder.WithSeed/WithRand).
type Source struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a Source seeded deterministically. A negative
// seed draws entropy from crypto/rand once, matching Settings.seed < 0
// meaning "fresh, non-reproducible source" (spec §4.1).
func NewSeededSource(seed int64) *Source {
	if seed < 0 {
		seed = freshSeed()
	}
	return &Source{rng: mrand.New(mrand.NewSource(seed))}
}

func freshSeed() int64 {
	max := big.NewInt(1 << 62)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand failure is not expected on supported platforms;
		// fall back to a fixed constant rather than panic mid-analysis.
		var buf [8]byte
		return int64(binary.LittleEndian.Uint64(buf[:]))
	}
	return n.Int64()
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NormFloat64 returns a standard-normal draw (mean 0, sigma 1).
func (s *Source) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}

// ExpFloat64 returns a standard-exponential draw (rate 1).
func (s *Source) ExpFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.ExpFloat64()
}
