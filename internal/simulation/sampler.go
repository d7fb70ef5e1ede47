package simulation

import (
	"math"
	"math/rand/v2"

	"github.com/Nadirh/retirement-planning/pkg/types"
)

// Sampler yields the month drawn for each simulated month of one path
type Sampler interface {
	Next() types.MonthlyObservation
}

// StreamKey identifies one independent random stream: one iteration of one
// allocation, the allocation given in basis points of stock.
type StreamKey struct {
	AllocationBP int
	Iteration    int
}

// KeyFor builds the stream key for an allocation and iteration
func KeyFor(stockAllocation float64, iteration int) StreamKey {
	return StreamKey{
		AllocationBP: int(math.Round(stockAllocation * 10000)),
		Iteration:    iteration,
	}
}

// SamplerSource hands out a fresh sampler per stream. Implementations must be
// safe for concurrent use; the samplers they return need not be.
type SamplerSource interface {
	Sampler(key StreamKey) Sampler
}

// Bootstrapper draws one whole historical month using the given stream
type Bootstrapper interface {
	SampleUniform(r *rand.Rand) types.MonthlyObservation
}

// BootstrapSource resamples a historical series with replacement. Every
// stream gets its own PCG generator seeded from (Seed, key), so outcomes do
// not depend on how work is spread across goroutines.
type BootstrapSource struct {
	series Bootstrapper
	seed   uint64
}

// NewBootstrapSource creates a source over series
func NewBootstrapSource(series Bootstrapper, seed uint64) *BootstrapSource {
	return &BootstrapSource{series: series, seed: seed}
}

// Seed returns the top-level seed
func (s *BootstrapSource) Seed() uint64 {
	return s.seed
}

// Sampler returns the sampler for key
func (s *BootstrapSource) Sampler(key StreamKey) Sampler {
	hi, lo := StreamSeeds(s.seed, key)
	return &bootstrapSampler{
		series: s.series,
		rng:    rand.New(rand.NewPCG(hi, lo)),
	}
}

type bootstrapSampler struct {
	series Bootstrapper
	rng    *rand.Rand
}

func (b *bootstrapSampler) Next() types.MonthlyObservation {
	return b.series.SampleUniform(b.rng)
}

// StreamSeeds derives the two PCG seed words for key
func StreamSeeds(seed uint64, key StreamKey) (uint64, uint64) {
	hi := splitMix64(seed ^ splitMix64(uint64(key.AllocationBP)+1))
	lo := splitMix64(hi ^ splitMix64(uint64(key.Iteration)+0x632be59bd9b4e019))
	return hi, lo
}

func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// SequenceSource replays a fixed list of months, cycling, for every stream.
// It pins exact draw sequences in tests and what-if runs.
type SequenceSource struct {
	months []types.MonthlyObservation
}

// NewSequenceSource creates a source over months; it panics on an empty list
func NewSequenceSource(months ...types.MonthlyObservation) *SequenceSource {
	if len(months) == 0 {
		panic("simulation: sequence source needs at least one month")
	}
	return &SequenceSource{months: months}
}

// Sampler returns a sampler starting from the first month
func (s *SequenceSource) Sampler(StreamKey) Sampler {
	return &sequenceSampler{months: s.months}
}

type sequenceSampler struct {
	months []types.MonthlyObservation
	pos    int
}

func (s *sequenceSampler) Next() types.MonthlyObservation {
	m := s.months[s.pos%len(s.months)]
	s.pos++
	return m
}
