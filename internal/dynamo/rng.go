package dynamo

import "math/rand/v2"

// Source is the random stream an engine draws from. Float64 returns a value in [0, 1).
type Source interface {
	Float64() float64
}

type pcgSource struct {
	r *rand.Rand
}

func (p *pcgSource) Float64() float64 { return p.r.Float64() }

// NewSeededSource returns a reproducible source; equal seeds give equal streams.
func NewSeededSource(seed int64) Source {
	return &pcgSource{r: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

// NewSource returns a source seeded from the runtime's non-deterministic generator.
func NewSource() Source {
	return &pcgSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}
