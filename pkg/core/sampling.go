package core

import "math/rand"

// Sampler provides random numbers to anything that jitters rays.
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic generator
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return Vec2{X: r.random.Float64(), Y: r.random.Float64()}
}

// ConstantSampler always returns the same sample; used to pin jitter in tests
type ConstantSampler struct {
	Value Vec2
}

// Get1D returns the X component of the constant sample
func (c ConstantSampler) Get1D() float64 {
	return c.Value.X
}

// Get2D returns the constant sample
func (c ConstantSampler) Get2D() Vec2 {
	return c.Value
}
