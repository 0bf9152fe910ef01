package plant

import "math/rand"

// NoiseSource supplies all randomness consumed by the simulation stepper.
// Injecting a source pins the whole trajectory, which is how tests assert
// exact values and how two processes can be made to replay identically.
//
// Implementations do not need to be safe for concurrent use; the Store
// serialises every call under its state lock.
type NoiseSource interface {
	// Sample returns a value uniformly distributed in [-half, +half].
	Sample(half float64) float64

	// Chance reports true with probability p.
	Chance(p float64) bool

	// Index returns a uniform integer in [0, n).
	Index(n int) int
}

// DefaultSeed is the noise seed used when no NoiseSource is supplied.
const DefaultSeed = 42

// NewNoise returns a NoiseSource backed by math/rand with the given seed.
// The same seed always produces the same sequence.
func NewNoise(seed int64) NoiseSource {
	return &randNoise{rng: rand.New(rand.NewSource(seed))}
}

type randNoise struct {
	rng *rand.Rand
}

func (n *randNoise) Sample(half float64) float64 {
	return (n.rng.Float64()*2 - 1) * half
}

func (n *randNoise) Chance(p float64) bool {
	return n.rng.Float64() < p
}

func (n *randNoise) Index(count int) int {
	return n.rng.Intn(count)
}
