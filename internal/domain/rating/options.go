package rating

import "math/rand"

// Option applies a configuration option to the Table.
type Option func(*Table)

// WithKFactor sets the maximum per-match score swing.
func WithKFactor(k float64) Option {
	return func(t *Table) {
		if k > 0 {
			t.k = k
		}
	}
}

// WithSeed seeds the shuffle used to pair photos each round, making the
// match-up schedule reproducible. Intended for tests.
func WithSeed(seed int64) Option {
	return func(t *Table) {
		t.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible scheduling
	}
}
