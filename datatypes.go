package bookforge

import (
	"runtime"

	"github.com/bookforge/book"
)

// Config for a book build. It bounds how deep into each game the builder
// reads and how weights are scaled on the way out.
type Config struct {
	// MaxPlies is how many plies of each game enter the book.
	MaxPlies int `json:"max_plies"`
	// MaxWeight is the normalization ceiling for each position's weights.
	MaxWeight int64 `json:"max_weight"`
	// Workers caps how many corpus files are ingested concurrently.
	Workers int `json:"workers"`
}

// DefaultConfig mirrors the knobs book consumers expect: twenty plies of
// opening per game, weights scaled to ten thousand.
func DefaultConfig() Config {
	return Config{
		MaxPlies:  20,
		MaxWeight: book.MaxWeight,
		Workers:   runtime.NumCPU(),
	}
}

// IsValid reports whether the config can drive a build. MaxWeight must fit
// the 16-bit weight field of a book record.
func (c Config) IsValid() bool {
	return c.MaxPlies > 0 && c.MaxWeight > 0 && c.MaxWeight <= 65535 && c.Workers > 0
}
