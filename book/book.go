package book

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/bookforge/game"
)

// Candidate is one move out of a position with its accumulated weight.
// Weights stay int64 in memory; they only have to fit 16 bits after
// normalization, at write time.
type Candidate struct {
	Move   game.Move
	Weight int64
}

// Position collects the candidate moves seen from one position key.
type Position struct {
	FEN   string
	Moves map[string]*Candidate
}

// Book is the in-memory aggregate a builder fills before writing. It is not
// safe for concurrent use; the builder gives each worker its own Book and
// merges afterwards.
type Book struct {
	Positions map[uint64]*Position
}

func New() *Book {
	return &Book{Positions: map[uint64]*Position{}}
}

// Len reports the number of distinct positions.
func (b *Book) Len() int { return len(b.Positions) }

// Position returns the entry for key, creating it when first seen. An
// existing entry is never replaced.
func (b *Book) Position(key uint64) *Position {
	p := b.Positions[key]
	if p == nil {
		p = &Position{Moves: map[string]*Candidate{}}
		b.Positions[key] = p
	}
	return p
}

// Move returns the candidate for a notation, creating it with zero weight
// when first seen.
func (p *Position) Move(notation string) *Candidate {
	c := p.Moves[notation]
	if c == nil {
		c = &Candidate{}
		p.Moves[notation] = c
	}
	return c
}

// Accumulate adds weight to one (position, move) pair, creating both as
// needed. The first structured move recorded for a notation sticks; a
// conflicting one later is logged and ignored. Transpositions land on the
// same key, and the first FEN seen for a key stays its representative.
func (b *Book) Accumulate(key uint64, fen string, m game.Move, weight int64) {
	p := b.Position(key)
	if p.FEN == "" {
		p.FEN = fen
	} else if fen != "" && fen != p.FEN {
		log.Debug().Str("key", KeyString(key)).Str("kept", p.FEN).Str("seen", fen).
			Msg("transposed position, keeping first fen")
	}

	uci := m.UCI()
	c := p.Move(uci)
	if c.Move == (game.Move{}) {
		c.Move = m
	} else if c.Move != m {
		log.Debug().Str("key", KeyString(key)).Str("move", uci).
			Msg("conflicting structured move, keeping first seen")
	}
	c.Weight += weight
}

// Merge folds another book's candidates into this one.
func (b *Book) Merge(other *Book) {
	for key, p := range other.Positions {
		for _, c := range p.Moves {
			b.Accumulate(key, p.FEN, c.Move, c.Weight)
		}
	}
}

// KeyString renders a position key the way book tooling prints them.
func KeyString(key uint64) string {
	return fmt.Sprintf("%016x", key)
}

// ParseKey reads a key back from its hex form.
func ParseKey(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
