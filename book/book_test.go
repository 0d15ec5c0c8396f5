package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookforge/game"
)

func mv(t *testing.T, uci string) game.Move {
	t.Helper()
	m, err := game.ParseMove(uci)
	assert.Nil(t, err)
	return m
}

func TestPositionGetOrCreate(t *testing.T) {
	b := New()
	assert.Equal(t, 0, b.Len())

	p := b.Position(42)
	assert.NotNil(t, p)
	assert.Equal(t, 1, b.Len())

	// Asking again must hand back the same entry, never a fresh one.
	p.FEN = "marker"
	again := b.Position(42)
	assert.Equal(t, p, again)
	assert.Equal(t, "marker", again.FEN)
	assert.Equal(t, 1, b.Len())
}

func TestMoveGetOrCreate(t *testing.T) {
	p := New().Position(1)

	c := p.Move("e2e4")
	assert.NotNil(t, c)
	assert.Equal(t, int64(0), c.Weight)

	c.Weight = 7
	assert.Equal(t, c, p.Move("e2e4"))
	assert.Equal(t, int64(7), p.Move("e2e4").Weight)
	assert.Len(t, p.Moves, 1)
}

func TestAccumulateSumsWeights(t *testing.T) {
	// Two accumulations must land exactly where one with the summed delta
	// lands.
	twice := New()
	twice.Accumulate(9, "fen", mv(t, "e2e4"), 2)
	twice.Accumulate(9, "fen", mv(t, "e2e4"), 1)

	once := New()
	once.Accumulate(9, "fen", mv(t, "e2e4"), 3)

	assert.Equal(t, int64(3), twice.Position(9).Move("e2e4").Weight)
	assert.Equal(t, once.Position(9).Move("e2e4").Weight, twice.Position(9).Move("e2e4").Weight)
	assert.Len(t, twice.Position(9).Moves, 1)
}

func TestAccumulateNegativeDelta(t *testing.T) {
	// Game scoring never goes below zero but merges may import anything.
	b := New()
	b.Accumulate(9, "", mv(t, "e2e4"), 5)
	b.Accumulate(9, "", mv(t, "e2e4"), -8)
	assert.Equal(t, int64(-3), b.Position(9).Move("e2e4").Weight)
}

func TestAccumulateKeepsFirstFEN(t *testing.T) {
	b := New()
	b.Accumulate(9, "first", mv(t, "e2e4"), 1)
	b.Accumulate(9, "second", mv(t, "d2d4"), 1)
	assert.Equal(t, "first", b.Position(9).FEN)
	assert.Len(t, b.Position(9).Moves, 2)

	// A merge-path accumulate has no FEN and must fill an empty slot only.
	b.Accumulate(10, "", mv(t, "e2e4"), 1)
	b.Accumulate(10, "late", mv(t, "e2e4"), 1)
	assert.Equal(t, "late", b.Position(10).FEN)
}

func TestAccumulateKeepsFirstResolvedMove(t *testing.T) {
	b := New()
	p := b.Position(9)
	c := p.Move("e2e4")
	// Simulate an upstream bug: the notation already exists with different
	// structured data. The stored move must not change.
	c.Move = game.Move{From: game.E1, To: game.G1}

	b.Accumulate(9, "", mv(t, "e2e4"), 4)
	assert.Equal(t, game.Move{From: game.E1, To: game.G1}, c.Move)
	assert.Equal(t, int64(4), c.Weight)
}

func TestMergeBooks(t *testing.T) {
	a := New()
	a.Accumulate(1, "fen1", mv(t, "e2e4"), 100)
	a.Accumulate(2, "fen2", mv(t, "d2d4"), 30)

	b := New()
	b.Accumulate(1, "", mv(t, "e2e4"), 50)
	b.Accumulate(1, "", mv(t, "g1f3"), 7)

	a.Merge(b)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, int64(150), a.Position(1).Move("e2e4").Weight)
	assert.Equal(t, int64(7), a.Position(1).Move("g1f3").Weight)
	assert.Equal(t, int64(30), a.Position(2).Move("d2d4").Weight)
	assert.Equal(t, "fen1", a.Position(1).FEN)
}

func TestKeyStringRoundTrip(t *testing.T) {
	assert.Equal(t, "463b96181691fc9c", KeyString(0x463b96181691fc9c))
	assert.Equal(t, "0000000000000001", KeyString(1))

	k, err := ParseKey("463b96181691fc9c")
	assert.Nil(t, err)
	assert.Equal(t, uint64(0x463b96181691fc9c), k)

	_, err = ParseKey("not hex")
	assert.NotNil(t, err)
}
