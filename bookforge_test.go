package bookforge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookforge/book"
	"github.com/bookforge/game"
)

func writeCorpus(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func mustMove(t *testing.T, uci string) game.Move {
	t.Helper()
	m, err := game.ParseMove(uci)
	assert.Nil(t, err)
	return m
}

const twoGameCorpus = `[Event "game a"]
[Result "1-0"]

1. e4 1-0

[Event "game b"]
[Result "1/2-1/2"]

1. e4 1/2-1/2
`

// A one-ply white win and a one-ply draw over the same move: raw weight
// 2 + 1, normalized to the full ceiling since e2e4 is the only move, and
// written as a single record for the starting position.
func TestBuildTwoGameScenario(t *testing.T) {
	dir := t.TempDir()
	corpus := writeCorpus(t, dir, "corpus.pgn", twoGameCorpus)
	out := filepath.Join(dir, "book.bin")

	b := New(DefaultConfig())
	assert.Nil(t, b.Build(context.Background(), []string{corpus}))
	assert.Equal(t, 2, b.Games)
	assert.Equal(t, 0, b.Skipped)

	assert.Equal(t, int64(3), b.Book().Position(0x463b96181691fc9c).Move("e2e4").Weight)

	counts, err := b.WriteBook(out)
	assert.Nil(t, err)
	assert.Equal(t, book.Counts{Positions: 1, Moves: 1}, counts)

	table, err := book.LoadTable(out)
	assert.Nil(t, err)
	assert.Equal(t, 1, table.Len())
	e := table.Entries[0]
	assert.Equal(t, uint64(0x463b96181691fc9c), e.Key)
	assert.Equal(t, uint16(0x031c), e.Move)
	assert.Equal(t, uint16(10000), e.Weight)
}

func TestBuildMissingCorpusFailsBeforeIngesting(t *testing.T) {
	dir := t.TempDir()
	good := writeCorpus(t, dir, "good.pgn", twoGameCorpus)
	missing := filepath.Join(dir, "absent.pgn")

	b := New(DefaultConfig())
	err := b.Build(context.Background(), []string{good, missing})
	assert.NotNil(t, err)
	assert.Equal(t, 0, b.Games)
	assert.Equal(t, 0, b.Book().Len())

	assert.NotNil(t, New(DefaultConfig()).Build(context.Background(), nil))
}

func TestBuildSkipsGarbageGames(t *testing.T) {
	corpus := `[Event "good one"]
[Result "1-0"]

1. e4 1-0

[Event "broken"]
[Result "1-0"]

1. e5 Ke2 1-0

[Event "good two"]
[Result "0-1"]

1. d4 0-1
`
	dir := t.TempDir()
	b := New(DefaultConfig())
	assert.Nil(t, b.Build(context.Background(), []string{writeCorpus(t, dir, "c.pgn", corpus)}))
	assert.Equal(t, 2, b.Games)
	assert.Equal(t, 1, b.Skipped)
	assert.Equal(t, 1, b.Book().Len())
}

func TestBuildSkipsUnsupportedVariants(t *testing.T) {
	corpus := `[Event "not ours"]
[Variant "Atomic"]
[Result "1-0"]

1. e2e4 g8f6 1-0

[Event "ours"]
[Result "1/2-1/2"]

1. e4 1/2-1/2
`
	dir := t.TempDir()
	b := New(DefaultConfig())
	assert.Nil(t, b.Build(context.Background(), []string{writeCorpus(t, dir, "c.pgn", corpus)}))
	assert.Equal(t, 1, b.Games)
	assert.Equal(t, 1, b.Unsupported)
	assert.Equal(t, 0, b.Skipped)

	// No ply of the atomic game may leak into the book.
	assert.Equal(t, 1, b.Book().Len())
	assert.Equal(t, int64(1), totalWeight(b.Book()))
}

func TestBuildVariantCorpus(t *testing.T) {
	corpus := `[Event "zh"]
[Variant "Crazyhouse"]
[Result "0-1"]

1. e2e4 N@f6 0-1
`
	dir := t.TempDir()
	out := filepath.Join(dir, "book.bin")

	b := New(DefaultConfig())
	assert.Nil(t, b.Build(context.Background(), []string{writeCorpus(t, dir, "zh.pgn", corpus)}))
	assert.Equal(t, 1, b.Games)

	counts, err := b.WriteBook(out)
	assert.Nil(t, err)
	// e2e4 scores zero for a black win and gets filtered.
	assert.Equal(t, book.Counts{Positions: 1, Moves: 1}, counts)

	table, err := book.LoadTable(out)
	assert.Nil(t, err)
	assert.Equal(t, 1, table.Len())
	m := book.DecodeMove(table.Entries[0].Move)
	assert.Equal(t, "N@f6", m.UCI())
	assert.Equal(t, uint16(10000), table.Entries[0].Weight)
}

func TestBuildDeterministic(t *testing.T) {
	// Two one-ply wins over different moves tie after normalization, which
	// is exactly where unordered map iteration would otherwise show up.
	corpus := `[Event "a"]
[Result "1-0"]

1. e4 1-0

[Event "b"]
[Result "1-0"]

1. d4 1-0
`
	dir := t.TempDir()
	path := writeCorpus(t, dir, "c.pgn", corpus)

	var blobs [][]byte
	for _, name := range []string{"one.bin", "two.bin"} {
		b := New(DefaultConfig())
		assert.Nil(t, b.Build(context.Background(), []string{path}))
		out := filepath.Join(dir, name)
		_, err := b.WriteBook(out)
		assert.Nil(t, err)
		data, err := os.ReadFile(out)
		assert.Nil(t, err)
		blobs = append(blobs, data)
	}
	assert.Equal(t, blobs[0], blobs[1])
}

func TestSeedFromBooks(t *testing.T) {
	dir := t.TempDir()

	seed := book.New()
	seed.Accumulate(0x463b96181691fc9c, "", mustMove(t, "e2e4"), 100)
	seedPath := filepath.Join(dir, "seed.bin")
	_, err := seed.Write(seedPath)
	assert.Nil(t, err)

	b := New(DefaultConfig())
	assert.Nil(t, b.SeedFromBooks([]string{seedPath}))
	assert.Equal(t, 1, b.Merged)

	corpus := writeCorpus(t, dir, "c.pgn", twoGameCorpus)
	assert.Nil(t, b.Build(context.Background(), []string{corpus}))
	assert.Equal(t, int64(103), b.Book().Position(0x463b96181691fc9c).Move("e2e4").Weight)

	// Unreadable seeds are reported but do not stop the readable ones.
	b2 := New(DefaultConfig())
	err = b2.SeedFromBooks([]string{filepath.Join(dir, "absent.bin"), seedPath})
	assert.NotNil(t, err)
	assert.Equal(t, 1, b2.Merged)
}

func TestNewPanicsOnBadConfig(t *testing.T) {
	assert.Panics(t, func() { New(Config{}) })
	assert.Panics(t, func() { New(Config{MaxPlies: 20, MaxWeight: 100000, Workers: 1}) })
}

func TestDefaultConfig(t *testing.T) {
	conf := DefaultConfig()
	assert.True(t, conf.IsValid())
	assert.Equal(t, 20, conf.MaxPlies)
	assert.Equal(t, int64(book.MaxWeight), conf.MaxWeight)
}
