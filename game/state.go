package game

import (
	"strings"

	"github.com/pkg/errors"
)

// Square indexes a board square, a1 = 0 through h8 = 63, file before rank.
type Square uint8

// Squares the castling and bookkeeping code refers to by name.
const (
	A1 Square = 0
	C1 Square = 2
	D1 Square = 3
	E1 Square = 4
	F1 Square = 5
	G1 Square = 6
	H1 Square = 7
	A8 Square = 56
	C8 Square = 58
	D8 Square = 59
	E8 Square = 60
	F8 Square = 61
	G8 Square = 62
	H8 Square = 63
)

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare reads algebraic square notation ("e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, errors.Errorf("invalid square %q", s)
	}
	return Square((s[1]-'1')<<3 | (s[0] - 'a')), nil
}

// PieceType numbering lines up with the book move encoding: the 12-bit
// promotion/drop field of a record stores PieceType-1.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) String() string {
	if p < Pawn || p > King {
		return "?"
	}
	return string("pnbrqk"[p-1])
}

// Game results as they appear in corpus metadata.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultUnknown   = "*"
)

// Variant tags the rule set a game was recorded under. Only the listed
// variants are ingested; anything else skips the whole game.
type Variant int

const (
	VariantStandard Variant = iota
	VariantCrazyhouse
	VariantHorde
	VariantUnsupported
)

func (v Variant) String() string {
	switch v {
	case VariantStandard:
		return "standard"
	case VariantCrazyhouse:
		return "crazyhouse"
	case VariantHorde:
		return "horde"
	}
	return "unsupported"
}

// VariantFromTag maps a PGN Variant header onto the closed set above. The
// empty tag and "From Position" games are standard chess.
func VariantFromTag(tag string) Variant {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "standard", "chess", "from position":
		return VariantStandard
	case "crazyhouse":
		return VariantCrazyhouse
	case "horde":
		return VariantHorde
	}
	return VariantUnsupported
}

// Move is a structured move: two squares plus an optional promotion piece or
// drop piece. Promotion and drop are mutually exclusive, and a drop keeps
// From == To the way the book encoding expects.
type Move struct {
	From  Square
	To    Square
	Promo PieceType
	Drop  PieceType
}

func (m Move) IsDrop() bool { return m.Drop != NoPieceType }

// Game is one parsed game record from a corpus.
type Game struct {
	Variant  Variant
	SetupFEN string // starting position override, empty for the variant default
	Result   string // "1-0", "0-1", "1/2-1/2" or "*"
	Moves    []Move
	Tags     map[string]string
}

// Tracker follows board state through one game so the ingestion loop can ask
// for position keys and the moving piece. Implementations only do move
// bookkeeping; moves are trusted to be legal.
type Tracker interface {
	Key() uint64
	PieceAt(sq Square) PieceType
	WhiteToMove() bool
	FEN() string
	Apply(m Move) error
}

// NewTracker builds the tracker for the game's variant, starting from its
// setup position when one is recorded.
func NewTracker(g *Game) (Tracker, error) {
	switch g.Variant {
	case VariantStandard:
		return newStandardTracker(g.SetupFEN)
	case VariantCrazyhouse, VariantHorde:
		return newVariantTracker(g.Variant, g.SetupFEN)
	}
	return nil, errors.Errorf("unsupported variant %q", g.Tags["Variant"])
}
