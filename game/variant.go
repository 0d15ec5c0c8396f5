package game

import (
	"strings"

	"github.com/pkg/errors"
)

// Default starting positions for the variants tracked here. Crazyhouse
// carries an empty pocket; Horde stacks 36 white pawns against a full black
// army.
const (
	crazyhouseStartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	hordeStartFEN      = "rnbqkbnr/pppppppp/8/1PP2PP1/PPPPPPPP/PPPPPPPP/PPPPPPPP/PPPPPPPP w kq - 0 1"
)

type castleRight uint8

const (
	castleWhiteKing castleRight = 1 << iota
	castleWhiteQueen
	castleBlackKing
	castleBlackQueen
)

var castleLetters = []struct {
	letter byte
	right  castleRight
}{
	{'K', castleWhiteKing},
	{'Q', castleWhiteQueen},
	{'k', castleBlackKing},
	{'q', castleBlackQueen},
}

type coloredPiece struct {
	t     PieceType
	white bool
}

// variantTracker does move bookkeeping without move generation, which keeps
// Crazyhouse and Horde on one code path: drops place a piece, castling
// relocates king and rook, everything else slides a piece between squares.
// Moves are trusted to be legal for the variant.
type variantTracker struct {
	board       [64]coloredPiece
	whiteToMove bool
	rights      castleRight
	ep          int // en passant target square, -1 when none
}

func newVariantTracker(v Variant, setup string) (*variantTracker, error) {
	if setup == "" {
		switch v {
		case VariantCrazyhouse:
			setup = crazyhouseStartFEN
		case VariantHorde:
			setup = hordeStartFEN
		default:
			return nil, errors.Errorf("no default position for variant %v", v)
		}
	}
	t := &variantTracker{}
	if err := t.loadFEN(setup); err != nil {
		return nil, err
	}
	return t, nil
}

// loadFEN reads the first four FEN fields. Crazyhouse pockets ("[Qq]") and
// promoted-piece markers ("~") are dropped: neither affects position keys.
func (t *variantTracker) loadFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return errors.Errorf("invalid fen %q", fen)
	}
	boardField := fields[0]
	if i := strings.IndexByte(boardField, '['); i >= 0 {
		boardField = boardField[:i]
	}
	boardField = strings.ReplaceAll(boardField, "~", "")

	ranks := strings.Split(boardField, "/")
	if len(ranks) != 8 {
		return errors.Errorf("invalid board in fen %q", fen)
	}
	for r, rank := range ranks {
		file := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := pieceFromLetter[c]
			if !ok || file > 7 {
				return errors.Errorf("invalid board in fen %q", fen)
			}
			sq := Square((7-r)<<3 | file)
			t.board[sq] = coloredPiece{t: p, white: c >= 'A' && c <= 'Z'}
			file++
		}
		if file != 8 {
			return errors.Errorf("invalid board in fen %q", fen)
		}
	}

	switch fields[1] {
	case "w":
		t.whiteToMove = true
	case "b":
		t.whiteToMove = false
	default:
		return errors.Errorf("invalid side to move in fen %q", fen)
	}

	t.rights = 0
	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			matched := false
			for _, cl := range castleLetters {
				if fields[2][i] == cl.letter {
					t.rights |= cl.right
					matched = true
					break
				}
			}
			if !matched {
				return errors.Errorf("invalid castling rights in fen %q", fen)
			}
		}
	}

	t.ep = -1
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return errors.Wrapf(err, "invalid en passant square in fen %q", fen)
		}
		t.ep = int(sq)
	}
	return nil
}

func (t *variantTracker) PieceAt(sq Square) PieceType { return t.board[sq].t }
func (t *variantTracker) WhiteToMove() bool           { return t.whiteToMove }

// rightsLostAt maps a square to the castling rights that die once a move
// touches it, either by moving the piece away or by capturing onto it.
func rightsLostAt(sq Square) castleRight {
	switch sq {
	case E1:
		return castleWhiteKing | castleWhiteQueen
	case H1:
		return castleWhiteKing
	case A1:
		return castleWhiteQueen
	case E8:
		return castleBlackKing | castleBlackQueen
	case H8:
		return castleBlackKing
	case A8:
		return castleBlackQueen
	}
	return 0
}

func (t *variantTracker) Apply(m Move) error {
	if m.IsDrop() {
		if t.board[m.To].t != NoPieceType {
			return errors.Errorf("drop %v onto occupied square", m)
		}
		t.board[m.To] = coloredPiece{t: m.Drop, white: t.whiteToMove}
		t.ep = -1
		t.whiteToMove = !t.whiteToMove
		return nil
	}

	mover := t.board[m.From]
	if mover.t == NoPieceType {
		return errors.Errorf("move %v from empty square", m)
	}

	// Castling arrives either as a two-file king move or as king-takes-own-
	// rook; both collapse onto the same relocation.
	if mover.t == King {
		target := t.board[m.To]
		ontoOwnRook := target.t == Rook && target.white == mover.white
		twoFiles := m.From.File()-m.To.File() > 1 || m.To.File()-m.From.File() > 1
		if ontoOwnRook || twoFiles {
			base := Square(0)
			lost := castleRight(castleWhiteKing | castleWhiteQueen)
			if !mover.white {
				base = A8
				lost = castleBlackKing | castleBlackQueen
			}
			rookFrom := base // queenside rook on the a-file
			kingTo, rookTo := base+2, base+3
			if m.To.File() > m.From.File() {
				rookFrom = base + 7
				kingTo, rookTo = base+6, base+5
			}
			rook := t.board[rookFrom]
			t.board[m.From] = coloredPiece{}
			t.board[rookFrom] = coloredPiece{}
			t.board[kingTo] = mover
			t.board[rookTo] = rook
			t.rights &^= lost
			t.ep = -1
			t.whiteToMove = !t.whiteToMove
			return nil
		}
	}

	if mover.t == Pawn && int(m.To) == t.ep && t.board[m.To].t == NoPieceType {
		captured := int(m.To) - 8
		if !mover.white {
			captured = int(m.To) + 8
		}
		t.board[captured] = coloredPiece{}
	}

	t.board[m.From] = coloredPiece{}
	placed := mover
	if m.Promo != NoPieceType {
		placed.t = m.Promo
	}
	t.board[m.To] = placed

	t.rights &^= rightsLostAt(m.From) | rightsLostAt(m.To)

	t.ep = -1
	if mover.t == Pawn {
		if d := int(m.To) - int(m.From); d == 16 || d == -16 {
			t.ep = (int(m.From) + int(m.To)) / 2
		}
	}
	t.whiteToMove = !t.whiteToMove
	return nil
}

// capturableEPFile reports the en passant file to hash, or -1. The file only
// enters the key when a side-to-move pawn actually stands next to the pushed
// pawn, matching the book hashing convention.
func (t *variantTracker) capturableEPFile() int {
	if t.ep < 0 {
		return -1
	}
	pushed := t.ep - 8
	if !t.whiteToMove {
		pushed = t.ep + 8
	}
	file := pushed & 7
	for _, adj := range [2]int{pushed - 1, pushed + 1} {
		if adj&7 == file-1 || adj&7 == file+1 {
			p := t.board[adj]
			if p.t == Pawn && p.white == t.whiteToMove {
				return t.ep & 7
			}
		}
	}
	return -1
}

func (t *variantTracker) Key() uint64 {
	var key uint64
	for sq, p := range t.board {
		if p.t != NoPieceType {
			key ^= pieceKey(p.t, p.white, Square(sq))
		}
	}
	for i, cl := range castleLetters {
		if t.rights&cl.right != 0 {
			key ^= zTable[zCastleBase+i]
		}
	}
	if file := t.capturableEPFile(); file >= 0 {
		key ^= zTable[zEnPassantBase+file]
	}
	if t.whiteToMove {
		key ^= zTable[zTurn]
	}
	return key
}

// FEN writes the tracked position back out. Move counters are not tracked,
// so they render as "0 1"; pockets are likewise omitted.
func (t *variantTracker) FEN() string {
	var b strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := t.board[r<<3|f]
			if p.t == NoPieceType {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := p.t.String()[0]
			if p.white {
				letter -= 'a' - 'A'
			}
			b.WriteByte(letter)
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			b.WriteByte('/')
		}
	}

	if t.whiteToMove {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}

	if t.rights == 0 {
		b.WriteByte('-')
	} else {
		for _, cl := range castleLetters {
			if t.rights&cl.right != 0 {
				b.WriteByte(cl.letter)
			}
		}
	}

	if t.ep < 0 {
		b.WriteString(" - ")
	} else {
		b.WriteByte(' ')
		b.WriteString(Square(t.ep).String())
		b.WriteByte(' ')
	}
	b.WriteString("0 1")
	return b.String()
}
