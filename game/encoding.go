package game

import (
	"github.com/pkg/errors"
)

var pieceFromLetter = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
	'P': Pawn, 'N': Knight, 'B': Bishop, 'R': Rook, 'Q': Queen, 'K': King,
}

// UCI renders the move in coordinate notation: "e2e4", "e7e8q" for a
// promotion, "N@f3" for a drop.
func (m Move) UCI() string {
	if m.IsDrop() {
		letter := byte("PNBRQK"[m.Drop-1])
		return string(letter) + "@" + m.To.String()
	}
	s := m.From.String() + m.To.String()
	if m.Promo != NoPieceType {
		s += m.Promo.String()
	}
	return s
}

func (m Move) String() string { return m.UCI() }

// ParseMove reads coordinate notation back into a structured move. Drops
// parse as From == To so the round trip through the book encoding holds.
func ParseMove(s string) (Move, error) {
	if len(s) >= 4 && s[1] == '@' {
		piece, ok := pieceFromLetter[s[0]]
		if !ok {
			return Move{}, errors.Errorf("invalid drop piece in %q", s)
		}
		to, err := ParseSquare(s[2:4])
		if err != nil {
			return Move{}, errors.Wrapf(err, "invalid drop move %q", s)
		}
		return Move{From: to, To: to, Drop: piece}, nil
	}
	if len(s) < 4 || len(s) > 5 {
		return Move{}, errors.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, errors.Wrapf(err, "invalid move %q", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, errors.Wrapf(err, "invalid move %q", s)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		promo, ok := pieceFromLetter[s[4]]
		if !ok || promo == Pawn || promo == King {
			return Move{}, errors.Errorf("invalid promotion in %q", s)
		}
		m.Promo = promo
	}
	return m, nil
}
