package game

import (
	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// standardTracker rides on notnil/chess for standard games. Moves go through
// the game object so they are validated against the legal move list and land
// with their castling and en passant effects intact; illegal input errors
// instead of corrupting the board.
type standardTracker struct {
	game *chess.Game
}

func newStandardTracker(setup string) (*standardTracker, error) {
	if setup == "" {
		return &standardTracker{game: chess.NewGame()}, nil
	}
	fenOpt, err := chess.FEN(setup)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid fen %q", setup)
	}
	return &standardTracker{game: chess.NewGame(fenOpt)}, nil
}

// StandardKey hashes a standard-chess FEN to its book position key.
func StandardKey(fen string) uint64 {
	b := dragontoothmg.ParseFen(fen)
	return b.Hash()
}

func (t *standardTracker) Key() uint64 { return StandardKey(t.FEN()) }

func (t *standardTracker) PieceAt(sq Square) PieceType {
	return fromChessPiece(t.game.Position().Board().Piece(chess.Square(sq)).Type())
}

func (t *standardTracker) WhiteToMove() bool { return t.game.Position().Turn() == chess.White }

func (t *standardTracker) FEN() string { return t.game.Position().String() }

func (t *standardTracker) Apply(m Move) error {
	mv, err := chess.UCINotation{}.Decode(t.game.Position(), m.UCI())
	if err != nil {
		return errors.Wrapf(err, "move %v", m)
	}
	if err := t.game.Move(mv); err != nil {
		return errors.Wrapf(err, "move %v", m)
	}
	return nil
}

// Book records store castling king-onto-rook (e1h1), which standard move
// application rejects; these are the two-file equivalents to retry with.
var bookCastle = map[Move]Move{
	{From: E1, To: H1}: {From: E1, To: G1},
	{From: E1, To: A1}: {From: E1, To: C1},
	{From: E8, To: H8}: {From: E8, To: G8},
	{From: E8, To: A8}: {From: E8, To: C8},
}

// NextFEN plays one move on a standard position and returns the new FEN.
// Moves in the book's castling form are retried as ordinary castling, so
// stored records replay cleanly.
func NextFEN(fen, move string) (string, error) {
	t, err := newStandardTracker(fen)
	if err != nil {
		return "", err
	}
	m, err := ParseMove(move)
	if err != nil {
		return "", err
	}
	if err := t.Apply(m); err != nil {
		alt, ok := bookCastle[m]
		if !ok {
			return "", err
		}
		if err := t.Apply(alt); err != nil {
			return "", err
		}
	}
	return t.FEN(), nil
}

// NormalizeFEN validates a standard FEN and returns the library's canonical
// rendering of it. The empty string means the standard starting position.
func NormalizeFEN(fen string) (string, error) {
	t, err := newStandardTracker(fen)
	if err != nil {
		return "", err
	}
	return t.FEN(), nil
}

// fromChessPiece converts notnil/chess piece types, which count downward
// from King, onto the book numbering that counts up from Pawn.
func fromChessPiece(t chess.PieceType) PieceType {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoPieceType
}

func fromChessMove(m *chess.Move) Move {
	return Move{
		From:  Square(m.S1()),
		To:    Square(m.S2()),
		Promo: fromChessPiece(m.Promo()),
	}
}
