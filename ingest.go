package bookforge

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bookforge/book"
	"github.com/bookforge/game"
)

// corpusResult is one worker's partial book plus its counters.
type corpusResult struct {
	book        *book.Book
	games       int
	skipped     int
	unsupported int
}

// gameScore maps a result onto the two points at stake: 2 for a white win,
// 1 for a draw, 0 for anything else including unfinished games.
func gameScore(result string) int64 {
	switch result {
	case game.ResultWhiteWins:
		return 2
	case game.ResultDraw:
		return 1
	}
	return 0
}

// castleRewrites maps the two-file castling notation onto the king-onto-rook
// form book records use. Keyed by king moves only; callers check the mover.
var castleRewrites = map[game.Move]game.Move{
	{From: game.E1, To: game.G1}: {From: game.E1, To: game.H1},
	{From: game.E1, To: game.C1}: {From: game.E1, To: game.A1},
	{From: game.E8, To: game.G8}: {From: game.E8, To: game.H8},
	{From: game.E8, To: game.C8}: {From: game.E8, To: game.A8},
}

// rewriteCastle converts a king's castling move to the stored form. Non-king
// moves must not come here: e1g1 is also a legal king step, which is why the
// mover check lives with the caller who has the board.
func rewriteCastle(m game.Move) game.Move {
	if r, ok := castleRewrites[m]; ok {
		return r
	}
	return m
}

// ingestGame walks one game and accumulates its opening plies into dst. Each
// ply contributes the mover's share of the game's two points: white's score
// when white is to move, the complement when black is. If a move fails to
// apply the rest of the game is abandoned but earlier plies stay counted.
func ingestGame(dst *book.Book, g *game.Game, maxPlies int) error {
	tr, err := game.NewTracker(g)
	if err != nil {
		return err
	}
	score := gameScore(g.Result)

	limit := len(g.Moves)
	if limit > maxPlies {
		limit = maxPlies
	}
	for i := 0; i < limit; i++ {
		m := g.Moves[i]
		contribution := score
		if !tr.WhiteToMove() {
			contribution = 2 - score
		}
		stored := m
		if !m.IsDrop() && tr.PieceAt(m.From) == game.King {
			stored = rewriteCastle(m)
		}
		dst.Accumulate(tr.Key(), tr.FEN(), stored, contribution)
		if err := tr.Apply(m); err != nil {
			return errors.Wrapf(err, "ply %d", i+1)
		}
	}
	return nil
}

// ingestCorpus reads one corpus file into a fresh partial book.
func ingestCorpus(ctx context.Context, path string, conf Config) (*corpusResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "corpus %s", path)
	}
	defer f.Close()

	res := &corpusResult{book: book.New()}
	skipped, err := game.ReadCorpus(f, func(g *game.Game) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if g.Variant == game.VariantUnsupported {
			res.unsupported++
			log.Debug().Str("corpus", path).Str("variant", g.Tags["Variant"]).
				Msg("skipping unsupported variant")
			return nil
		}
		if err := ingestGame(res.book, g, conf.MaxPlies); err != nil {
			res.skipped++
			log.Warn().Err(err).Str("corpus", path).Msg("skipping malformed game")
			return nil
		}
		res.games++
		if res.games%100 == 0 {
			log.Info().Str("corpus", path).Int("games", res.games).Msg("ingesting")
		}
		return nil
	})
	res.skipped += skipped
	if err != nil {
		return nil, err
	}
	return res, nil
}
