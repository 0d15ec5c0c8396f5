// Generates a PGN corpus of random standard-chess games. The output is only
// meant to exercise buildbook end to end; random play makes a terrible book.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	numGames = flag.Int("num_games", 100, "number of games to generate")
	maxPlies = flag.Int("max_plies", 60, "cut unfinished games off after this many plies")
	outPath  = flag.String("path", "corpus.pgn", "corpus file to write")
	seed     = flag.Int64("seed", 1, "random seed, fixed so corpora are reproducible")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("creating corpus file")
	}
	defer f.Close()

	r := rand.New(rand.NewSource(*seed))
	for i := 0; i < *numGames; i++ {
		g := chess.NewGame()
		g.AddTagPair("Event", "random playout")
		g.AddTagPair("Round", fmt.Sprintf("%d", i+1))

		// Pick uniformly among the legal moves until the game ends on its
		// own or hits the ply cap; capped games keep the "*" result.
		for ply := 0; ply < *maxPlies && g.Outcome() == chess.NoOutcome; ply++ {
			moves := g.ValidMoves()
			if len(moves) == 0 {
				break
			}
			if err := g.Move(moves[r.Intn(len(moves))]); err != nil {
				log.Fatal().Err(err).Msg("applying move")
			}
		}

		if _, err := fmt.Fprintf(f, "%s\n\n", g.String()); err != nil {
			log.Fatal().Err(err).Msg("writing corpus file")
		}
	}
	log.Info().Str("corpus", *outPath).Int("games", *numGames).Msg("done")
}
