package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	bookforge "github.com/bookforge"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

var (
	outPath    = flag.String("out", "book.bin", "book file to write")
	maxPlies   = flag.Int("max_plies", 20, "opening plies taken from each game")
	maxWeight  = flag.Int64("max_weight", 10000, "normalization ceiling for each position's weights")
	workers    = flag.Int("workers", 0, "concurrent corpus readers, 0 means one per CPU")
	debug      = flag.Bool("debug", false, "enable debug logging")
	mergeBooks stringList
)

func init() {
	flag.Var(&mergeBooks, "merge", "existing book file to fold in (repeatable)")
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	corpora := flag.Args()
	if len(corpora) == 0 {
		log.Fatal().Msg("usage: buildbook [flags] corpus.pgn [corpus.pgn ...]")
	}

	conf := bookforge.DefaultConfig()
	conf.MaxPlies = *maxPlies
	conf.MaxWeight = *maxWeight
	if *workers > 0 {
		conf.Workers = *workers
	}

	b := bookforge.New(conf)
	if len(mergeBooks) > 0 {
		if err := b.SeedFromBooks(mergeBooks); err != nil {
			log.Fatal().Err(err).Msg("merging existing books")
		}
	}
	if err := b.Build(context.Background(), corpora); err != nil {
		log.Fatal().Err(err).Msg("building book")
	}
	counts, err := b.WriteBook(*outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("writing book")
	}
	log.Info().Str("book", *outPath).Int("positions", counts.Positions).
		Int("moves", counts.Moves).Msg("done")
}
