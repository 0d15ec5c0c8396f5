package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bookforge/book"
)

var (
	outPath   = flag.String("out", "merged.bin", "book file to write")
	maxWeight = flag.Int64("max_weight", 0, "renormalize merged weights to this ceiling, 0 keeps raw sums")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	inputs := flag.Args()
	if len(inputs) < 2 {
		log.Fatal().Msg("usage: mergebooks -out merged.bin book.bin book.bin [...]")
	}

	b := book.New()
	for _, path := range inputs {
		n, err := b.MergeFile(path)
		if err != nil {
			log.Fatal().Err(err).Msg("reading book")
		}
		log.Info().Str("book", path).Int("entries", n).Msg("merged")
	}
	if *maxWeight > 0 {
		b.Normalize(*maxWeight)
	}
	counts, err := b.Write(*outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("writing book")
	}
	log.Info().Str("book", *outPath).Int("positions", counts.Positions).
		Int("moves", counts.Moves).Msg("done")
}
