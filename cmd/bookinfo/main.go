package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bookforge/book"
)

var (
	bins      = flag.Int("bins", 15, "weight histogram bins")
	treeDepth = flag.Int("tree_depth", 0, "emit a Graphviz opening tree this many plies deep instead of stats")
	startFEN  = flag.String("fen", "", "root position for the opening tree, empty for the standard start")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	path := flag.Arg(0)
	if path == "" {
		log.Fatal().Msg("usage: bookinfo [flags] book.bin")
	}
	t, err := book.LoadTable(path)
	if err != nil {
		log.Fatal().Err(err).Msg("loading book")
	}

	if *treeDepth > 0 {
		dot, err := t.OpeningTreeDOT(*startFEN, *treeDepth)
		if err != nil {
			log.Fatal().Err(err).Msg("rendering opening tree")
		}
		fmt.Println(dot)
		return
	}

	s := t.Stats()
	fmt.Printf("book:       %s\n", path)
	fmt.Printf("positions:  %d\n", s.Positions)
	fmt.Printf("entries:    %d\n", s.Entries)
	fmt.Printf("weight min: %d  max: %d\n", s.MinWeight, s.MaxWeight)
	fmt.Printf("weight mean: %.1f  stddev: %.1f  median: %.1f\n", s.Mean, s.StdDev, s.Median)
	if s.Entries > 0 {
		fmt.Println()
		if err := t.WeightHistogram(os.Stdout, *bins); err != nil {
			log.Fatal().Err(err).Msg("printing histogram")
		}
	}
}
