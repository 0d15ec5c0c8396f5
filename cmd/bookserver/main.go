package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bookforge/book"
	"github.com/bookforge/game"
)

var (
	addr     = flag.String("addr", ":8080", "listen address")
	bookPath = flag.String("book", "book.bin", "book file to serve")
)

// LookupArgs names a position either by standard-chess FEN or by a raw hex
// position key. Variant books hash positions their own way, so those probe
// by key.
type LookupArgs struct {
	FEN string `json:"fen"`
	Key string `json:"key"`
}

type BookMove struct {
	Move   string `json:"move"`
	Weight uint16 `json:"weight"`
}

type LookupReply struct {
	Key   string     `json:"key"`
	Moves []BookMove `json:"moves"`
}

func lookup(t *book.Table, args LookupArgs) (LookupReply, error) {
	var key uint64
	switch {
	case args.Key != "":
		k, err := book.ParseKey(args.Key)
		if err != nil {
			return LookupReply{}, err
		}
		key = k
	default:
		fen, err := game.NormalizeFEN(args.FEN)
		if err != nil {
			return LookupReply{}, err
		}
		key = game.StandardKey(fen)
	}

	reply := LookupReply{Key: book.KeyString(key), Moves: []BookMove{}}
	for _, e := range t.Find(key) {
		reply.Moves = append(reply.Moves, BookMove{
			Move:   book.DecodeMove(e.Move).UCI(),
			Weight: e.Weight,
		})
	}
	return reply, nil
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	t, err := book.LoadTable(*bookPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading book")
	}
	log.Info().Str("book", *bookPath).Int("entries", t.Len()).Msg("book loaded")

	r := gin.Default()
	v1 := r.Group("/api/v1")
	{
		v1.POST("/lookup", func(c *gin.Context) {
			var args LookupArgs
			if err := c.BindJSON(&args); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reply, err := lookup(t, args)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, reply)
		})
		v1.GET("/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, t.Stats())
		})
	}

	if err := r.Run(*addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
