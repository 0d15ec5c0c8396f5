package book

import (
	"bytes"
	"encoding/binary"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Counts reports what a write produced.
type Counts struct {
	Positions int
	Moves     int
}

// byBookOrder sorts encoded records the way probing expects: key ascending,
// then weight descending, then move field ascending. The move tiebreak keeps
// output byte-identical across runs despite map iteration order.
type byBookOrder [][EntrySize]byte

func (r byBookOrder) Len() int      { return len(r) }
func (r byBookOrder) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r byBookOrder) Less(i, j int) bool {
	if c := bytes.Compare(r[i][:8], r[j][:8]); c != 0 {
		return c < 0
	}
	wi := binary.BigEndian.Uint16(r[i][10:12])
	wj := binary.BigEndian.Uint16(r[j][10:12])
	if wi != wj {
		return wi > wj
	}
	return binary.BigEndian.Uint16(r[i][8:10]) < binary.BigEndian.Uint16(r[j][8:10])
}

// Write dumps the book to path as sorted fixed-width records, dropping moves
// whose weight rounded down to zero. The file lands via a temp-and-rename so
// readers never see a half-written book.
func (b *Book) Write(path string) (Counts, error) {
	var counts Counts
	recs := make(byBookOrder, 0, len(b.Positions))
	for key, p := range b.Positions {
		kept := false
		for _, c := range p.Moves {
			if c.Weight <= 0 {
				continue
			}
			rec, err := EncodeEntry(key, EncodeMove(c.Move), c.Weight)
			if err != nil {
				return Counts{}, errors.Wrapf(err, "position %s move %v", KeyString(key), c.Move)
			}
			recs = append(recs, rec)
			kept = true
		}
		if kept {
			counts.Positions++
		}
	}
	counts.Moves = len(recs)
	sort.Sort(recs)

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return Counts{}, errors.Wrapf(err, "creating %s", tmp)
	}
	for _, rec := range recs {
		if _, err := f.Write(rec[:]); err != nil {
			f.Close()
			os.Remove(tmp)
			return Counts{}, errors.Wrapf(err, "writing %s", tmp)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return Counts{}, errors.Wrapf(err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Counts{}, errors.Wrapf(err, "renaming %s", tmp)
	}

	log.Info().Str("book", path).Int("positions", counts.Positions).
		Int("moves", counts.Moves).Msg("wrote book")
	return counts, nil
}
