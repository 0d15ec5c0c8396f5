package book

import (
	"bufio"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MergeFile folds an existing book file's records into b, adding their
// weights to whatever is already accumulated. Merged records keep no FEN; a
// book file stores only keys. Note that merging the same file twice doubles
// its weights.
func (b *Book) MergeFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "opening book %s", path)
	}
	defer f.Close()

	rd := bufio.NewReader(f)
	var rec [EntrySize]byte
	n := 0
	for {
		if _, err := io.ReadFull(rd, rec[:]); err != nil {
			if err == io.EOF {
				break
			}
			return n, errors.Wrapf(err, "book %s truncated at record %d", path, n)
		}
		e, err := DecodeEntry(rec[:])
		if err != nil {
			return n, errors.Wrapf(err, "book %s record %d", path, n)
		}
		b.Accumulate(e.Key, "", DecodeMove(e.Move), int64(e.Weight))
		n++
		if n%10000 == 0 {
			log.Debug().Str("book", path).Int("entries", n).Msg("merge progress")
		}
	}
	return n, nil
}

// Table is a book file loaded whole for probing. Files are written sorted by
// key, which is what Find relies on.
type Table struct {
	Entries []Entry
}

// LoadTable reads a book file into memory.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening book %s", path)
	}
	if len(data)%EntrySize != 0 {
		return nil, errors.Errorf("book %s is %d bytes, not a whole number of records", path, len(data))
	}
	t := &Table{Entries: make([]Entry, 0, len(data)/EntrySize)}
	for off := 0; off < len(data); off += EntrySize {
		e, err := DecodeEntry(data[off : off+EntrySize])
		if err != nil {
			return nil, errors.Wrapf(err, "book %s offset %d", path, off)
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}

func (t *Table) Len() int { return len(t.Entries) }

// Find returns the entries for one position key, in file order, so the
// heaviest move comes first.
func (t *Table) Find(key uint64) []Entry {
	i := sort.Search(len(t.Entries), func(i int) bool {
		return t.Entries[i].Key >= key
	})
	j := i
	for j < len(t.Entries) && t.Entries[j].Key == key {
		j++
	}
	return t.Entries[i:j]
}
