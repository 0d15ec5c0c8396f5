package book

import (
	"io"
	"sort"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/aybabtme/uniplot/histogram"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/bookforge/game"
)

// Stats summarizes the weight distribution of a loaded book.
type Stats struct {
	Positions int
	Entries   int
	MinWeight uint16
	MaxWeight uint16
	Mean      float64
	StdDev    float64
	Median    float64
}

func (t *Table) weights() []float64 {
	ws := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		ws[i] = float64(e.Weight)
	}
	return ws
}

// Stats computes weight statistics across all entries.
func (t *Table) Stats() Stats {
	s := Stats{Entries: len(t.Entries)}
	if len(t.Entries) == 0 {
		return s
	}
	ws := t.weights()
	sort.Float64s(ws)
	s.MinWeight = uint16(ws[0])
	s.MaxWeight = uint16(ws[len(ws)-1])
	s.Mean = stat.Mean(ws, nil)
	s.StdDev = stat.StdDev(ws, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, ws, nil)

	var prev uint64
	for i, e := range t.Entries {
		if i == 0 || e.Key != prev {
			s.Positions++
			prev = e.Key
		}
	}
	return s
}

// WeightHistogram prints an ASCII histogram of entry weights.
func (t *Table) WeightHistogram(w io.Writer, bins int) error {
	if len(t.Entries) == 0 {
		return errors.New("book is empty")
	}
	hist := histogram.Hist(bins, t.weights())
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

func nodeName(key uint64) string {
	return "k" + strconv.FormatUint(key, 16)
}

// OpeningTreeDOT renders the book reachable from startFEN as a Graphviz
// digraph. Moves replay under standard rules, so entries a standard game
// cannot reach (drops, variant positions) simply do not get edges.
func (t *Table) OpeningTreeDOT(startFEN string, maxDepth int) (string, error) {
	fen, err := game.NormalizeFEN(startFEN)
	if err != nil {
		return "", errors.Wrap(err, "start position")
	}

	g := gographviz.NewGraph()
	if err := g.SetName("book"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	type item struct {
		fen   string
		depth int
	}
	rootKey := game.StandardKey(fen)
	if err := g.AddNode("book", nodeName(rootKey), map[string]string{"label": `"start"`}); err != nil {
		return "", err
	}
	seen := map[uint64]bool{rootKey: true}
	queue := []item{{fen: fen}}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if it.depth >= maxDepth {
			continue
		}
		key := game.StandardKey(it.fen)
		for _, e := range t.Find(key) {
			mv := DecodeMove(e.Move)
			if mv.IsDrop() {
				continue
			}
			next, err := game.NextFEN(it.fen, mv.UCI())
			if err != nil {
				continue
			}
			nextKey := game.StandardKey(next)
			if !seen[nextKey] {
				seen[nextKey] = true
				if err := g.AddNode("book", nodeName(nextKey), nil); err != nil {
					return "", err
				}
				queue = append(queue, item{fen: next, depth: it.depth + 1})
			}
			label := strconv.Quote(mv.UCI() + " " + strconv.Itoa(int(e.Weight)))
			if err := g.AddEdge(nodeName(key), nodeName(nextKey), true, map[string]string{"label": label}); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}
