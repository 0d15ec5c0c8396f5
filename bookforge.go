package bookforge

import (
	"context"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bookforge/book"
)

// Builder is the top level structure and the entry point of the API. It
// turns game corpora into one opening book: ingest corpora, optionally merge
// existing book files, normalize, write.
type Builder struct {
	conf Config
	book *book.Book

	// counters from the last Build call
	Games       int
	Skipped     int
	Unsupported int
	// entries folded in from existing books
	Merged int
}

// New Builder from a configuration.
func New(conf Config) *Builder {
	if !conf.IsValid() {
		panic("config is not valid. Unable to proceed")
	}
	return &Builder{
		conf: conf,
		book: book.New(),
	}
}

// Book exposes the accumulated in-memory book.
func (b *Builder) Book() *book.Book { return b.book }

// SeedFromBooks folds existing book files into the build, so a new corpus
// can extend a previously written book. Every path is attempted; all
// failures are reported together.
func (b *Builder) SeedFromBooks(paths []string) error {
	var errs error
	for _, path := range paths {
		n, err := b.book.MergeFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		b.Merged += n
		log.Info().Str("book", path).Int("entries", n).Msg("merged existing book")
	}
	return errs
}

// Build ingests every corpus file into the book. Files are read
// concurrently, each into its own partial book, and folded together in input
// order once all workers finish. Any unreadable corpus fails the whole build
// before ingestion starts.
func (b *Builder) Build(ctx context.Context, corpora []string) error {
	if len(corpora) == 0 {
		return errors.New("no corpus files given")
	}
	for _, path := range corpora {
		if _, err := os.Stat(path); err != nil {
			return errors.Wrapf(err, "corpus %s", path)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.conf.Workers)
	partials := make([]*corpusResult, len(corpora))
	for i, path := range corpora {
		i, path := i, path
		g.Go(func() error {
			res, err := ingestCorpus(ctx, path, b.conf)
			if err != nil {
				return err
			}
			partials[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range partials {
		b.book.Merge(res.book)
		b.Games += res.games
		b.Skipped += res.skipped
		b.Unsupported += res.unsupported
	}
	log.Info().Int("games", b.Games).Int("skipped", b.Skipped).
		Int("unsupported", b.Unsupported).Int("positions", b.book.Len()).
		Msg("ingest complete")
	return nil
}

// WriteBook normalizes the accumulated weights and writes the book to path.
func (b *Builder) WriteBook(path string) (book.Counts, error) {
	b.book.Normalize(b.conf.MaxWeight)
	return b.book.Write(path)
}
