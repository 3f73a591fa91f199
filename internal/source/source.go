// Package source reads catalog entries from data files and turns them into
// validated catalog snapshots.
package source

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/logging"
)

// ErrUnsupportedFormat is returned for data files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported data format")

//go:embed data/catalog.json
var bundled []byte

// BundledName is reported in place of a path for the embedded dataset.
const BundledName = "(bundled)"

// Bundled returns the records of the embedded dataset.
func Bundled() ([]Record, error) {
	return Decode(bundled)
}

// Read decodes the records of the file at path, choosing the decoder by
// extension. An empty path reads the embedded dataset.
func Read(ctx context.Context, path string) ([]Record, error) {
	if path == "" {
		return Bundled()
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return Decode(data)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return DecodeCSV(f)
	case ".db", ".sqlite", ".sqlite3":
		return ReadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Options controls how invalid records are handled.
type Options struct {
	// SkipInvalid drops invalid records with a warning instead of failing.
	SkipInvalid bool
	// Logger defaults to the logger carried by the context.
	Logger *slog.Logger
}

// Entries converts and validates records. Without SkipInvalid every problem
// is returned, joined; with it the offending records are dropped.
func Entries(records []Record, opts Options) ([]catalog.Entry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error
	entries := make([]catalog.Entry, 0, len(records))
	for i, r := range records {
		e, err := r.Entry(i)
		if err != nil {
			if !opts.SkipInvalid {
				errs = append(errs, err)
				continue
			}
			logger.Warn("skipping invalid entry", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	err := catalog.Validate(entries)
	if err == nil {
		return entries, nil
	}
	if !opts.SkipInvalid {
		return nil, err
	}
	drop := map[int]bool{}
	for _, ee := range entryErrors(err) {
		drop[ee.Index] = true
		logger.Warn("skipping invalid entry", slog.Int("id", ee.ID), slog.String("error", ee.Error()))
	}
	kept := entries[:0]
	for i, e := range entries {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// Open reads, validates and snapshots the data file at path.
func Open(ctx context.Context, path string, opts Options) (*catalog.Catalog, error) {
	if opts.Logger == nil {
		opts.Logger = logging.FromContext(ctx)
	}
	name := path
	if name == "" {
		name = BundledName
	}

	records, err := Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	entries, err := Entries(records, opts)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}
	c := catalog.New(entries)
	opts.Logger.Info("catalog loaded",
		slog.String("source", name),
		slog.Int("entries", c.Len()),
		slog.Int("skipped", len(records)-c.Len()),
		slog.String("version", c.Version),
	)
	return c, nil
}

func entryErrors(err error) []*catalog.EntryError {
	var out []*catalog.EntryError
	var ee *catalog.EntryError
	if errors.As(err, &ee) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				out = append(out, entryErrors(e)...)
			}
			return out
		}
		return []*catalog.EntryError{ee}
	}
	return nil
}
