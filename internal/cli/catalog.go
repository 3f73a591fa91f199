package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/config"
	"github.com/keilerkonzept/catalog-browser/internal/source"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return usageError(fmt.Errorf("invalid output format %q: must be one of text, json, yaml", format))
	}
}

func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	return source.Open(ctx, cfg.Data, source.Options{
		SkipInvalid: cfg.SkipInvalid,
		Logger:      logger,
	})
}

func newDeriver(cfg *config.Config, c *catalog.Catalog, opts ...catalog.DeriverOption) (*catalog.Deriver, error) {
	all := []catalog.DeriverOption{
		catalog.WithCacheSize(cfg.CacheSize),
		catalog.WithSorter(catalog.NewSorter(cfg.LanguageTag())),
	}
	d, err := catalog.NewDeriver(c, append(all, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating deriver: %w", err)
	}
	return d, nil
}

// sortKey is the configured initial sort key. Config validation already
// rejected unknown keys.
func sortKey(cfg *config.Config) catalog.SortKey {
	key, err := catalog.ParseSortKey(cfg.Sort)
	if err != nil {
		return catalog.SortName
	}
	return key
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
