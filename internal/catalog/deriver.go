package catalog

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"
)

// Result is the outcome of one derivation.
type Result struct {
	// Entries are the sorted entries that passed the filter.
	Entries []Entry
	// Total is the size of the data source.
	Total int
}

// Observer is told about every derivation.
type Observer func(d time.Duration, cached bool, visible int)

type cacheKey struct {
	version string
	sort    SortKey
	filter  Filter
}

// Deriver runs sort then filter over one catalog snapshot and memoizes the
// results by (snapshot version, sort key, filter).
type Deriver struct {
	catalog  *Catalog
	sorter   *Sorter
	cache    *lru.Cache[cacheKey, Result]
	observer Observer
}

type DeriverOption func(*Deriver) error

// WithCacheSize sets how many results are memoized. Zero disables the cache.
func WithCacheSize(n int) DeriverOption {
	return func(d *Deriver) error {
		if n <= 0 {
			d.cache = nil
			return nil
		}
		c, err := lru.New[cacheKey, Result](n)
		if err != nil {
			return err
		}
		d.cache = c
		return nil
	}
}

func WithSorter(s *Sorter) DeriverOption {
	return func(d *Deriver) error {
		d.sorter = s
		return nil
	}
}

func WithObserver(o Observer) DeriverOption {
	return func(d *Deriver) error {
		d.observer = o
		return nil
	}
}

const defaultCacheSize = 64

func NewDeriver(c *Catalog, opts ...DeriverOption) (*Deriver, error) {
	d := &Deriver{catalog: c}
	all := append([]DeriverOption{WithCacheSize(defaultCacheSize)}, opts...)
	for _, opt := range all {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.sorter == nil {
		d.sorter = NewSorter(language.English)
	}
	return d, nil
}

func (d *Deriver) Catalog() *Catalog { return d.catalog }

// Swap replaces the snapshot. Cached results of the old snapshot are dropped.
func (d *Deriver) Swap(c *Catalog) {
	d.catalog = c
	if d.cache != nil {
		d.cache.Purge()
	}
}

// Derive returns the entries visible under s. The returned slice is shared
// with the cache and must not be modified.
func (d *Deriver) Derive(s State) Result {
	start := time.Now()
	key := cacheKey{version: d.catalog.Version, sort: s.Sort, filter: s.Filter}
	if d.cache != nil {
		if r, ok := d.cache.Get(key); ok {
			d.observe(start, true, len(r.Entries))
			return r
		}
	}
	sorted := d.sorter.Sort(d.catalog.entries, s.Sort)
	r := Result{
		Entries: Apply(sorted, s.Filter),
		Total:   len(d.catalog.entries),
	}
	if d.cache != nil {
		d.cache.Add(key, r)
	}
	d.observe(start, false, len(r.Entries))
	return r
}

func (d *Deriver) observe(start time.Time, cached bool, visible int) {
	if d.observer != nil {
		d.observer(time.Since(start), cached, visible)
	}
}
