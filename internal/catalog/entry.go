// Package catalog holds the catalog data model and the pure derivations the
// browser runs on every input event: facet discovery, sorting, filtering and
// period range management.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// DifficultyLow is the difficulty value selected by the "low difficulty only" flag.
const DifficultyLow = "low"

// Entry is one immutable catalog record.
type Entry struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Period     int    `json:"period" yaml:"period"`
	PeriodName string `json:"period-name" yaml:"period-name"`
	Medium     string `json:"medium" yaml:"medium"`
	Category4  string `json:"4cht" yaml:"4cht"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
}

var (
	// ErrInvalidEntry marks a record that misses or has an unusable field.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrDuplicateID marks a record whose id was already seen.
	ErrDuplicateID = errors.New("duplicate id")
)

// EntryError locates a validation problem in the source data.
type EntryError struct {
	Index int
	ID    int
	Field string
	Err   error
}

func (e *EntryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entry #%d", e.Index)
	if e.ID != 0 {
		fmt.Fprintf(&b, " (id %d)", e.ID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EntryError) Unwrap() error { return e.Err }

// Validate checks the entries that decoded into well-typed values. It reports
// duplicate ids, empty labels and facet values that cannot be selected; every
// problem is returned, joined.
func Validate(entries []Entry) error {
	var errs []error
	seen := make(map[int]int, len(entries))
	for i, e := range entries {
		if first, ok := seen[e.ID]; ok {
			errs = append(errs, &EntryError{
				Index: i,
				ID:    e.ID,
				Field: "id",
				Err:   fmt.Errorf("%w: first used by entry #%d", ErrDuplicateID, first),
			})
			continue
		}
		seen[e.ID] = i
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, &EntryError{Index: i, ID: e.ID, Field: "name", Err: fmt.Errorf("%w: empty", ErrInvalidEntry)})
		}
		if e.Difficulty == "" {
			errs = append(errs, &EntryError{Index: i, ID: e.ID, Field: "difficulty", Err: fmt.Errorf("%w: empty", ErrInvalidEntry)})
		}
		for _, f := range AllFacets {
			if err := facetValueError(f.Value(e)); err != nil {
				errs = append(errs, &EntryError{Index: i, ID: e.ID, Field: f.Field(), Err: err})
			}
		}
	}
	return errors.Join(errs...)
}

// facetValueError rejects the values a filter selection cannot hold.
func facetValueError(v string) error {
	switch v {
	case "":
		return fmt.Errorf("%w: empty", ErrInvalidEntry)
	case All:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidEntry, All)
	}
	return nil
}
