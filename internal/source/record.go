package source

import (
	"errors"
	"fmt"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

// Record is one decoded source record before validation. A nil field was
// absent from the source.
type Record struct {
	ID         *int    `json:"id"`
	Name       *string `json:"name"`
	Period     *int    `json:"period"`
	PeriodName *string `json:"period-name"`
	Medium     *string `json:"medium"`
	Category4  *string `json:"4cht"`
	Difficulty *string `json:"difficulty"`
}

var errMissing = fmt.Errorf("%w: missing", catalog.ErrInvalidEntry)

// Entry converts r into an entry. Every absent field is reported.
func (r Record) Entry(index int) (catalog.Entry, error) {
	var errs []error
	id := 0
	if r.ID != nil {
		id = *r.ID
	}
	missing := func(field string) {
		errs = append(errs, &catalog.EntryError{Index: index, ID: id, Field: field, Err: errMissing})
	}
	str := func(field string, p *string) string {
		if p == nil {
			missing(field)
			return ""
		}
		return *p
	}

	if r.ID == nil {
		missing("id")
	}
	e := catalog.Entry{
		ID:         id,
		Name:       str("name", r.Name),
		PeriodName: str("period-name", r.PeriodName),
		Medium:     str("medium", r.Medium),
		Category4:  str("4cht", r.Category4),
		Difficulty: str("difficulty", r.Difficulty),
	}
	if r.Period == nil {
		missing("period")
	} else {
		e.Period = *r.Period
	}
	if len(errs) > 0 {
		return catalog.Entry{}, errors.Join(errs...)
	}
	return e, nil
}

func ptr[T any](v T) *T { return &v }
