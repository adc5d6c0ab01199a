// Package normalizer selects today-actionable bonds from the raw listing and
// projects them into the normalized shape the digest consumes.
package normalizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

// ErrUnknownDateField is returned for a date field the provider does not
// expose.
var ErrUnknownDateField = errors.New("unknown date field")

// DateLayout is the calendar form both the provider and the local clock are
// compared in.
const DateLayout = "2006-01-02"

// Filter selects records whose configured date field equals a given day.
type Filter struct {
	dateField string
}

// NewFilter creates a filter keyed on the given provider date field.
func NewFilter(dateField string) (*Filter, error) {
	switch dateField {
	case models.DateFieldApply, models.DateFieldMaturity:
		return &Filter{dateField: dateField}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDateField, dateField)
}

// Today formats a clock reading as the local calendar date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// SelectToday returns the normalized projection of every record whose date
// field equals today, preserving input order. Pure: no I/O, no clock reads.
// Records without the date field never match, since an empty string never
// equals a well-formed date.
func (f *Filter) SelectToday(records []models.BondRecord, today string) []models.ActionableBond {
	selected := make([]models.ActionableBond, 0, len(records))

	for _, record := range records {
		if record.Cell.DateField(f.dateField) != today {
			continue
		}

		selected = append(selected, project(record.Cell))
	}

	return selected
}

func project(cell models.BondCell) models.ActionableBond {
	bond := models.ActionableBond{
		Name:      cell.BondName,
		Code:      cell.BondID,
		StockName: cell.StockName,
		StockCode: cell.StockID,
		Rating:    cell.Rating,
		ApplyCode: cell.ApplyCode,
	}

	if bond.Name == "" {
		bond.Name = models.UnknownName
	}

	if bond.Rating == "" {
		bond.Rating = models.NoRating
	}

	return bond
}
