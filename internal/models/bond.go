// Package models defines data structures shared by the fetchers, the
// normalizer and the digest builder.
package models

// Placeholder values used when the provider omits a field.
const (
	UnknownName = "未知"
	NoRating    = "无评级"
)

// Date field keys the bond provider is known to expose. Which one drives
// the today-filter is configuration; maturity_dt is accepted only for
// compatibility with a legacy deployment that selected on it.
const (
	DateFieldApply    = "apply_date"
	DateFieldMaturity = "maturity_dt"
)

// BondRecord is one raw entry from the bond provider's listing endpoint.
// Everything interesting lives in the nested cell object.
type BondRecord struct {
	Cell BondCell `json:"cell"`
}

// BondCell carries the provider's per-bond fields. Fields not listed here
// are ignored on decode.
type BondCell struct {
	BondName     string `json:"bond_nm"`
	BondID       string `json:"bond_id"`
	StockName    string `json:"stock_nm"`
	StockID      string `json:"stock_id"`
	Rating       string `json:"rating_cd"`
	ApplyCode    string `json:"apply_cd"`
	ApplyDate    string `json:"apply_date"`
	MaturityDate string `json:"maturity_dt"`
}

// DateField returns the value of the named date field, or an empty string
// for an unknown field name. An empty value never matches a calendar date.
func (c BondCell) DateField(name string) string {
	switch name {
	case DateFieldApply:
		return c.ApplyDate
	case DateFieldMaturity:
		return c.MaturityDate
	}

	return ""
}

// ActionableBond is the normalized projection of a record whose date field
// matched today. Immutable, scoped to one run.
type ActionableBond struct {
	Name      string
	Code      string
	StockName string
	StockCode string
	Rating    string
	ApplyCode string
}
