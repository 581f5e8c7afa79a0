package profiles

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The API exchanges plain JSON numbers, never quoted decimals.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrNameRequired is returned when a company has no name.
var ErrNameRequired = errors.New("company name is required")

// Company is a company record as exchanged with the API.
//
// Optional fields are pointers so that a null or absent JSON value is kept
// apart from an empty one.
type Company struct {
	ID                 int              `json:"id,omitempty"`
	Name               string           `json:"name"`
	Ticker             *string          `json:"ticker,omitempty"`
	MainBusiness       *string          `json:"main_business,omitempty"`
	EmployeeCount      *int             `json:"employee_count,omitempty"`
	MarketPosition     *string          `json:"market_position,omitempty"`
	Differentiation    *string          `json:"differentiation,omitempty"`
	SupplyChainControl *string          `json:"supply_chain_control,omitempty"`
	IndustryProfile    *IndustryProfile `json:"industry_profile,omitempty"`
}

// IndustryProfile describes the industry context of a Company.
// It is embedded in its company and never addressed on its own.
type IndustryProfile struct {
	ID                 *int                `json:"id,omitempty"`
	IndustryCategory   *string             `json:"industry_category,omitempty"`
	IndustrySize       decimal.NullDecimal `json:"industry_size"`
	ConcentrationLevel *string             `json:"concentration_level,omitempty"`
	IndustryBarrier    *string             `json:"industry_barrier,omitempty"`
	IndustryCAGR5y     decimal.NullDecimal `json:"industry_cagr_5y"`
	MajorCompetitors   *string             `json:"major_competitors,omitempty"`
	IndustryTrend      *string             `json:"industry_trend,omitempty"`
}

// Validate checks the invariants a company must satisfy before being sent.
func (c Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// IsZero reports whether no industry attribute is set.
func (p *IndustryProfile) IsZero() bool {
	if p == nil {
		return true
	}
	return p.IndustryCategory == nil &&
		!p.IndustrySize.Valid &&
		p.ConcentrationLevel == nil &&
		p.IndustryBarrier == nil &&
		!p.IndustryCAGR5y.Valid &&
		p.MajorCompetitors == nil &&
		p.IndustryTrend == nil
}

// NormalizeForForm returns a copy of c whose IndustryProfile is never nil, so
// that nested fields can be edited directly.
func NormalizeForForm(c Company) Company {
	if c.IndustryProfile == nil {
		c.IndustryProfile = &IndustryProfile{}
	} else {
		p := *c.IndustryProfile
		c.IndustryProfile = &p
	}
	return c
}

// MergeEdit builds the update payload for current after an edit.
//
// Top level fields set in edit replace the current ones. The industry profile
// is the current profile overlaid with the fields set in the edited profile
// only, so that editing one industry attribute keeps the others.
func MergeEdit(current, edit Company) Company {
	out := current
	if edit.Name != "" {
		out.Name = edit.Name
	}
	out.Ticker = pick(edit.Ticker, current.Ticker)
	out.MainBusiness = pick(edit.MainBusiness, current.MainBusiness)
	out.EmployeeCount = pick(edit.EmployeeCount, current.EmployeeCount)
	out.MarketPosition = pick(edit.MarketPosition, current.MarketPosition)
	out.Differentiation = pick(edit.Differentiation, current.Differentiation)
	out.SupplyChainControl = pick(edit.SupplyChainControl, current.SupplyChainControl)

	var cur, ed IndustryProfile
	if current.IndustryProfile != nil {
		cur = *current.IndustryProfile
	}
	if edit.IndustryProfile != nil {
		ed = *edit.IndustryProfile
	}
	merged := IndustryProfile{
		ID:                 pick(ed.ID, cur.ID),
		IndustryCategory:   pick(ed.IndustryCategory, cur.IndustryCategory),
		IndustrySize:       pickDecimal(ed.IndustrySize, cur.IndustrySize),
		ConcentrationLevel: pick(ed.ConcentrationLevel, cur.ConcentrationLevel),
		IndustryBarrier:    pick(ed.IndustryBarrier, cur.IndustryBarrier),
		IndustryCAGR5y:     pickDecimal(ed.IndustryCAGR5y, cur.IndustryCAGR5y),
		MajorCompetitors:   pick(ed.MajorCompetitors, cur.MajorCompetitors),
		IndustryTrend:      pick(ed.IndustryTrend, cur.IndustryTrend),
	}
	out.IndustryProfile = &merged
	return out
}

func pick[T any](edited, current *T) *T {
	if edited != nil {
		return edited
	}
	return current
}

func pickDecimal(edited, current decimal.NullDecimal) decimal.NullDecimal {
	if edited.Valid {
		return edited
	}
	return current
}

// Ptr returns a pointer to v. It is handy to fill optional fields.
func Ptr[T any](v T) *T { return &v }

// Value returns the value pointed by p or the zero value.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
