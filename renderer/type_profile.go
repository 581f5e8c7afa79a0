package renderer

import (
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/etnz/profiles"
)

// missing is shown in place of an unset value.
const missing = "-"

// Profile is the company profile as rendered.
// Values are already formatted: coded values are replaced by their labels
// and unset values by "-".
type Profile struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Ticker string `json:"ticker,omitempty"`
	// Business lists the company attributes.
	Business []Field `json:"business"`
	// Industry lists the industry profile attributes, empty when the
	// company has none.
	Industry []Field `json:"industry,omitempty"`
}

// Field is one labelled value.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewProfile creates a new Profile struct from a company.
func NewProfile(c profiles.Company) *Profile {
	p := &Profile{
		ID:     c.ID,
		Name:   cell(c.Name),
		Ticker: cell(profiles.Value(c.Ticker)),
		Business: []Field{
			{"Ticker", orMissing(profiles.Value(c.Ticker))},
			{"Main business", orMissing(profiles.Value(c.MainBusiness))},
			{"Employees", orMissing(intString(c.EmployeeCount))},
			{"Market position", orMissing(profiles.MarketPositionOptions.Label(profiles.Value(c.MarketPosition)))},
			{"Differentiation", orMissing(profiles.Value(c.Differentiation))},
			{"Supply chain control", orMissing(profiles.SupplyChainControlOptions.Label(profiles.Value(c.SupplyChainControl)))},
		},
	}
	ip := c.IndustryProfile
	if ip.IsZero() {
		return p
	}
	p.Industry = []Field{
		{"Category", orMissing(profiles.IndustryCategoryOptions.Label(profiles.Value(ip.IndustryCategory)))},
		{"Size", orMissing(IndustrySize(ip.IndustrySize))},
		{"Concentration", orMissing(profiles.ConcentrationOptions.Label(profiles.Value(ip.ConcentrationLevel)))},
		{"Barrier to entry", orMissing(profiles.BarrierOptions.Label(profiles.Value(ip.IndustryBarrier)))},
		{"5 years CAGR", orMissing(Percent(ip.IndustryCAGR5y))},
		{"Major competitors", orMissing(profiles.Value(ip.MajorCompetitors))},
		{"Trend", orMissing(profiles.Value(ip.IndustryTrend))},
	}
	return p
}

// hundredMillionCents converts hundred million USD to cents.
var hundredMillionCents = decimal.New(1, 10)

// IndustrySize formats an industry size expressed in hundred million USD as
// a dollar amount, or "" when unset.
func IndustrySize(size decimal.NullDecimal) string {
	if !size.Valid {
		return ""
	}
	cents := size.Decimal.Mul(hundredMillionCents).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// Percent formats a percentage, or "" when unset.
func Percent(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.StringFixed(2) + "%"
}

func intString(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return cell(s)
}

// cell makes s safe inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
