package profiles

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Comparison is a property by company table.
type Comparison struct {
	Companies []string        `json:"companies"` // column headers, the company names
	Rows      []ComparisonRow `json:"rows"`
}

// ComparisonRow is one property of every compared company, in the order of
// Comparison.Companies. Missing values are empty strings.
type ComparisonRow struct {
	Property string   `json:"property"`
	Values   []string `json:"values"`
}

// comparedProperties lists the compared properties and how to read them.
var comparedProperties = []struct {
	name string
	get  func(c Company, p IndustryProfile) string
}{
	{"Ticker", func(c Company, _ IndustryProfile) string { return Value(c.Ticker) }},
	{"Main business", func(c Company, _ IndustryProfile) string { return Value(c.MainBusiness) }},
	{"Employees", func(c Company, _ IndustryProfile) string { return itoa(c.EmployeeCount) }},
	{"Market position", func(c Company, _ IndustryProfile) string {
		return MarketPositionOptions.Label(Value(c.MarketPosition))
	}},
	{"Differentiation", func(c Company, _ IndustryProfile) string { return Value(c.Differentiation) }},
	{"Supply chain control", func(c Company, _ IndustryProfile) string {
		return SupplyChainControlOptions.Label(Value(c.SupplyChainControl))
	}},
	{"Industry category", func(_ Company, p IndustryProfile) string {
		return IndustryCategoryOptions.Label(Value(p.IndustryCategory))
	}},
	{"Industry size", func(_ Company, p IndustryProfile) string { return decimalString(p.IndustrySize) }},
	{"Concentration", func(_ Company, p IndustryProfile) string {
		return ConcentrationOptions.Label(Value(p.ConcentrationLevel))
	}},
	{"Industry barrier", func(_ Company, p IndustryProfile) string {
		return BarrierOptions.Label(Value(p.IndustryBarrier))
	}},
	{"5y CAGR", func(_ Company, p IndustryProfile) string { return decimalString(p.IndustryCAGR5y) }},
	{"Major competitors", func(_ Company, p IndustryProfile) string { return Value(p.MajorCompetitors) }},
	{"Industry trend", func(_ Company, p IndustryProfile) string { return Value(p.IndustryTrend) }},
}

// Compare builds the comparison table of companies, in the given order.
func Compare(companies ...Company) Comparison {
	cmp := Comparison{
		Companies: make([]string, 0, len(companies)),
		Rows:      make([]ComparisonRow, 0, len(comparedProperties)),
	}
	for _, c := range companies {
		cmp.Companies = append(cmp.Companies, c.Name)
	}
	for _, prop := range comparedProperties {
		row := ComparisonRow{Property: prop.name, Values: make([]string, 0, len(companies))}
		for _, c := range companies {
			var p IndustryProfile
			if c.IndustryProfile != nil {
				p = *c.IndustryProfile
			}
			row.Values = append(row.Values, prop.get(c, p))
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}

func itoa(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func decimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
