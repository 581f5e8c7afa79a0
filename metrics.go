package profiles

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Point is the value of a metric for one fiscal year.
type Point struct {
	Year  string          `json:"year"`
	Value decimal.Decimal `json:"value"`
}

// Series is a metric time series.
type Series []Point

// Normalize returns the series sorted by year, keeping the last value of
// duplicated years.
func (s Series) Normalize() Series {
	byYear := make(map[string]decimal.Decimal, len(s))
	for _, p := range s {
		byYear[p.Year] = p.Value
	}
	out := make(Series, 0, len(byYear))
	for y, v := range byYear {
		out = append(out, Point{Year: y, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MetricKind tells how a chart is computed from raw statement values.
type MetricKind int

const (
	// SingleMetric charts one statement attribute.
	SingleMetric MetricKind = iota
	// RatioMetric charts Numerator / Denominator for aligned years.
	RatioMetric
	// PEGMetric charts pe_ratio divided by the net income growth rate.
	PEGMetric
)

// Metric describes a chartable financial metric.
type Metric struct {
	Name        string
	Title       string
	SeriesName  string
	Kind        MetricKind
	Unit        decimal.Decimal // raw values are divided by Unit, zero means 1
	Numerator   string
	Denominator string
}

// hundredMillion is the display unit of absolute amounts.
var hundredMillion = decimal.New(1, 8)

// Metrics is the catalog of chartable metrics.
var Metrics = []Metric{
	{Name: "net_income", Title: "Net income (100M USD)", SeriesName: "Net income", Unit: hundredMillion},
	{Name: "total_assets", Title: "Total assets (100M USD)", SeriesName: "Assets", Unit: hundredMillion},
	{Name: "total_liabilities", Title: "Total liabilities (100M USD)", SeriesName: "Liabilities", Unit: hundredMillion},
	{Name: "operating_cash_flow", Title: "Operating cash flow (100M USD)", SeriesName: "Net amount", Unit: hundredMillion},
	{Name: "free_cash_flow", Title: "Free cash flow (100M USD)", SeriesName: "Net amount", Unit: hundredMillion},
	{Name: "cash_at_end_of_period", Title: "Cash at end of period (100M USD)", SeriesName: "Net amount", Unit: hundredMillion},
	{Name: "asset_liability_ratio", Title: "Asset-liability ratio", Kind: RatioMetric, Numerator: "total_assets", Denominator: "total_liabilities"},
	{Name: "operating_cash_flow_to_net_income_ratio", Title: "Operating cash flow to net income", Kind: RatioMetric, Numerator: "operating_cash_flow", Denominator: "net_income"},
	{Name: "free_cash_flow_to_net_income_ratio", Title: "Free cash flow to net income", Kind: RatioMetric, Numerator: "free_cash_flow", Denominator: "net_income"},
	{Name: "peg_ratio", Title: "PEG ratio", Kind: PEGMetric, Numerator: "pe_ratio", Denominator: "net_income"},
}

// DefaultChartMetrics are the metrics shown by default on a company's
// financial overview.
var DefaultChartMetrics = []string{"net_income", "operating_cash_flow", "total_assets", "asset_liability_ratio"}

// LookupMetric finds a metric by name.
func LookupMetric(name string) (Metric, bool) {
	for _, m := range Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Dependencies returns the raw statement attributes needed to chart m.
func (m Metric) Dependencies() []string {
	if m.Kind == SingleMetric {
		return []string{m.Name}
	}
	return []string{m.Numerator, m.Denominator}
}

const growthSeriesName = "Growth rate"

// Chart computes the chart of m from the raw series of its dependencies.
// When data is missing the chart is titled "<title> (No Data)" and has no series.
func (m Metric) Chart(data map[string]Series) ChartData {
	var (
		years      []string
		values     []decimal.Decimal
		seriesName string
	)
	switch m.Kind {
	case SingleMetric:
		years, values = m.single(data[m.Name])
		seriesName = m.SeriesName
	case RatioMetric:
		years, values = ratio(data[m.Numerator], data[m.Denominator])
		seriesName = "Ratio"
	case PEGMetric:
		years, values = peg(data[m.Numerator], data[m.Denominator])
		seriesName = "Value"
	}
	if len(values) == 0 {
		return ChartData{Title: ChartTitle{Text: m.Title + " (No Data)"}, Series: []ChartSeries{}}
	}

	return ChartData{
		Title:  ChartTitle{Text: m.Title},
		Legend: ChartLegend{Data: []string{seriesName, growthSeriesName}, Right: "right"},
		XAxis: []ChartAxis{{
			Type: "category", Data: years, Name: "Year", NameLocation: "middle", NameGap: 30,
			AxisLabel: map[string]any{"show": true},
		}},
		YAxis: []ChartAxis{
			{Type: "value", AxisLabel: map[string]any{"formatter": "{value}"}},
			{Type: "value", Position: "right", AxisLabel: map[string]any{"formatter": "{value} %"}},
		},
		Series: []ChartSeries{
			{Name: seriesName, Type: "bar", Data: values, BarWidth: "40%"},
			{Name: growthSeriesName, Type: "line", YAxisIndex: 1, Data: GrowthRates(values), Smooth: true},
		},
	}
}

func (m Metric) single(s Series) (years []string, values []decimal.Decimal) {
	unit := m.Unit
	if unit.IsZero() {
		unit = decimal.NewFromInt(1)
	}
	for _, p := range s.Normalize() {
		years = append(years, p.Year)
		values = append(values, p.Value.Div(unit).Round(2))
	}
	return years, values
}

// ratio divides num by den for the years present in both, skipping zero
// denominators.
func ratio(num, den Series) (years []string, values []decimal.Decimal) {
	dens := make(map[string]decimal.Decimal)
	for _, p := range den.Normalize() {
		dens[p.Year] = p.Value
	}
	for _, p := range num.Normalize() {
		d, ok := dens[p.Year]
		if !ok || d.IsZero() {
			continue
		}
		years = append(years, p.Year)
		values = append(values, p.Value.Div(d).Round(2))
	}
	return years, values
}

// peg computes pe / growth% where growth is the year over year change of
// income. The first aligned year has no growth and is skipped, so are years
// with no growth. Growth from a zero income is infinite: its PEG is 0, unless
// income stays at zero.
func peg(pe, income Series) (years []string, values []decimal.Decimal) {
	pes := make(map[string]decimal.Decimal)
	for _, p := range pe.Normalize() {
		pes[p.Year] = p.Value
	}
	var aligned Series
	for _, p := range income.Normalize() {
		if _, ok := pes[p.Year]; ok {
			aligned = append(aligned, p)
		}
	}
	hundred := decimal.NewFromInt(100)
	for i := 1; i < len(aligned); i++ {
		prev, cur := aligned[i-1].Value, aligned[i].Value
		if prev.IsZero() {
			if !cur.IsZero() {
				years = append(years, aligned[i].Year)
				values = append(values, decimal.Zero)
			}
			continue
		}
		growth := cur.Sub(prev).Div(prev).Mul(hundred)
		if growth.IsZero() {
			continue
		}
		years = append(years, aligned[i].Year)
		values = append(values, pes[aligned[i].Year].Div(growth).Round(2))
	}
	return years, values
}

// GrowthRates returns the year over year growth, in percent rounded to 2
// decimals. The first rate is 0, so is any rate following a zero value.
func GrowthRates(values []decimal.Decimal) []decimal.Decimal {
	if len(values) == 0 {
		return []decimal.Decimal{}
	}
	hundred := decimal.NewFromInt(100)
	rates := make([]decimal.Decimal, 0, len(values))
	rates = append(rates, decimal.Zero)
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if prev.IsZero() {
			rates = append(rates, decimal.Zero)
			continue
		}
		rates = append(rates, cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(2))
	}
	return rates
}
