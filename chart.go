package profiles

import "github.com/shopspring/decimal"

// ChartData is the chart description returned for a financial metric.
// JSON names follow the chart payload of the API, in camelCase.
type ChartData struct {
	Title  ChartTitle    `json:"title"`
	Legend ChartLegend   `json:"legend"`
	XAxis  []ChartAxis   `json:"xAxis"`
	YAxis  []ChartAxis   `json:"yAxis"`
	Series []ChartSeries `json:"series"`
}

type ChartTitle struct {
	Text string `json:"text,omitempty"`
}

type ChartLegend struct {
	Data   []string `json:"data"`
	Top    any      `json:"top,omitempty"`
	Left   any      `json:"left,omitempty"`
	Right  any      `json:"right,omitempty"`
	Bottom any      `json:"bottom,omitempty"`
}

type ChartAxis struct {
	Type         string         `json:"type"`
	Name         string         `json:"name,omitempty"`
	Data         []string       `json:"data,omitempty"`
	Min          any            `json:"min,omitempty"`
	Max          any            `json:"max,omitempty"`
	Position     string         `json:"position,omitempty"`
	AxisLabel    map[string]any `json:"axisLabel,omitempty"`
	NameLocation string         `json:"nameLocation,omitempty"`
	NameGap      int            `json:"nameGap,omitempty"`
}

type ChartSeries struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Data       []decimal.Decimal `json:"data"`
	YAxisIndex int               `json:"yAxisIndex,omitempty"`
	Smooth     bool              `json:"smooth,omitempty"`
	BarWidth   string            `json:"barWidth,omitempty"`
	Label      map[string]any    `json:"label,omitempty"`
}

// Categories returns the labels of the first category axis, usually the
// fiscal years.
func (c *ChartData) Categories() []string {
	for _, axis := range c.XAxis {
		if axis.Type == "category" {
			return axis.Data
		}
	}
	return nil
}

// IsEmpty reports whether the chart has no data to show.
func (c *ChartData) IsEmpty() bool {
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}
