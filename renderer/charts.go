package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/financial"
)

// barWidth is the length of the longest bar of a chart.
const barWidth = 20

// ChartGridMarkdown renders every tile as a section with a table of the
// chart values, their growth rate and a text bar.
func ChartGridMarkdown(company string, tiles []financial.Tile) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Financials of %s", company))
	for _, tile := range tiles {
		doc.LF()
		title := tile.Chart.Title.Text
		if title == "" {
			title = tile.Metric.Title
		}
		doc.H2(title)
		doc.LF()
		switch {
		case tile.Err != nil:
			doc.PlainText(md.Italic("Chart unavailable: " + cell(tile.Err.Error())))
		case tile.Chart.IsEmpty():
			doc.PlainText(md.Italic("No data."))
		default:
			doc.Table(chartTable(&tile.Chart))
		}
	}
	return doc.String()
}

// chartTable lays out a chart by category. The first series is drawn as
// bars, the others are plain columns.
func chartTable(c *profiles.ChartData) md.TableSet {
	years := c.Categories()
	header := []string{"Year"}
	align := []md.TableAlignment{md.AlignLeft}
	for _, s := range c.Series {
		header = append(header, cell(s.Name))
		align = append(align, md.AlignRight)
	}
	header = append(header, "")
	align = append(align, md.AlignLeft)

	var bars []decimal.Decimal
	if len(c.Series) > 0 {
		bars = c.Series[0].Data
	}
	maxAbs := decimal.Zero
	for _, v := range bars {
		maxAbs = decimal.Max(maxAbs, v.Abs())
	}

	rows := make([][]string, 0, len(years))
	for i, year := range years {
		row := []string{year}
		for _, s := range c.Series {
			v := missing
			if i < len(s.Data) {
				v = s.Data[i].StringFixed(2)
			}
			row = append(row, v)
		}
		bar := ""
		if i < len(bars) {
			bar = Bar(bars[i], maxAbs, barWidth)
		}
		rows = append(rows, append(row, bar))
	}
	return md.TableSet{Header: header, Alignment: align, Rows: rows}
}

// Bar draws v as a bar of up to width cells, relative to maxAbs.
// Negative values are drawn with a lighter shade.
func Bar(v, maxAbs decimal.Decimal, width int) string {
	if maxAbs.IsZero() {
		return ""
	}
	n := int(v.Abs().Div(maxAbs).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n == 0 && !v.IsZero() {
		n = 1
	}
	if v.IsNegative() {
		return strings.Repeat("░", n)
	}
	return strings.Repeat("█", n)
}
