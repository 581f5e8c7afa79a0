package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/etnz/profiles"
)

// ComparisonMarkdown renders a property by company table.
func ComparisonMarkdown(cmp profiles.Comparison) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Comparison")
	doc.LF()

	header := []string{"Property"}
	align := []md.TableAlignment{md.AlignLeft}
	for _, name := range cmp.Companies {
		header = append(header, cell(name))
		align = append(align, md.AlignLeft)
	}
	rows := make([][]string, 0, len(cmp.Rows))
	for _, r := range cmp.Rows {
		row := []string{r.Property}
		for _, v := range r.Values {
			row = append(row, orMissing(v))
		}
		rows = append(rows, row)
	}
	doc.Table(md.TableSet{Header: header, Alignment: align, Rows: rows})

	return doc.String()
}
