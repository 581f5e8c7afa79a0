package renderer

import (
	"bytes"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/pagination"
)

// CompanyListMarkdown renders one page of companies followed by the range
// of items shown.
func CompanyListMarkdown(companies []profiles.Company, state pagination.State) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Companies")
	doc.LF()
	if len(companies) == 0 {
		doc.PlainText(md.Italic("No company."))
	} else {
		rows := make([][]string, 0, len(companies))
		for _, c := range companies {
			rows = append(rows, []string{
				strconv.Itoa(c.ID),
				cell(c.Name),
				orMissing(profiles.Value(c.Ticker)),
				orMissing(profiles.Value(c.MainBusiness)),
				orMissing(intString(c.EmployeeCount)),
				orMissing(profiles.MarketPositionOptions.Label(profiles.Value(c.MarketPosition))),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"ID", "Name", "Ticker", "Main business", "Employees", "Market position"},
			Alignment: []md.TableAlignment{
				md.AlignRight,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignLeft,
			},
			Rows: rows,
		})
	}
	doc.LF()
	doc.PlainText(pagination.ShowTotal(state))

	return doc.String()
}
