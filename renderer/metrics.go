package renderer

import (
	"bytes"
	"slices"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/etnz/profiles"
)

var kindNames = map[profiles.MetricKind]string{
	profiles.SingleMetric: "value",
	profiles.RatioMetric:  "ratio",
	profiles.PEGMetric:    "PEG",
}

// MetricsMarkdown renders the catalog of chart metrics.
func MetricsMarkdown(metrics []profiles.Metric) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Metrics")
	doc.LF()
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		def := ""
		if slices.Contains(profiles.DefaultChartMetrics, m.Name) {
			def = "yes"
		}
		rows = append(rows, []string{
			md.Code(m.Name),
			m.Title,
			kindNames[m.Kind],
			strings.Join(m.Dependencies(), ", "),
			def,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Name", "Title", "Kind", "Computed from", "Default"},
		Rows:   rows,
	})
	return doc.String()
}
