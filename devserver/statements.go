package devserver

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// yearKeys are the keys a yearly record may carry its fiscal year in, by
// priority. date is read as YYYY-MM-DD.
var yearKeys = []string{"fiscalYear", "fiscal_year", "calendarYear", "calendar_year", "date"}

// metaKeys are never stored as statement values.
var metaKeys = map[string]bool{
	"fiscal_year": true, "calendar_year": true, "date": true, "period": true,
	"cik": true, "filing_date": true, "accepted_date": true,
}

var (
	snakeWord  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	snakeUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// snakeCase converts a camelCase key to snake_case, like totalAssets to
// total_assets.
func snakeCase(s string) string {
	s = snakeWord.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(snakeUpper.ReplaceAllString(s, "${1}_${2}"))
}

// parseStatements reads a statement file: a JSON array of yearly records.
// Only numeric fields are kept, keyed in snake_case. Records of the same
// year are merged, the last one wins.
func parseStatements(r io.Reader) ([]statement, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("a JSON array of yearly records is expected: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("the file holds no yearly record")
	}

	byYear := make(map[string]map[string]decimal.Decimal)
	for i, rec := range records {
		year, err := recordYear(rec)
		if err != nil {
			return nil, fmt.Errorf("record #%d: %w", i+1, err)
		}
		values := byYear[year]
		if values == nil {
			values = make(map[string]decimal.Decimal)
			byYear[year] = values
		}
		for k, v := range rec {
			key := snakeCase(k)
			if metaKeys[key] {
				continue
			}
			if d, ok := number(v); ok {
				values[key] = d
			}
		}
	}

	out := make([]statement, 0, len(byYear))
	for year, values := range byYear {
		out = append(out, statement{Year: year, Values: values})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func recordYear(rec map[string]any) (string, error) {
	for _, k := range yearKeys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if k == "date" && len(s) >= 4 {
			s = s[:4]
		}
		if s != "" {
			return s, nil
		}
	}
	return "", errors.New("no fiscal year (fiscalYear, calendarYear or date)")
}

func number(v any) (decimal.Decimal, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(n.String())
	return d, err == nil
}
