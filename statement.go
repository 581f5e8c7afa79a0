package profiles

import (
	"fmt"
	"strings"
)

// StatementType is the kind of a financial statement.
type StatementType string

const (
	Income  StatementType = "income"
	Balance StatementType = "balance"
	Cash    StatementType = "cash"
)

// StatementTypes lists all statement types, in display order.
var StatementTypes = []StatementType{Income, Balance, Cash}

// ParseStatementType parses a statement type, ignoring case.
func ParseStatementType(s string) (StatementType, error) {
	switch t := StatementType(strings.ToLower(strings.TrimSpace(s))); t {
	case Income, Balance, Cash:
		return t, nil
	default:
		return "", fmt.Errorf("unknown statement type %q, expected one of income, balance or cash", s)
	}
}

func (t StatementType) String() string { return string(t) }

// Label returns the human name of the statement.
func (t StatementType) Label() string {
	switch t {
	case Income:
		return "Income Statement"
	case Balance:
		return "Balance Sheet"
	case Cash:
		return "Cash Flow Statement"
	default:
		return string(t)
	}
}
