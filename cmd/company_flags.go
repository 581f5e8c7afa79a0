package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/profiles"
)

// companyFlags are the flags of the company form, shared by create and edit.
type companyFlags struct {
	name, ticker, business, employees      string
	position, differentiation, supplyChain string
	category, size, concentration, barrier string
	cagr, competitors, trend               string

	// cleared lists the amount flags set to clearValue by the last call to
	// company.
	cleared []string
}

// clearValue given to an amount flag sets it to null. An empty string cannot,
// it is read as "not edited".
const clearValue = "none"

func codes(o profiles.Options) string {
	return strings.Join(o.Values(), ", ")
}

func (c *companyFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "company name")
	f.StringVar(&c.ticker, "ticker", "", "stock ticker")
	f.StringVar(&c.business, "business", "", "main business")
	f.StringVar(&c.employees, "employees", "", "number of employees")
	f.StringVar(&c.position, "position", "", "market position: "+codes(profiles.MarketPositionOptions))
	f.StringVar(&c.differentiation, "differentiation", "", "differentiation")
	f.StringVar(&c.supplyChain, "supply-chain", "", "supply chain control: "+codes(profiles.SupplyChainControlOptions))
	f.StringVar(&c.category, "category", "", "industry category: "+codes(profiles.IndustryCategoryOptions))
	f.StringVar(&c.size, "industry-size", "", "industry size in hundred million USD, "+clearValue+" to clear it")
	f.StringVar(&c.concentration, "concentration", "", "industry concentration level: "+codes(profiles.ConcentrationOptions))
	f.StringVar(&c.barrier, "barrier", "", "industry barrier: "+codes(profiles.BarrierOptions))
	f.StringVar(&c.cagr, "cagr", "", "industry 5 years CAGR in percent, like 8.2, "+clearValue+" to clear it")
	f.StringVar(&c.competitors, "competitors", "", "major competitors")
	f.StringVar(&c.trend, "trend", "", "industry trend")
}

// company returns the company made of the flags set in f only. Flags left
// unset are nil, so that the result can be merged into a current company.
func (c *companyFlags) company(f *flag.FlagSet) (profiles.Company, error) {
	var (
		out  profiles.Company
		ind  profiles.IndustryProfile
		errs []string
	)
	c.cleared = nil
	coded := func(dst **string, value, name string, o profiles.Options) {
		if value != "" && !o.Has(value) {
			errs = append(errs, fmt.Sprintf("invalid -%s %q, expected one of %s", name, value, codes(o)))
			return
		}
		*dst = profiles.Ptr(value)
	}
	amount := func(dst *decimal.NullDecimal, value, name string) {
		if value == "" || value == clearValue {
			*dst = decimal.NullDecimal{}
			if value == clearValue {
				c.cleared = append(c.cleared, name)
			}
			return
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid -%s %q, expected a number", name, value))
			return
		}
		*dst = decimal.NewNullDecimal(d)
	}

	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			out.Name = c.name
		case "ticker":
			out.Ticker = profiles.Ptr(c.ticker)
		case "business":
			out.MainBusiness = profiles.Ptr(c.business)
		case "employees":
			n, err := strconv.Atoi(c.employees)
			if err != nil || n < 0 {
				errs = append(errs, fmt.Sprintf("invalid -employees %q, expected a positive integer", c.employees))
				return
			}
			out.EmployeeCount = profiles.Ptr(n)
		case "position":
			coded(&out.MarketPosition, c.position, fl.Name, profiles.MarketPositionOptions)
		case "differentiation":
			out.Differentiation = profiles.Ptr(c.differentiation)
		case "supply-chain":
			coded(&out.SupplyChainControl, c.supplyChain, fl.Name, profiles.SupplyChainControlOptions)
		case "category":
			coded(&ind.IndustryCategory, c.category, fl.Name, profiles.IndustryCategoryOptions)
		case "industry-size":
			amount(&ind.IndustrySize, c.size, fl.Name)
		case "concentration":
			coded(&ind.ConcentrationLevel, c.concentration, fl.Name, profiles.ConcentrationOptions)
		case "barrier":
			coded(&ind.IndustryBarrier, c.barrier, fl.Name, profiles.BarrierOptions)
		case "cagr":
			amount(&ind.IndustryCAGR5y, c.cagr, fl.Name)
		case "competitors":
			ind.MajorCompetitors = profiles.Ptr(c.competitors)
		case "trend":
			ind.IndustryTrend = profiles.Ptr(c.trend)
		}
	})
	if len(errs) > 0 {
		return out, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	if !ind.IsZero() {
		out.IndustryProfile = &ind
	}
	return out, nil
}

// clear sets to null the amounts of p that the last call to company
// cleared. A merge keeps current amounts otherwise.
func (c *companyFlags) clear(p *profiles.IndustryProfile) {
	if p == nil {
		return
	}
	for _, name := range c.cleared {
		switch name {
		case "industry-size":
			p.IndustrySize = decimal.NullDecimal{}
		case "cagr":
			p.IndustryCAGR5y = decimal.NullDecimal{}
		}
	}
}
