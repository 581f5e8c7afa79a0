package devserver

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/etnz/profiles"
)

type seedCompany struct {
	company    profiles.Company
	statements map[profiles.StatementType][]statement
}

func values(kv ...any) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = decimal.NewFromInt(int64(kv[i+1].(int)))
	}
	return m
}

func seedData() []seedCompany {
	p := profiles.Ptr[string]
	return []seedCompany{
		{
			company: profiles.Company{
				Name:               "Northwind Semiconductors",
				Ticker:             p("NWS"),
				MainBusiness:       p("Design of power management chips"),
				EmployeeCount:      profiles.Ptr(12400),
				MarketPosition:     p("leader"),
				Differentiation:    p("Proprietary low-leakage process"),
				SupplyChainControl: p("strong"),
				IndustryProfile: &profiles.IndustryProfile{
					IndustryCategory:   p("technology"),
					IndustrySize:       decimal.NewNullDecimal(decimal.NewFromInt(5270)),
					ConcentrationLevel: p("high"),
					IndustryBarrier:    p("high"),
					IndustryCAGR5y:     decimal.NewNullDecimal(decimal.RequireFromString("8.2")),
					MajorCompetitors:   p("Contoso Micro, Fabrikam Devices"),
					IndustryTrend:      p("growing"),
				},
			},
			statements: map[profiles.StatementType][]statement{
				profiles.Income: {
					{Year: "2021", Values: values("net_income", 2_100_000_000, "revenue", 9_800_000_000, "pe_ratio", 31)},
					{Year: "2022", Values: values("net_income", 2_650_000_000, "revenue", 11_200_000_000, "pe_ratio", 27)},
					{Year: "2023", Values: values("net_income", 3_010_000_000, "revenue", 12_900_000_000, "pe_ratio", 25)},
				},
				profiles.Balance: {
					{Year: "2021", Values: values("total_assets", 18_400_000_000, "total_liabilities", 7_300_000_000)},
					{Year: "2022", Values: values("total_assets", 20_900_000_000, "total_liabilities", 7_900_000_000)},
					{Year: "2023", Values: values("total_assets", 23_600_000_000, "total_liabilities", 8_100_000_000)},
				},
				profiles.Cash: {
					{Year: "2021", Values: values("operating_cash_flow", 3_200_000_000, "free_cash_flow", 2_400_000_000, "cash_at_end_of_period", 4_100_000_000)},
					{Year: "2022", Values: values("operating_cash_flow", 3_900_000_000, "free_cash_flow", 2_800_000_000, "cash_at_end_of_period", 5_000_000_000)},
					{Year: "2023", Values: values("operating_cash_flow", 4_300_000_000, "free_cash_flow", 3_100_000_000, "cash_at_end_of_period", 5_600_000_000)},
				},
			},
		},
		{
			company: profiles.Company{
				Name:           "Blue Harbor Logistics",
				Ticker:         p("BHL"),
				MainBusiness:   p("Container shipping and port services"),
				EmployeeCount:  profiles.Ptr(5300),
				MarketPosition: p("challenger"),
				IndustryProfile: &profiles.IndustryProfile{
					IndustryCategory: p("industrials"),
					IndustryBarrier:  p("medium"),
					IndustryTrend:    p("stable"),
				},
			},
			statements: map[profiles.StatementType][]statement{
				profiles.Income: {
					{Year: "2022", Values: values("net_income", 410_000_000)},
					{Year: "2023", Values: values("net_income", 365_000_000)},
				},
			},
		},
		{
			company: profiles.Company{
				Name:         "Greenfield Foods",
				MainBusiness: p("Packaged organic food"),
			},
		},
	}
}

// seed fills an empty database with sample data.
func (s *Server) seed(ctx context.Context) error {
	n, err := s.store.countCompanies(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, sc := range seedData() {
		c, err := s.store.createCompany(ctx, sc.company)
		if err != nil {
			return err
		}
		for _, typ := range profiles.StatementTypes {
			if len(sc.statements[typ]) == 0 {
				continue
			}
			if _, err := s.store.saveStatements(ctx, c.ID, typ, sc.statements[typ]); err != nil {
				return err
			}
		}
	}
	s.logger.Printf("seeded %d companies", len(seedData()))
	return nil
}
