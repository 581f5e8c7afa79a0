package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/company"
	"github.com/etnz/profiles/docs"
	"github.com/etnz/profiles/financial"
	"github.com/etnz/profiles/pagination"
	"github.com/etnz/profiles/renderer"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user manages a database of company profiles: their business, their industry and
			their financial statements. Devise a plan of questions to ask to each expert and come up
			with the best response to the user's request. Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an industry researcher,
		aware of companies, markets, competitors and the latest news.
		Ask the Researcher whenever you need recent or grounding information that the database does not hold.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an industry researcher. You search and find about companies, their competitors,
			their industry and the markets. You leverage Google Search to ground your assertions.
				`}}},
		},
	}
}

// NewAnalyst returns the expert reading the company profile database.
func NewAnalyst(companies *company.Service, fin *financial.Service) *Expert {
	lib := AnalystFunctions(companies, fin)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He reads the company profile database:
		the list of companies, their profile, their industry profile and their financial metrics.
		He can also compare companies side by side.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the company profile database.
				Use the Tools to find companies, read their profile and chart their financial metrics.
				Companies are addressed by their numeric id: list them first to find the id of a company by name.

				` + must(docs.GetTopic("financials")),
			}}},
		},
		Library: NewLibrary(lib),
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// AnalystFunctions are the functions of the Analyst. They return markdown.
func AnalystFunctions(companies *company.Service, fin *financial.Service) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_companies",
				Description: "List one page of companies with their id, name, ticker and main business.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"page": {Type: genai.TypeInteger, Description: "1-based page number, 1 by default."},
						"size": {Type: genai.TypeInteger, Description: "Number of companies per page, 50 by default."},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of companies."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				page, err := intArg(args, "page", 1)
				if err != nil {
					return "", err
				}
				size, err := intArg(args, "size", 50)
				if err != nil {
					return "", err
				}
				res, err := companies.List(ctx, page, size, nil)
				if err != nil {
					return "", err
				}
				return renderer.CompanyListMarkdown(res.Items, pagination.State{Current: page, PageSize: size, Total: res.Total}), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "get_company",
				Description: "Read the full profile of a company, including its industry profile.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"id": {Type: genai.TypeInteger, Description: "The company id."}},
					Required:   []string{"id"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown profile of the company."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				id, err := intArg(args, "id", 0)
				if err != nil {
					return "", err
				}
				c, err := companies.Get(ctx, id)
				if err != nil {
					return "", err
				}
				return renderer.RenderProfile(renderer.NewProfile(c)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "compare_companies",
				Description: "Compare companies side by side, property by property.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ids": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeInteger}, Description: "The ids of the companies to compare."},
					},
					Required: []string{"ids"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown comparison table."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				ids, err := intsArg(args, "ids")
				if err != nil {
					return "", err
				}
				list, err := companies.Compare(ctx, ids...)
				if err != nil {
					return "", err
				}
				return renderer.ComparisonMarkdown(profiles.Compare(list...)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "company_financials",
				Description: "Chart financial metrics of a company: yearly values and growth rates.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id": {Type: genai.TypeInteger, Description: "The company id."},
						"metrics": {
							Type:        genai.TypeString,
							Description: "Comma separated metric names, among " + strings.Join(metricNames(), ", ") + ". Default metrics when empty.",
						},
					},
					Required: []string{"id"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "Markdown tables, one per metric."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				id, err := intArg(args, "id", 0)
				if err != nil {
					return "", err
				}
				var metrics []string
				if s, err := stringArg(args, "metrics"); err == nil && strings.TrimSpace(s) != "" {
					for _, m := range strings.Split(s, ",") {
						metrics = append(metrics, strings.TrimSpace(m))
					}
				}
				return renderer.ChartGridMarkdown(fmt.Sprintf("company %d", id), fin.Charts(ctx, id, metrics...)), nil
			},
		},
	}
}

func metricNames() []string {
	names := make([]string, 0, len(profiles.Metrics))
	for _, m := range profiles.Metrics {
		names = append(names, m.Name)
	}
	return names
}
