package profiles

// Option is a coded value accepted by the API with its human label.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options is a list of Option, in display order.
type Options []Option

var IndustryCategoryOptions = Options{
	{Label: "Technology", Value: "technology"},
	{Label: "Finance", Value: "finance"},
	{Label: "Healthcare", Value: "healthcare"},
	{Label: "Consumer goods", Value: "consumer_goods"},
	{Label: "Industrials", Value: "industrials"},
	{Label: "Energy", Value: "energy"},
	{Label: "Real estate", Value: "real_estate"},
	{Label: "Utilities", Value: "utilities"},
}

var ConcentrationOptions = Options{
	{Label: "High", Value: "high"},
	{Label: "Medium", Value: "medium"},
	{Label: "Low", Value: "low"},
}

var BarrierOptions = Options{
	{Label: "High", Value: "high"},
	{Label: "Medium", Value: "medium"},
	{Label: "Low", Value: "low"},
}

var MarketPositionOptions = Options{
	{Label: "Global leader", Value: "leader"},
	{Label: "Upper middle", Value: "upper_middle"},
	{Label: "Challenger", Value: "challenger"},
	{Label: "Weak", Value: "weak"},
}

var SupplyChainControlOptions = Options{
	{Label: "Strong", Value: "strong"},
	{Label: "Medium", Value: "medium"},
	{Label: "Weak", Value: "weak"},
}

// Label returns the label of value, or value itself when it is not a known
// option. An empty value yields an empty label.
func (o Options) Label(value string) string {
	if value == "" {
		return ""
	}
	for _, opt := range o {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Values returns the coded values, in display order.
func (o Options) Values() []string {
	values := make([]string, 0, len(o))
	for _, opt := range o {
		values = append(values, opt.Value)
	}
	return values
}

// Has reports whether value is one of the coded values.
func (o Options) Has(value string) bool {
	for _, opt := range o {
		if opt.Value == value {
			return true
		}
	}
	return false
}
