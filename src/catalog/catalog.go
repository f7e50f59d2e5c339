// Package catalog is the static registry of rule fields: which fields each
// rule category offers, which operators and value domains each field allows,
// and the input parameters (suffix, placeholder, period) the editing surface
// needs to render a field. Everything here is a pure lookup over fixed tables.
package catalog

// Category selects which subset of the catalog is legal for a rule tree.
type Category string

const (
	CategoryScanner Category = "scanner"
	CategoryBuy     Category = "buy"
	CategorySell    Category = "sell"
)

// Option is a (value, label) pair for enumerated selectors.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldParams describes how a field's value and optional period input behave.
// PeriodLabel is empty when the field takes no period; PeriodDefault is only
// meaningful when PeriodLabel is set and non-zero.
type FieldParams struct {
	Suffix        string `json:"suffix"`
	Placeholder   string `json:"placeholder"`
	PeriodLabel   string `json:"period_label"`
	PeriodDefault int    `json:"period_default,omitempty"`
}

var categoryFields = map[Category][]Option{
	CategoryScanner: {
		{Value: "exchange", Label: "Exchange"},
		{Value: "instrument_type", Label: "Instrument Type"},
		{Value: "price_growth", Label: "Price Growth"},
		{Value: "price", Label: "Price"},
		{Value: "market_cap_rank", Label: "Market Cap Rank"},
		{Value: "avg_daily_transaction", Label: "Average Daily Transaction Value"},
	},
	CategoryBuy: {
		{Value: "last_price", Label: "Last Price"},
		{Value: "last_close", Label: "Last Close"},
		{Value: "moving_average", Label: "Moving Average"},
		{Value: "volume", Label: "Volume"},
		{Value: "rsi", Label: "RSI"},
	},
	CategorySell: {
		{Value: "trailing_stoploss", Label: "Trailing Stoploss"},
		{Value: "hold_days", Label: "Hold Days"},
		{Value: "take_profit", Label: "Take Profit"},
		{Value: "price_drop", Label: "Price Drop"},
	},
}

var equalityOperators = []Option{
	{Value: "equals", Label: "="},
	{Value: "not_equals", Label: "≠"},
}

var numericOperators = []Option{
	{Value: "greater_than", Label: ">"},
	{Value: "less_than", Label: "<"},
	{Value: "greater_than_equals", Label: "≥"},
	{Value: "less_than_equals", Label: "≤"},
	{Value: "equals", Label: "="},
}

var rankOperators = []Option{
	{Value: "top_percent", Label: "Top %"},
	{Value: "bottom_percent", Label: "Bottom %"},
}

var fieldOperators = map[string][]Option{
	"exchange":              equalityOperators,
	"instrument_type":       equalityOperators,
	"price":                 numericOperators,
	"last_price":            numericOperators,
	"last_close":            numericOperators,
	"moving_average":        numericOperators,
	"volume":                numericOperators,
	"rsi":                   numericOperators,
	"trailing_stoploss":     numericOperators,
	"hold_days":             numericOperators,
	"take_profit":           numericOperators,
	"price_drop":            numericOperators,
	"price_growth":          numericOperators,
	"avg_daily_transaction": numericOperators,
	"market_cap_rank":       rankOperators,
}

var fieldValueDomains = map[string][]Option{
	"exchange": {
		{Value: "NSE", Label: "NSE"},
		{Value: "BSE", Label: "BSE"},
		{Value: "NYSE", Label: "NYSE"},
		{Value: "NASDAQ", Label: "NASDAQ"},
	},
	"instrument_type": {
		{Value: "EQUITY", Label: "EQUITY"},
		{Value: "FUTURES", Label: "FUTURES"},
		{Value: "OPTIONS", Label: "OPTIONS"},
		{Value: "CURRENCY", Label: "CURRENCY"},
	},
}

var fieldParams = map[string]FieldParams{
	"price_growth":          {Suffix: "%", Placeholder: "e.g. 10", PeriodLabel: "Last X days", PeriodDefault: 300},
	"moving_average":        {Suffix: "", Placeholder: "e.g. 100", PeriodLabel: "Period (days)", PeriodDefault: 30},
	"hold_days":             {Suffix: "days", Placeholder: "e.g. 5"},
	"trailing_stoploss":     {Suffix: "%", Placeholder: "e.g. 10"},
	"take_profit":           {Suffix: "%", Placeholder: "e.g. 10"},
	"avg_daily_transaction": {Suffix: "", Placeholder: "e.g. 300000000", PeriodLabel: "Last X days", PeriodDefault: 90},
}

// FieldsFor returns the ordered list of fields a category offers. Unknown
// categories yield nil, the editing surface simply shows no options.
func FieldsFor(category Category) []Option {
	return categoryFields[category]
}

// OperatorsFor returns the ordered operators a field allows within a category.
// A field that does not belong to the category yields nil.
func OperatorsFor(category Category, field string) []Option {
	for _, opt := range categoryFields[category] {
		if opt.Value == field {
			return fieldOperators[field]
		}
	}
	return nil
}

// ValueDomainFor returns the enumerated value options for a field, or nil for
// free-form numeric/text fields.
func ValueDomainFor(field string) []Option {
	return fieldValueDomains[field]
}

// ParamsFor returns the input parameters for a field. Fields without an entry
// get the generic free-form parameters.
func ParamsFor(field string) FieldParams {
	if params, ok := fieldParams[field]; ok {
		return params
	}
	return FieldParams{Placeholder: "Enter value"}
}

// PeriodDefaultFor returns the default period for a field and whether the
// field declares one.
func PeriodDefaultFor(field string) (int, bool) {
	params, ok := fieldParams[field]
	if !ok || params.PeriodDefault == 0 {
		return 0, false
	}
	return params.PeriodDefault, true
}
