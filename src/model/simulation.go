package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SimulationConfig is the backtest window and position limits a strategy is
// simulated with. Dates are date-only strings ("2006-01-02"), the format the
// editing surface supplies.
type SimulationConfig struct {
	StartMargin               float64 `json:"startMargin"`
	StartDate                 string  `json:"startDate"`
	EndDate                   string  `json:"endDate"`
	MaxPositions              int     `json:"maxPositions"`
	MaxPositionsPerInstrument int     `json:"maxPositionsPerInstrument"`
	OrderSortingType          string  `json:"orderSortingType"`
}

// DefaultSimulationConfig matches the editor's initial values.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		StartMargin:               100000,
		StartDate:                 "2000-01-01",
		EndDate:                   "2025-03-20",
		MaxPositions:              20,
		MaxPositionsPerInstrument: 1,
		OrderSortingType:          "300-days-top-gainer-first",
	}
}

func (c SimulationConfig) Value() (driver.Value, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (c *SimulationConfig) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = DefaultSimulationConfig()
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into SimulationConfig", src)
	}
}

type TradeAction string

const (
	TradeBuy  TradeAction = "BUY"
	TradeSell TradeAction = "SELL"
)

// Trade is a single entry in a simulation's trade ledger.
type Trade struct {
	Date       string          `json:"date"`
	Instrument string          `json:"instrument"`
	Action     TradeAction     `json:"action"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// SimulationResults is the payload the simulation executor resolves with.
// Percentages are kept as the formatted strings the executor produced.
type SimulationResults struct {
	TotalReturn      string  `json:"totalReturn"`
	AnnualizedReturn string  `json:"annualizedReturn"`
	MaxDrawdown      string  `json:"maxDrawdown"`
	SharpeRatio      string  `json:"sharpeRatio"`
	Trades           []Trade `json:"trades"`
}

func (r SimulationResults) Value() (driver.Value, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (r *SimulationResults) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into SimulationResults", src)
	}
}

// FormatPerformance turns the executor's total-return figure into the signed
// performance string shown in the strategy list: a leading "+" is enforced for
// non-negative returns, "-" is preserved as-is.
func FormatPerformance(totalReturn string) string {
	if totalReturn == "" {
		return PerformanceNA
	}
	if totalReturn[0] == '-' || totalReturn[0] == '+' {
		return totalReturn
	}
	return "+" + totalReturn
}
