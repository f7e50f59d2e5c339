// Package simulator holds the in-process simulation executor. It produces
// mocked backtest results with the same shape and value ranges a real
// executor would return; the actual performance math lives outside this
// system.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"strategystudio/src/model"
)

// Mock generates randomized simulation results after a configurable delay.
type Mock struct {
	logger *logrus.Entry
	delay  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMock(logger *logrus.Entry) *Mock {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	config := GetConfig()
	return &Mock{
		logger: logger,
		delay:  config.Delay,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewMockWithSource returns a Mock with a fixed rand source and no delay, for
// deterministic tests.
func NewMockWithSource(logger *logrus.Entry, source rand.Source) *Mock {
	m := NewMock(logger)
	m.delay = 0
	m.rng = rand.New(source)
	return m
}

// Execute runs the mocked backtest for a strategy snapshot. It honors context
// cancellation during the simulated processing delay.
func (m *Mock) Execute(ctx context.Context, strat model.Strategy) (*model.SimulationResults, error) {
	m.logger.WithFields(logrus.Fields{
		"strategy_id": strat.ID,
		"start_date":  strat.SimulationConfig.StartDate,
		"end_date":    strat.SimulationConfig.EndDate,
	}).Info("mock simulation started")

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("simulation canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	m.mu.Lock()
	totalReturn := m.rng.Float64()*20 - 5
	annualized := m.rng.Float64()*15 - 3
	drawdown := m.rng.Float64()*20 + 5
	sharpe := m.rng.Float64()*2 + 0.5
	m.mu.Unlock()

	results := &model.SimulationResults{
		TotalReturn:      fmt.Sprintf("%.1f%%", totalReturn),
		AnnualizedReturn: fmt.Sprintf("%.1f%%", annualized),
		MaxDrawdown:      fmt.Sprintf("-%.1f%%", drawdown),
		SharpeRatio:      fmt.Sprintf("%.1f", sharpe),
		Trades:           sampleTrades(),
	}

	m.logger.WithFields(logrus.Fields{
		"strategy_id":  strat.ID,
		"total_return": results.TotalReturn,
	}).Info("mock simulation completed")

	return results, nil
}

// sampleTrades is the fixed demo ledger every mocked run resolves with.
func sampleTrades() []model.Trade {
	return []model.Trade{
		{Date: "2022-01-15", Instrument: "RELIANCE", Action: model.TradeBuy, Price: decimal.NewFromInt(2500), Quantity: 10},
		{Date: "2022-01-20", Instrument: "HDFCBANK", Action: model.TradeBuy, Price: decimal.NewFromInt(1500), Quantity: 15},
		{Date: "2022-02-05", Instrument: "RELIANCE", Action: model.TradeSell, Price: decimal.NewFromInt(2700), Quantity: 10},
		{Date: "2022-02-15", Instrument: "INFY", Action: model.TradeBuy, Price: decimal.NewFromInt(1800), Quantity: 12},
		{Date: "2022-03-01", Instrument: "HDFCBANK", Action: model.TradeSell, Price: decimal.NewFromInt(1450), Quantity: 15},
		{Date: "2022-03-10", Instrument: "INFY", Action: model.TradeSell, Price: decimal.NewFromInt(1900), Quantity: 12},
	}
}
