package service

import (
	"time"

	"strategystudio/src/model"
)

// seedStrategies is the demo collection a fresh install starts with, matching
// the original studio's initial list.
func seedStrategies() []model.Strategy {
	seed := func(id, name string, status model.StrategyStatus, modified string, performance string) model.Strategy {
		strat := model.NewStrategy(name, "")
		strat.ID = id
		strat.Status = status
		strat.Performance = performance
		strat.LastModified, _ = time.Parse("2006-01-02T15:04:05", modified)
		return strat
	}

	return []model.Strategy{
		seed("1", "NSE Equity Growth Strategy", model.StatusCompleted, "2023-12-15T10:30:00", "+12.5%"),
		seed("2", "Market Cap Leaders", model.StatusInProgress, "2023-12-18T14:45:00", model.PerformanceNA),
		seed("3", "Moving Average Crossover", model.StatusDraft, "2023-12-20T09:15:00", model.PerformanceNA),
		seed("4", "Trailing Stoploss Strategy", model.StatusCompleted, "2023-12-10T16:20:00", "-2.3%"),
		seed("5", "High Volume Breakouts", model.StatusDraft, "2023-12-21T11:05:00", model.PerformanceNA),
	}
}
