package simulator

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"strategystudio/src/model"
)

func TestMockExecuteShapesResults(t *testing.T) {
	m := NewMockWithSource(nil, rand.NewSource(1))

	strat := model.NewStrategy("Demo", "")
	strat.ID = "s-1"

	results, err := m.Execute(context.Background(), strat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(results.TotalReturn, "%") {
		t.Fatalf("total return should be a percent string, got %q", results.TotalReturn)
	}
	if !strings.HasPrefix(results.MaxDrawdown, "-") {
		t.Fatalf("max drawdown should be negative, got %q", results.MaxDrawdown)
	}
	if len(results.Trades) != 6 {
		t.Fatalf("expected the 6-entry sample ledger, got %d trades", len(results.Trades))
	}
	if results.Trades[0].Action != model.TradeBuy || results.Trades[0].Instrument != "RELIANCE" {
		t.Fatalf("unexpected first trade: %+v", results.Trades[0])
	}
}

func TestMockExecuteDeterministicWithFixedSource(t *testing.T) {
	first, err := NewMockWithSource(nil, rand.NewSource(42)).Execute(context.Background(), model.Strategy{ID: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewMockWithSource(nil, rand.NewSource(42)).Execute(context.Background(), model.Strategy{ID: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.TotalReturn != second.TotalReturn || first.SharpeRatio != second.SharpeRatio {
		t.Fatalf("same seed should give same results: %+v vs %+v", first, second)
	}
}

func TestMockExecuteHonorsCancellation(t *testing.T) {
	m := NewMockWithSource(nil, rand.NewSource(1))
	m.delay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Execute(ctx, model.Strategy{ID: "a"}); err == nil {
		t.Fatal("expected error when context is already canceled")
	}
}
