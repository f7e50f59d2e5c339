package connectors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"strategystudio/src/model"
)

func TestBacktestClientExecute(t *testing.T) {
	var gotPath string
	var gotSnapshot model.Strategy

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotSnapshot); err != nil {
			t.Fatalf("failed to decode snapshot: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.SimulationResults{
			TotalReturn:      "7.2%",
			AnnualizedReturn: "5.1%",
			MaxDrawdown:      "-9.8%",
			SharpeRatio:      "1.4",
		})
	}))
	defer server.Close()

	client := NewBacktestClient(server.URL, 5*time.Second)

	strat := model.NewStrategy("Remote Run", "")
	strat.ID = "r-1"

	results, err := client.Execute(context.Background(), strat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/backtest" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotSnapshot.ID != "r-1" {
		t.Fatalf("snapshot did not round trip: %+v", gotSnapshot)
	}
	if results.TotalReturn != "7.2%" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestBacktestClientExecuteNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no data for window", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewBacktestClient(server.URL, 5*time.Second)

	if _, err := client.Execute(context.Background(), model.Strategy{ID: "r-2"}); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
