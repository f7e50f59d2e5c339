// REST client for an external backtest service. The service accepts a
// strategy snapshot and computes the simulation results; from this side it is
// a black box that either resolves with a result payload or fails.
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"strategystudio/src/model"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
)

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

type BacktestClient struct {
	baseURL string
	http    *resty.Client
}

func NewBacktestClient(baseURL string, timeout time.Duration) *BacktestClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &BacktestClient{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// Execute posts the strategy snapshot to the backtest service and decodes the
// result payload. Any transport error or non-2xx response is a failed
// simulation; the caller decides what to do with the strategy's status.
func (c *BacktestClient) Execute(ctx context.Context, strat model.Strategy) (*model.SimulationResults, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(strat).
		Post("/api/v1/backtest")

	if err != nil {
		logger.WithError(err).WithField("strategy_id", strat.ID).Error("backtest request failed")
		return nil, fmt.Errorf("backtest request failed: %w", err)
	}

	if resp.StatusCode()/100 != 2 {
		logger.WithFields(logger.Fields{
			"strategy_id": strat.ID,
			"status_code": resp.StatusCode(),
		}).Error("backtest service returned non-2xx")
		return nil, fmt.Errorf("backtest service returned status %d", resp.StatusCode())
	}

	var results model.SimulationResults
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, fmt.Errorf("failed to decode backtest results: %w", err)
	}

	return &results, nil
}
