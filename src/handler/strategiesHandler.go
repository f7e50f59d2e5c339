package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"strategystudio/src/model"
	"strategystudio/src/service"
)

// strategyManager is the slice of the lifecycle service the strategy
// endpoints need.
type strategyManager interface {
	List() []model.Strategy
	Get(id string) (model.Strategy, error)
	Create(ctx context.Context, name, description string) (model.Strategy, error)
	Update(ctx context.Context, id string, fields service.UpdateFields) (model.Strategy, error)
	Delete(ctx context.Context, id string) error
	Copy(ctx context.Context, id string) (model.Strategy, error)
	Submit(ctx context.Context, id string, fields service.UpdateFields) (model.Strategy, error)
}

// strategyUpdateRequest is a partial update body; absent fields stay
// untouched.
type strategyUpdateRequest struct {
	Name             *string                 `json:"name"`
	Description      *string                 `json:"description"`
	ScannerRules     *model.RuleTree         `json:"scannerRules"`
	BuyRules         *model.RuleTree         `json:"buyRules"`
	SellRules        *model.RuleTree         `json:"sellRules"`
	SimulationConfig *model.SimulationConfig `json:"simulationConfig"`
}

func (r strategyUpdateRequest) fields() service.UpdateFields {
	return service.UpdateFields{
		Name:             r.Name,
		Description:      r.Description,
		ScannerRules:     r.ScannerRules,
		BuyRules:         r.BuyRules,
		SellRules:        r.SellRules,
		SimulationConfig: r.SimulationConfig,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// ListStrategiesHandler returns the whole collection.
func ListStrategiesHandler(manager strategyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, manager.List())
	}
}

// GetStrategyHandler returns one strategy by id.
func GetStrategyHandler(manager strategyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		strat, err := manager.Get(chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				http.Error(w, "strategy not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to get strategy")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, strat)
	}
}

// CreateStrategyHandler adds a new draft strategy.
func CreateStrategyHandler(manager strategyManager) http.HandlerFunc {
	type createRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		strat, err := manager.Create(r.Context(), req.Name, req.Description)
		if err != nil {
			logger.WithError(err).Error("failed to create strategy")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, strat)
	}
}

// UpdateStrategyHandler merges a partial update into a strategy.
func UpdateStrategyHandler(manager strategyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req strategyUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		strat, err := manager.Update(r.Context(), chi.URLParam(r, "id"), req.fields())
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				http.Error(w, "strategy not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to update strategy")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, strat)
	}
}

// DeleteStrategyHandler removes a strategy; deleting an unknown id succeeds.
func DeleteStrategyHandler(manager strategyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			logger.WithError(err).Error("failed to delete strategy")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CopyStrategyHandler duplicates a strategy as a new draft.
func CopyStrategyHandler(manager strategyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		strat, err := manager.Copy(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				http.Error(w, "strategy not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to copy strategy")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, strat)
	}
}

// SubmitSimulationHandler merges an optional partial update, validates and
// dispatches the simulation. Validation failures come back as 422 with the
// section to surface; a strategy already running comes back as 409.
func SubmitSimulationHandler(manager strategyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req strategyUpdateRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
		}

		strat, err := manager.Submit(r.Context(), chi.URLParam(r, "id"), req.fields())
		if err != nil {
			var issue *service.ValidationIssue
			switch {
			case errors.Is(err, service.ErrNotFound):
				http.Error(w, "strategy not found", http.StatusNotFound)
			case errors.Is(err, service.ErrSimulationRunning):
				http.Error(w, "simulation already in progress", http.StatusConflict)
			case errors.As(err, &issue):
				writeJSON(w, http.StatusUnprocessableEntity, issue)
			default:
				logger.WithError(err).Error("failed to submit simulation")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusAccepted, strat)
	}
}
