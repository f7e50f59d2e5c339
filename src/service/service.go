// Package service owns the strategy collection and its lifecycle state
// machine. All reads and writes go through StrategyService so the persistence
// side effect and last-modified stamping stay in one place.
//
// Lifecycle: draft -> in_progress (submit) -> completed (executor resolves),
// and completed -> in_progress on re-submission. A strategy already
// in_progress refuses a second submission, which is the at-most-one-in-flight
// guarantee. An executor that fails or never resolves leaves the strategy
// in_progress; that gap is deliberate, the source behavior defines no retry,
// timeout or rollback path.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"strategystudio/src/model"
)

var (
	// ErrNotFound means no strategy exists under the given id.
	ErrNotFound = errors.New("strategy not found")
	// ErrSimulationRunning refuses a submission while a run is in flight.
	ErrSimulationRunning = errors.New("simulation already in progress for this strategy")
)

// Repository is the opaque persistence capability: Save writes the whole
// collection after every mutation, Load returns the most recently saved one.
type Repository interface {
	Load(ctx context.Context) ([]model.Strategy, error)
	Save(ctx context.Context, strategies []model.Strategy) error
}

// Executor computes simulation results for a strategy snapshot. It is a black
// box: it either resolves with results or fails.
type Executor interface {
	Execute(ctx context.Context, strat model.Strategy) (*model.SimulationResults, error)
}

// UpdateFields is a partial strategy update; nil fields are left untouched.
// The id is never updatable.
type UpdateFields struct {
	Name             *string
	Description      *string
	ScannerRules     *model.RuleTree
	BuyRules         *model.RuleTree
	SellRules        *model.RuleTree
	SimulationConfig *model.SimulationConfig
}

func (f UpdateFields) apply(s *model.Strategy) {
	if f.Name != nil {
		s.Name = *f.Name
	}
	if f.Description != nil {
		s.Description = *f.Description
	}
	if f.ScannerRules != nil {
		s.ScannerRules = *f.ScannerRules
	}
	if f.BuyRules != nil {
		s.BuyRules = *f.BuyRules
	}
	if f.SellRules != nil {
		s.SellRules = *f.SellRules
	}
	if f.SimulationConfig != nil {
		s.SimulationConfig = *f.SimulationConfig
	}
}

// StrategyService is the single source of truth for strategy state.
type StrategyService struct {
	logger   *logrus.Entry
	repo     Repository
	executor Executor
	hub      *EventHub
	now      func() time.Time
	newID    func() string

	mu         sync.Mutex
	strategies []model.Strategy
}

// NewStrategyService loads the saved collection and seeds the demo strategies
// when the store is empty (first start).
func NewStrategyService(ctx context.Context, logger *logrus.Entry, repo Repository, executor Executor) (*StrategyService, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &StrategyService{
		logger:   logger,
		repo:     repo,
		executor: executor,
		hub:      NewEventHub(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load strategy collection: %w", err)
	}

	if len(loaded) == 0 {
		loaded = seedStrategies()
		if err := repo.Save(ctx, loaded); err != nil {
			return nil, fmt.Errorf("failed to persist seed strategies: %w", err)
		}
		logger.WithField("count", len(loaded)).Info("seeded demo strategies")
	}

	s.strategies = loaded
	return s, nil
}

// Events exposes the lifecycle event hub.
func (s *StrategyService) Events() *EventHub {
	return s.hub
}

// List returns a snapshot of the collection. Copies are deep, callers can
// never alias the service's trees.
func (s *StrategyService) List() []model.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Strategy, len(s.strategies))
	for i := range s.strategies {
		out[i] = s.strategies[i].DeepCopy()
	}
	return out
}

// Get returns a deep copy of one strategy.
func (s *StrategyService) Get(id string) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Strategy{}, ErrNotFound
	}
	return s.strategies[idx].DeepCopy(), nil
}

// Create adds a new draft strategy with empty rule groups and the default
// simulation config.
func (s *StrategyService) Create(ctx context.Context, name, description string) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	strat := model.NewStrategy(name, description)
	strat.ID = s.newID()
	strat.Touch(s.now())

	next := append(s.copyCollection(), strat)
	if err := s.persist(ctx, next); err != nil {
		return model.Strategy{}, err
	}

	s.logger.WithFields(logrus.Fields{"strategy_id": strat.ID, "name": strat.Name}).Info("strategy created")
	return strat.DeepCopy(), nil
}

// Update merges the given fields into the strategy and stamps a new
// last-modified time.
func (s *StrategyService) Update(ctx context.Context, id string, fields UpdateFields) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Strategy{}, ErrNotFound
	}

	next := s.copyCollection()
	fields.apply(&next[idx])
	next[idx].Touch(s.now())

	if err := s.persist(ctx, next); err != nil {
		return model.Strategy{}, err
	}

	return next[idx].DeepCopy(), nil
}

// Delete removes the strategy. Deleting an unknown id is a no-op, repeated
// deletes are not an error.
func (s *StrategyService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := s.copyCollection()
	next = append(next[:idx], next[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.hub.Publish(Event{Type: EventDeleted, StrategyID: id, At: s.now()})
	s.logger.WithField("strategy_id", id).Info("strategy deleted")
	return nil
}

// Copy duplicates a strategy under a fresh id: name suffixed " (Copy)",
// status forced back to draft, performance reset and prior results stripped.
// The rule trees and config are deep-copied, later edits to either strategy
// never affect the other.
func (s *StrategyService) Copy(ctx context.Context, id string) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Strategy{}, ErrNotFound
	}

	copied := s.strategies[idx].DeepCopy()
	copied.ID = s.newID()
	copied.Name = s.strategies[idx].Name + " (Copy)"
	copied.Status = model.StatusDraft
	copied.Performance = model.PerformanceNA
	copied.Results = nil
	copied.Touch(s.now())

	next := append(s.copyCollection(), copied)
	if err := s.persist(ctx, next); err != nil {
		return model.Strategy{}, err
	}

	s.logger.WithFields(logrus.Fields{"source_id": id, "strategy_id": copied.ID}).Info("strategy copied")
	return copied.DeepCopy(), nil
}

// Submit merges the given fields, validates the merged strategy, flips it to
// in_progress and dispatches the simulation executor. The merge, validation
// and status flip commit together: a strategy that fails validation is not
// persisted at all.
//
// The flip is synchronous; the executor runs on its own goroutine and the
// eventual resolution arrives through resolveSimulation. Submit never blocks
// on the executor.
func (s *StrategyService) Submit(ctx context.Context, id string, fields UpdateFields) (model.Strategy, error) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Strategy{}, ErrNotFound
	}

	if s.strategies[idx].Status == model.StatusInProgress {
		s.mu.Unlock()
		return model.Strategy{}, ErrSimulationRunning
	}

	next := s.copyCollection()
	fields.apply(&next[idx])

	if issue := Validate(next[idx]); issue != nil {
		s.mu.Unlock()
		return model.Strategy{}, issue
	}

	next[idx].Status = model.StatusInProgress
	next[idx].Touch(s.now())

	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return model.Strategy{}, err
	}

	snapshot := next[idx].DeepCopy()
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventStatusChanged, StrategyID: id, Status: model.StatusInProgress, At: snapshot.LastModified})
	s.logger.WithField("strategy_id", id).Info("simulation submitted")

	// Fire and forget. There is no cancellation primitive once dispatched;
	// the run is correlated back by strategy id.
	go s.runSimulation(snapshot)

	return snapshot, nil
}

func (s *StrategyService) runSimulation(snapshot model.Strategy) {
	results, err := s.executor.Execute(context.Background(), snapshot)
	if err != nil {
		// The strategy stays in_progress: no rollback, no retry. See the
		// package comment.
		s.logger.WithError(err).WithField("strategy_id", snapshot.ID).Error("simulation failed")
		s.hub.Publish(Event{Type: EventSimulationFailed, StrategyID: snapshot.ID, Status: model.StatusInProgress, At: s.now()})
		return
	}
	s.resolveSimulation(snapshot.ID, results)
}

func (s *StrategyService) resolveSimulation(id string, results *model.SimulationResults) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.WithField("strategy_id", id).Warn("simulation resolved for a deleted strategy, dropping results")
		return
	}

	next := s.copyCollection()
	next[idx].Status = model.StatusCompleted
	next[idx].Performance = model.FormatPerformance(results.TotalReturn)
	next[idx].Results = results
	next[idx].Touch(s.now())

	if err := s.persist(context.Background(), next); err != nil {
		s.mu.Unlock()
		s.logger.WithError(err).WithField("strategy_id", id).Error("failed to persist simulation results")
		return
	}

	performance := next[idx].Performance
	at := next[idx].LastModified
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventStatusChanged, StrategyID: id, Status: model.StatusCompleted, Performance: performance, At: at})
	s.logger.WithFields(logrus.Fields{"strategy_id": id, "performance": performance}).Info("simulation completed")
}

// indexOf must be called with the lock held.
func (s *StrategyService) indexOf(id string) int {
	for i := range s.strategies {
		if s.strategies[i].ID == id {
			return i
		}
	}
	return -1
}

// copyCollection returns a shallow copy of the collection slice. Element
// structs are copied by value; rule trees stay shared until an operation
// replaces them wholesale, which is the persistent-update discipline the rule
// package guarantees.
func (s *StrategyService) copyCollection() []model.Strategy {
	next := make([]model.Strategy, len(s.strategies))
	copy(next, s.strategies)
	return next
}

// persist saves the candidate collection and commits it in memory only on
// success. Must be called with the lock held.
func (s *StrategyService) persist(ctx context.Context, next []model.Strategy) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist strategy collection: %w", err)
	}
	s.strategies = next
	return nil
}
