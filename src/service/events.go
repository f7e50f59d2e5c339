package service

import (
	"sync"
	"time"

	"strategystudio/src/model"
)

const (
	EventStatusChanged    = "status_changed"
	EventSimulationFailed = "simulation_failed"
	EventDeleted          = "deleted"
)

// Event announces a strategy lifecycle change to watching surfaces (the
// websocket endpoint, primarily).
type Event struct {
	Type        string               `json:"type"`
	StrategyID  string               `json:"strategyId"`
	Status      model.StrategyStatus `json:"status,omitempty"`
	Performance string               `json:"performance,omitempty"`
	At          time.Time            `json:"at"`
}

// EventHub fans lifecycle events out to subscribers. Publishing never blocks:
// a subscriber that falls behind loses events rather than stalling the
// service.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of events and a cancel function. The channel is
// closed on cancel.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer room.
func (h *EventHub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
