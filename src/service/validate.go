package service

import (
	"strings"
	"time"

	"strategystudio/src/model"
)

// Section names the editing tab a validation failure should surface on.
type Section string

const (
	SectionGeneral    Section = "general"
	SectionScanner    Section = "scanner"
	SectionBuy        Section = "buy"
	SectionSell       Section = "sell"
	SectionSimulation Section = "simulation"
)

// ValidationIssue is a user-correctable reason a strategy cannot be submitted
// for simulation, plus the section where the user can fix it. It implements
// error so Submit can refuse with it, but it is a normal returned value, not
// a fault.
type ValidationIssue struct {
	Section Section `json:"section"`
	Message string  `json:"message"`
}

func (e *ValidationIssue) Error() string {
	return e.Message
}

const dateLayout = "2006-01-02"

// Validate checks a strategy against the submission requirements. It returns
// the first failing check or nil; checks run in tab order so the surfaced
// section matches what the user sees first.
func Validate(s model.Strategy) *ValidationIssue {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationIssue{Section: SectionGeneral, Message: "Strategy name is required"}
	}
	if s.ScannerRules.Empty() {
		return &ValidationIssue{Section: SectionScanner, Message: "Scanner rules are required"}
	}
	if s.BuyRules.Empty() {
		return &ValidationIssue{Section: SectionBuy, Message: "Buy rules are required"}
	}
	if s.SellRules.Empty() {
		return &ValidationIssue{Section: SectionSell, Message: "Sell rules are required"}
	}

	config := s.SimulationConfig
	if config.StartMargin <= 0 {
		return &ValidationIssue{Section: SectionSimulation, Message: "Start margin must be greater than 0"}
	}
	if config.StartDate == "" || config.EndDate == "" {
		return &ValidationIssue{Section: SectionSimulation, Message: "Simulation start and end dates are required"}
	}
	start, startErr := time.Parse(dateLayout, config.StartDate)
	end, endErr := time.Parse(dateLayout, config.EndDate)
	if startErr != nil || endErr != nil || !end.After(start) {
		return &ValidationIssue{Section: SectionSimulation, Message: "End date must be after start date"}
	}
	if config.MaxPositions <= 0 {
		return &ValidationIssue{Section: SectionSimulation, Message: "Maximum positions must be greater than 0"}
	}
	if config.MaxPositionsPerInstrument <= 0 {
		return &ValidationIssue{Section: SectionSimulation, Message: "Maximum positions per instrument must be greater than 0"}
	}

	return nil
}
