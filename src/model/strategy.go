package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"strategystudio/src/rules"
)

type StrategyStatus string

const (
	StatusDraft      StrategyStatus = "draft"
	StatusInProgress StrategyStatus = "in_progress"
	StatusCompleted  StrategyStatus = "completed"
)

// PerformanceNA is the performance shown before a strategy has any resolved
// simulation run.
const PerformanceNA = "N/A"

// Strategy is a user-assembled trading strategy: three boolean rule trees, a
// simulation window, and the lifecycle state the simulation runs drive.
//
// JSON field names follow the rule-builder frontend's wire format (camelCase,
// trees under scannerRules/buyRules/sellRules), which also fixes the shape of
// the serialized columns.
type Strategy struct {
	ID               string             `gorm:"primaryKey;size:64" json:"id"`
	Name             string             `gorm:"size:255;not null" json:"name"`
	Description      string             `gorm:"size:512" json:"description,omitempty"`
	Status           StrategyStatus     `gorm:"size:20;not null;default:draft" json:"status"`
	LastModified     time.Time          `json:"lastModified"`
	Performance      string             `gorm:"size:32;not null;default:'N/A'" json:"performance"`
	ScannerRules     RuleTree           `gorm:"type:text" json:"scannerRules"`
	BuyRules         RuleTree           `gorm:"type:text" json:"buyRules"`
	SellRules        RuleTree           `gorm:"type:text" json:"sellRules"`
	SimulationConfig SimulationConfig   `gorm:"type:text" json:"simulationConfig"`
	Results          *SimulationResults `gorm:"type:text" json:"results,omitempty"`
}

// NewStrategy returns a draft strategy with empty rule groups and the default
// simulation window. The caller stamps ID and LastModified.
func NewStrategy(name, description string) Strategy {
	return Strategy{
		Name:             name,
		Description:      description,
		Status:           StatusDraft,
		Performance:      PerformanceNA,
		ScannerRules:     NewRuleTree(),
		BuyRules:         NewRuleTree(),
		SellRules:        NewRuleTree(),
		SimulationConfig: DefaultSimulationConfig(),
	}
}

// DeepCopy returns a strategy sharing no rule-tree or results structure with
// the receiver, so later edits to either never leak into the other.
func (s Strategy) DeepCopy() Strategy {
	copied := s
	copied.ScannerRules = s.ScannerRules.DeepCopy()
	copied.BuyRules = s.BuyRules.DeepCopy()
	copied.SellRules = s.SellRules.DeepCopy()
	if s.Results != nil {
		results := *s.Results
		results.Trades = make([]Trade, len(s.Results.Trades))
		copy(results.Trades, s.Results.Trades)
		copied.Results = &results
	}
	return copied
}

// RuleTree is a rule group root persisted as a serialized JSON column.
type RuleTree struct {
	Root *rules.Group
}

// NewRuleTree returns a tree holding an empty AND group, the state every
// category starts in.
func NewRuleTree() RuleTree {
	return RuleTree{Root: rules.NewGroup(rules.And)}
}

// Empty reports whether the tree has no children at all.
func (t RuleTree) Empty() bool {
	return t.Root == nil || len(t.Root.Children) == 0
}

// DeepCopy clones the whole tree.
func (t RuleTree) DeepCopy() RuleTree {
	if t.Root == nil {
		return NewRuleTree()
	}
	return RuleTree{Root: t.Root.CloneGroup()}
}

// Render returns the tree's human-readable expression, with the "(No rules
// defined)" placeholder for an empty tree.
func (t RuleTree) Render() string {
	if t.Root == nil {
		return rules.EmptyPlaceholder
	}
	return rules.RenderRoot(t.Root)
}

func (t RuleTree) MarshalJSON() ([]byte, error) {
	root := t.Root
	if root == nil {
		root = rules.NewGroup(rules.And)
	}
	return json.Marshal(root)
}

func (t *RuleTree) UnmarshalJSON(data []byte) error {
	root := &rules.Group{}
	if err := json.Unmarshal(data, root); err != nil {
		return err
	}
	t.Root = root
	return nil
}

func (t RuleTree) Value() (driver.Value, error) {
	raw, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (t *RuleTree) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = NewRuleTree()
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into RuleTree", src)
	}
}

// Touch stamps a new last-modified time; every mutation goes through it.
func (s *Strategy) Touch(now time.Time) {
	s.LastModified = now
}
