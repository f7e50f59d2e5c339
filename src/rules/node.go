// Package rules implements the recursive rule-group model behind the strategy
// builder: a tree of AND/OR groups and leaf predicates, pure (copy-on-write)
// mutation operations over it, and a deterministic human-readable renderer.
//
// Nothing in this package mutates a node in place. Every operation returns a
// new node, so the owning collection can publish an edited tree as a single
// atomic replace and readers never observe partial state.
package rules

import (
	"encoding/json"
	"fmt"
)

// BoolOperator combines a group's children.
type BoolOperator string

const (
	And BoolOperator = "AND"
	Or  BoolOperator = "OR"
)

// Node is the closed union of the two tree variants: *Leaf and *Group.
type Node interface {
	// Clone returns a deep copy sharing no structure with the receiver.
	Clone() Node

	isNode()
}

// Leaf is a single field/operator/value predicate, optionally qualified by an
// integer period. An empty string means unset; Period 0 means unset. A leaf is
// complete only when field, operator and value are all set.
type Leaf struct {
	Field    string
	Operator string
	Value    string
	Period   int
}

// Group combines an ordered list of child nodes with AND or OR. An empty group
// is legal and represents "no constraint".
type Group struct {
	Operator BoolOperator
	Children []Node
}

// NewLeaf returns an empty leaf predicate.
func NewLeaf() *Leaf {
	return &Leaf{}
}

// NewGroup returns an empty group. An empty operator defaults to AND.
func NewGroup(op BoolOperator) *Group {
	if op == "" {
		op = And
	}
	return &Group{Operator: op}
}

func (l *Leaf) isNode()  {}
func (g *Group) isNode() {}

// Complete reports whether the leaf has field, operator and value all set.
// Incomplete leaves are excluded from rendering and block submission.
func (l *Leaf) Complete() bool {
	return l.Field != "" && l.Operator != "" && l.Value != ""
}

// Clone returns a copy of the leaf.
func (l *Leaf) Clone() Node {
	copied := *l
	return &copied
}

// Clone returns a deep copy of the group and every descendant.
func (g *Group) Clone() Node {
	return g.CloneGroup()
}

// CloneGroup is Clone with a concrete return type, for callers that hold a
// group root and need one back.
func (g *Group) CloneGroup() *Group {
	copied := &Group{Operator: g.Operator}
	if g.Children != nil {
		copied.Children = make([]Node, len(g.Children))
		for i, child := range g.Children {
			copied.Children[i] = child.Clone()
		}
	}
	return copied
}

// Wire format shared with the original rule-builder frontend: leaves carry
// type "rule", groups carry type "group" and their children under "rules".
type nodeJSON struct {
	Type     string            `json:"type"`
	Field    string            `json:"field,omitempty"`
	Operator string            `json:"operator,omitempty"`
	Value    string            `json:"value,omitempty"`
	Period   int               `json:"period,omitempty"`
	Rules    []json.RawMessage `json:"rules,omitempty"`
}

// MarshalJSON encodes the leaf in the rule-builder wire format.
func (l *Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		Type:     "rule",
		Field:    l.Field,
		Operator: l.Operator,
		Value:    l.Value,
		Period:   l.Period,
	})
}

// MarshalJSON encodes the group and its children recursively.
func (g *Group) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, 0, len(g.Children))
	for _, child := range g.Children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		children = append(children, raw)
	}
	return json.Marshal(struct {
		Type     string            `json:"type"`
		Operator BoolOperator      `json:"operator"`
		Rules    []json.RawMessage `json:"rules"`
	}{Type: "group", Operator: g.Operator, Rules: children})
}

// UnmarshalJSON decodes a group and its whole subtree.
func (g *Group) UnmarshalJSON(data []byte) error {
	node, err := decodeNode(data)
	if err != nil {
		return err
	}
	group, ok := node.(*Group)
	if !ok {
		return fmt.Errorf("expected a group node at the root, got a rule")
	}
	*g = *group
	return nil
}

func decodeNode(data []byte) (Node, error) {
	var envelope nodeJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode rule node: %w", err)
	}

	switch envelope.Type {
	case "group":
		op := BoolOperator(envelope.Operator)
		if op != And && op != Or {
			op = And
		}
		group := &Group{Operator: op, Children: make([]Node, 0, len(envelope.Rules))}
		for _, raw := range envelope.Rules {
			child, err := decodeNode(raw)
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, child)
		}
		return group, nil
	case "rule", "":
		// The original builder creates bare {type:"rule"} leaves; tolerate a
		// missing type the same way.
		return &Leaf{
			Field:    envelope.Field,
			Operator: envelope.Operator,
			Value:    envelope.Value,
			Period:   envelope.Period,
		}, nil
	default:
		return nil, fmt.Errorf("unknown rule node type %q", envelope.Type)
	}
}
