package rules

import (
	"fmt"
	"strings"
)

// EmptyPlaceholder is shown for a top-level tree that renders to nothing.
const EmptyPlaceholder = "(No rules defined)"

var operatorLabels = map[string]string{
	"equals":              "=",
	"not_equals":          "≠",
	"greater_than":        ">",
	"less_than":           "<",
	"greater_than_equals": "≥",
	"less_than_equals":    "≤",
	"top_percent":         "is among top",
	"bottom_percent":      "is among bottom",
}

// Render serializes a node into a human-readable boolean expression. The
// output depends only on the node's own data: the same tree always renders to
// the same string, and the tree is never modified.
//
// Incomplete leaves (field or operator unset) render as the empty string, and
// a group drops empty child contributions before joining the rest with its
// boolean operator. A group whose every child rendered empty renders empty
// itself; use RenderRoot for top-level display.
func Render(node Node) string {
	switch n := node.(type) {
	case *Leaf:
		return renderLeaf(n)
	case *Group:
		return renderGroup(n)
	default:
		return ""
	}
}

// RenderRoot renders a root group, substituting the placeholder when the tree
// contributes nothing, so the top-level output is never a blank string.
func RenderRoot(group *Group) string {
	if rendered := renderGroup(group); rendered != "" {
		return rendered
	}
	return EmptyPlaceholder
}

func renderGroup(group *Group) string {
	parts := make([]string, 0, len(group.Children))
	for _, child := range group.Children {
		if rendered := Render(child); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " "+string(group.Operator)+" ") + ")"
}

func renderLeaf(leaf *Leaf) string {
	if leaf.Field == "" || leaf.Operator == "" {
		return ""
	}

	fieldLabel := strings.ReplaceAll(leaf.Field, "_", " ")
	value := leaf.Value

	operatorLabel, ok := operatorLabels[leaf.Operator]
	if !ok {
		operatorLabel = strings.ReplaceAll(leaf.Operator, "_", " ")
	}
	if leaf.Operator == "top_percent" || leaf.Operator == "bottom_percent" {
		value += "%"
	}

	if leaf.Period > 0 {
		switch leaf.Field {
		case "price_growth":
			fieldLabel = fmt.Sprintf("last %d days price growth", leaf.Period)
		case "moving_average":
			fieldLabel = fmt.Sprintf("last %d day moving average", leaf.Period)
		case "avg_daily_transaction":
			fieldLabel = fmt.Sprintf("%d day average daily transaction value", leaf.Period)
		}
	}

	return fmt.Sprintf("%s %s %s", fieldLabel, operatorLabel, value)
}
