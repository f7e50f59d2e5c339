package rules

import (
	"fmt"
	"strconv"

	"strategystudio/src/catalog"
)

// SetField returns a new leaf with the field set and operator, value and
// period cleared. A field change never carries a stale operator/value pair
// over; the period is re-seeded from the new field's catalog default when the
// field declares one.
func SetField(leaf *Leaf, field string) *Leaf {
	next := &Leaf{Field: field}
	if def, ok := catalog.PeriodDefaultFor(field); ok {
		next.Period = def
	}
	return next
}

// SetOperator returns a new leaf with the operator set; value and period are
// untouched.
func SetOperator(leaf *Leaf, operator string) *Leaf {
	next := *leaf
	next.Operator = operator
	return &next
}

// SetValue returns a new leaf with the value set.
func SetValue(leaf *Leaf, value string) *Leaf {
	next := *leaf
	next.Value = value
	return &next
}

// SetPeriod returns a new leaf with the period parsed from raw. Non-numeric
// or non-positive input clears the period rather than failing; a half-typed
// period box is not an error.
func SetPeriod(leaf *Leaf, raw string) *Leaf {
	next := *leaf
	period, err := strconv.Atoi(raw)
	if err != nil || period <= 0 {
		next.Period = 0
	} else {
		next.Period = period
	}
	return &next
}

// SetGroupOperator returns a new group with the boolean operator changed and
// the same children. AND and OR both accept arbitrary children, so no child
// re-validation happens here.
func SetGroupOperator(group *Group, op BoolOperator) *Group {
	return &Group{Operator: op, Children: group.Children}
}

// AppendChild returns a new group with node appended to the end of the
// children.
func AppendChild(group *Group, node Node) *Group {
	children := make([]Node, 0, len(group.Children)+1)
	children = append(children, group.Children...)
	children = append(children, node)
	return &Group{Operator: group.Operator, Children: children}
}

// ReplaceChildAt returns a new group with the child at index replaced. The
// index always originates from an enumerated render of the existing children,
// so an out-of-range index is a programmer error and panics.
func ReplaceChildAt(group *Group, index int, node Node) *Group {
	if index < 0 || index >= len(group.Children) {
		panic(fmt.Sprintf("rules: replace index %d out of range for group with %d children", index, len(group.Children)))
	}
	children := make([]Node, len(group.Children))
	copy(children, group.Children)
	children[index] = node
	return &Group{Operator: group.Operator, Children: children}
}

// RemoveChildAt returns a new group with the child at index removed. Removing
// the last remaining child yields an empty group; the group itself always
// survives, only its parent may remove it.
func RemoveChildAt(group *Group, index int) *Group {
	if index < 0 || index >= len(group.Children) {
		panic(fmt.Sprintf("rules: remove index %d out of range for group with %d children", index, len(group.Children)))
	}
	children := make([]Node, 0, len(group.Children)-1)
	children = append(children, group.Children[:index]...)
	children = append(children, group.Children[index+1:]...)
	return &Group{Operator: group.Operator, Children: children}
}
