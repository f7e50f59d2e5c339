package rules

import (
	"reflect"
	"testing"
)

func TestSetFieldClearsStaleState(t *testing.T) {
	leaf := &Leaf{Field: "moving_average", Operator: "greater_than", Value: "50", Period: 30}

	next := SetField(leaf, "volume")

	if next.Field != "volume" {
		t.Fatalf("expected field volume, got %q", next.Field)
	}
	if next.Operator != "" || next.Value != "" || next.Period != 0 {
		t.Fatalf("expected operator/value/period cleared, got %+v", next)
	}
	// input leaf untouched
	if leaf.Operator != "greater_than" || leaf.Period != 30 {
		t.Fatalf("input leaf was mutated: %+v", leaf)
	}
}

func TestSetFieldSeedsPeriodDefault(t *testing.T) {
	tests := []struct {
		field      string
		wantPeriod int
	}{
		{field: "price_growth", wantPeriod: 300},
		{field: "moving_average", wantPeriod: 30},
		{field: "avg_daily_transaction", wantPeriod: 90},
		{field: "volume", wantPeriod: 0},
		{field: "take_profit", wantPeriod: 0},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			next := SetField(NewLeaf(), tt.field)
			if next.Period != tt.wantPeriod {
				t.Fatalf("expected period %d, got %d", tt.wantPeriod, next.Period)
			}
		})
	}
}

func TestLeafFieldUnsetImpliesOperatorUnset(t *testing.T) {
	// The only way to set an operator is SetOperator on an existing leaf, and
	// SetField always clears it, so a field reset can never leave one behind.
	leaf := SetValue(SetOperator(SetField(NewLeaf(), "rsi"), "less_than"), "30")
	cleared := SetField(leaf, "")

	if cleared.Field != "" || cleared.Operator != "" || cleared.Value != "" {
		t.Fatalf("expected fully unset leaf, got %+v", cleared)
	}
}

func TestSetPeriod(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "numeric input", raw: "45", want: 45},
		{name: "non-numeric input clears", raw: "abc", want: 0},
		{name: "empty input clears", raw: "", want: 0},
		{name: "negative input clears", raw: "-3", want: 0},
	}

	leaf := SetField(NewLeaf(), "moving_average")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := SetPeriod(leaf, tt.raw)
			if next.Period != tt.want {
				t.Fatalf("expected period %d, got %d", tt.want, next.Period)
			}
		})
	}
}

func TestSetOperatorLeavesValueAndPeriod(t *testing.T) {
	leaf := &Leaf{Field: "price_growth", Value: "10", Period: 300}
	next := SetOperator(leaf, "greater_than")

	if next.Operator != "greater_than" || next.Value != "10" || next.Period != 300 {
		t.Fatalf("unexpected leaf after SetOperator: %+v", next)
	}
}

func TestSetGroupOperator(t *testing.T) {
	group := AppendChild(NewGroup(And), &Leaf{Field: "price", Operator: "greater_than", Value: "100"})
	next := SetGroupOperator(group, Or)

	if next.Operator != Or {
		t.Fatalf("expected OR, got %s", next.Operator)
	}
	if len(next.Children) != 1 || group.Operator != And {
		t.Fatalf("children or input group disturbed: %+v / %+v", next, group)
	}
}

func TestAppendRemoveRoundTrip(t *testing.T) {
	base := AppendChild(NewGroup(And), &Leaf{Field: "price", Operator: "greater_than", Value: "100"})

	extra := &Leaf{Field: "volume", Operator: "greater_than", Value: "1000"}
	grown := AppendChild(base, extra)
	restored := RemoveChildAt(grown, len(grown.Children)-1)

	if !reflect.DeepEqual(base, restored) {
		t.Fatalf("append/remove round trip changed the group:\nbase:     %+v\nrestored: %+v", base, restored)
	}
}

func TestRemoveLastChildYieldsEmptyGroup(t *testing.T) {
	group := AppendChild(NewGroup(Or), NewLeaf())
	emptied := RemoveChildAt(group, 0)

	if emptied == nil {
		t.Fatal("group must survive removal of its last child")
	}
	if len(emptied.Children) != 0 {
		t.Fatalf("expected empty group, got %d children", len(emptied.Children))
	}
	if emptied.Operator != Or {
		t.Fatalf("operator changed on removal: %s", emptied.Operator)
	}
}

func TestReplaceChildAt(t *testing.T) {
	first := &Leaf{Field: "price", Operator: "greater_than", Value: "100"}
	second := &Leaf{Field: "volume", Operator: "greater_than", Value: "1000"}
	group := AppendChild(AppendChild(NewGroup(And), first), second)

	replacement := &Leaf{Field: "rsi", Operator: "less_than", Value: "30"}
	next := ReplaceChildAt(group, 1, replacement)

	if next.Children[1] != Node(replacement) {
		t.Fatal("child at index 1 not replaced")
	}
	if group.Children[1] != Node(second) {
		t.Fatal("input group was mutated")
	}
}

func TestReplaceChildAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range replace")
		}
	}()
	ReplaceChildAt(NewGroup(And), 0, NewLeaf())
}

func TestRemoveChildAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range remove")
		}
	}()
	RemoveChildAt(AppendChild(NewGroup(And), NewLeaf()), 1)
}

func TestPathCopyNestedEdit(t *testing.T) {
	inner := AppendChild(NewGroup(Or), &Leaf{Field: "rsi", Operator: "less_than", Value: "30"})
	root := AppendChild(AppendChild(NewGroup(And), &Leaf{Field: "price", Operator: "greater_than", Value: "100"}), inner)

	// Edit the nested leaf by rebuilding ancestors from the root down.
	editedLeaf := SetValue(inner.Children[0].(*Leaf), "25")
	editedInner := ReplaceChildAt(inner, 0, editedLeaf)
	editedRoot := ReplaceChildAt(root, 1, editedInner)

	if editedRoot.Children[1].(*Group).Children[0].(*Leaf).Value != "25" {
		t.Fatal("nested edit not visible from new root")
	}
	if root.Children[1].(*Group).Children[0].(*Leaf).Value != "30" {
		t.Fatal("original tree was disturbed by nested edit")
	}
	// Untouched sibling subtree is shared, not copied.
	if root.Children[0] != editedRoot.Children[0] {
		t.Fatal("untouched sibling should be structurally shared")
	}
}

func TestCloneIsolation(t *testing.T) {
	inner := AppendChild(NewGroup(Or), &Leaf{Field: "rsi", Operator: "less_than", Value: "30"})
	root := AppendChild(NewGroup(And), inner)

	cloned := root.CloneGroup()
	cloned.Children[0].(*Group).Children[0].(*Leaf).Value = "99"

	if root.Children[0].(*Group).Children[0].(*Leaf).Value != "30" {
		t.Fatal("clone shares structure with the source")
	}
}
