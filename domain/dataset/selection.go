package dataset

import "datagraph/domain/core"

// SelectionState describes how many axes of a chart currently hold a variable
type SelectionState string

const (
	NoSelection      SelectionState = "no_selection"
	PartialSelection SelectionState = "partial_selection"
	FullSelection    SelectionState = "full_selection"
)

// AxisSelection is the pair of variables currently assigned to the X and Y
// roles of a chart. A nil axis is unassigned.
type AxisSelection struct {
	X *core.VariableKey `json:"x"`
	Y *core.VariableKey `json:"y"`
}

// NewAxisSelection builds a full selection from two keys
func NewAxisSelection(x, y core.VariableKey) AxisSelection {
	return AxisSelection{X: &x, Y: &y}
}

// With returns a copy with key assigned to axis
func (s AxisSelection) With(axis core.Axis, key core.VariableKey) AxisSelection {
	switch axis {
	case core.AxisX:
		s.X = &key
	case core.AxisY:
		s.Y = &key
	}
	return s
}

// Without returns a copy with axis unassigned
func (s AxisSelection) Without(axis core.Axis) AxisSelection {
	switch axis {
	case core.AxisX:
		s.X = nil
	case core.AxisY:
		s.Y = nil
	}
	return s
}

// State classifies the selection
func (s AxisSelection) State() SelectionState {
	switch {
	case s.X != nil && s.Y != nil:
		return FullSelection
	case s.X != nil || s.Y != nil:
		return PartialSelection
	}
	return NoSelection
}

// Complete returns both keys when both axes are assigned
func (s AxisSelection) Complete() (x, y core.VariableKey, ok bool) {
	if s.X == nil || s.Y == nil {
		return "", "", false
	}
	return *s.X, *s.Y, true
}

// Equal compares by key value, not pointer identity
func (s AxisSelection) Equal(o AxisSelection) bool {
	return keyEqual(s.X, o.X) && keyEqual(s.Y, o.Y)
}

// Title returns the axis label a renderer should display
func (s AxisSelection) Title(axis core.Axis) string {
	var key *core.VariableKey
	fallback := "X-Axis"
	if axis == core.AxisY {
		key = s.Y
		fallback = "Y-Axis"
	} else {
		key = s.X
	}
	if key == nil {
		return fallback
	}
	return key.String()
}

func keyEqual(a, b *core.VariableKey) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
