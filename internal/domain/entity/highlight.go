package entity

import "fmt"

// HighlightState maps instance names to whether their box is highlighted.
type HighlightState map[string]bool

// NewHighlightState returns a state with every instance of label set to false.
func NewHighlightState(label *CatLabel) HighlightState {
	names := label.InstanceNames()
	states := make(HighlightState, len(names))
	for _, name := range names {
		states[name] = false
	}
	return states
}

// Lookup returns the flag for name. A missing name is a caller bug and yields ErrMissingHighlightKey.
func (h HighlightState) Lookup(name string) (bool, error) {
	v, ok := h[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMissingHighlightKey, name)
	}
	return v, nil
}

// Clone returns a copy of the state.
func (h HighlightState) Clone() HighlightState {
	c := make(HighlightState, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}
