package engine

import "fmt"

// MoleculeState is the molecule carried during a traversal.
// Counts tracks hits per reaction kind; the kinds never share a counter.
type MoleculeState struct {
	Species    Species              `json:"species"`
	Protection Protection           `json:"protection"`
	Counts     map[ReactionKind]int `json:"counts"`
}

// NewMoleculeState creates a fresh state with every counter at zero
func NewMoleculeState(form MoleculeForm) MoleculeState {
	counts := make(map[ReactionKind]int, len(ReactionKinds))
	for _, kind := range ReactionKinds {
		counts[kind] = 0
	}
	return MoleculeState{
		Species:    form.Species,
		Protection: form.Protection,
		Counts:     counts,
	}
}

// Form returns the renderable part of the state
func (s MoleculeState) Form() MoleculeForm {
	return MoleculeForm{Species: s.Species, Protection: s.Protection}
}

// Clone returns a copy that does not share the counter map
func (s MoleculeState) Clone() MoleculeState {
	counts := make(map[ReactionKind]int, len(s.Counts))
	for kind, n := range s.Counts {
		counts[kind] = n
	}
	s.Counts = counts
	return s
}

// Exhausted returns the reaction kinds whose counters reached DestroyAfter
func (s MoleculeState) Exhausted() []ReactionKind {
	var kinds []ReactionKind
	for _, kind := range ReactionKinds {
		if s.Counts[kind] >= DestroyAfter {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Apply runs one reaction on the molecule and returns the next state.
// destroyed is true when this hit is the DestroyAfter-th hit of kind; the
// returned state then holds the final counters and the form before the hit.
// The input state is not modified.
func Apply(state MoleculeState, kind ReactionKind) (next MoleculeState, destroyed bool, err error) {
	if !kind.Valid() {
		return state, false, fmt.Errorf("unknown reaction kind %q", kind)
	}

	next = state.Clone()
	next.Counts[kind]++
	count := next.Counts[kind]

	if count >= DestroyAfter {
		return next, true, nil
	}

	forward := count%2 == 1

	switch kind {
	case BocToggle:
		next.Protection, err = toggleProtection(state.Protection, BocProtected, forward)
	case BnToggle:
		next.Protection, err = toggleProtection(state.Protection, BnProtected, forward)
	case EnzymeIsomerize:
		next.Species = state.Species.Other()
	}
	if err != nil {
		return state, false, err
	}

	return next, false, nil
}

// toggleProtection applies (forward) or removes a protecting group
func toggleProtection(current, group Protection, forward bool) (Protection, error) {
	if !forward {
		return Neutral, nil
	}
	if current != Neutral && current != group {
		return current, fmt.Errorf("%w: cannot apply %s while %s is active",
			ErrContradictoryProtection, group, current)
	}
	return group, nil
}
