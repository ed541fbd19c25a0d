package semantic

// Binding pairs a reaching definition with the visibility constraint under
// which it reaches. The lists stored in flow states are immutable: every
// update allocates a fresh list, which is what makes snapshots safe to
// share.
type Binding struct {
	Definition DefinitionID
	Visibility VisibilityID
}

// FlowState is the per-symbol set of reaching bindings at one traversal
// point. Symbols absent from the map are implicitly unbound with the
// state-wide unboundVis constraint; a fresh state therefore already means
// "every symbol -> unbound, unconditionally", with no per-symbol setup.
//
// Snapshots are O(1): the map is shared and copy-on-write. The first
// mutation after a snapshot clones the map (shallowly — binding lists are
// never mutated in place).
type FlowState struct {
	bindings   map[SymbolID][]Binding
	unboundVis VisibilityID
	shared     bool
}

// NewFlowState returns the scope-entry state: every symbol unbound.
func NewFlowState() *FlowState {
	return &FlowState{
		bindings:   make(map[SymbolID][]Binding),
		unboundVis: VisAlways,
	}
}

// Snapshot returns a cheap copy sharing the underlying map. Both the
// receiver and the copy turn copy-on-write.
func (f *FlowState) Snapshot() *FlowState {
	f.shared = true
	return &FlowState{
		bindings:   f.bindings,
		unboundVis: f.unboundVis,
		shared:     true,
	}
}

func (f *FlowState) ensureOwned() {
	if !f.shared {
		return
	}
	clone := make(map[SymbolID][]Binding, len(f.bindings))
	for sym, list := range f.bindings {
		clone[sym] = list // lists are immutable, share them
	}
	f.bindings = clone
	f.shared = false
}

// BindingsFor returns the reaching bindings for a symbol. Missing symbols
// yield the implicit unbound binding. The returned list must not be
// mutated.
func (f *FlowState) BindingsFor(sym SymbolID) []Binding {
	if list, ok := f.bindings[sym]; ok {
		return list
	}
	return []Binding{{Definition: UnboundDefinition, Visibility: f.unboundVis}}
}

// SetBinding records a sequential binding: the new definition replaces every
// prior reaching definition for the symbol on this path.
func (f *FlowState) SetBinding(sym SymbolID, def DefinitionID, vis VisibilityID) {
	f.ensureOwned()
	f.bindings[sym] = []Binding{{Definition: def, Visibility: vis}}
}

// ApplyConstraint tags every reaching binding — including the implicit
// unbound ones — with an additional condition that held on the path through
// this state.
func (f *FlowState) ApplyConstraint(vs *Visibilities, constraint VisibilityID) {
	if constraint == VisAlways {
		return
	}
	f.ensureOwned()
	for sym, list := range f.bindings {
		updated := make([]Binding, len(list))
		for i, b := range list {
			updated[i] = Binding{
				Definition: b.Definition,
				Visibility: vs.Sequence(constraint, b.Visibility),
			}
		}
		f.bindings[sym] = updated
	}
	f.unboundVis = vs.Sequence(constraint, f.unboundVis)
}

// Merge combines another state into this one at a control-flow join. Both
// sides' reaching definitions survive with their own visibility; a
// definition present on both sides merges its constraints, which is where
// the tautology collapse restores unconditional visibility after a total
// if/else.
func (f *FlowState) Merge(vs *Visibilities, other *FlowState) {
	f.ensureOwned()
	for sym := range f.bindings {
		otherList, ok := other.bindings[sym]
		if !ok {
			otherList = []Binding{{Definition: UnboundDefinition, Visibility: other.unboundVis}}
		}
		f.bindings[sym] = mergeBindingLists(vs, f.bindings[sym], otherList)
	}
	for sym, otherList := range other.bindings {
		if _, ok := f.bindings[sym]; ok {
			continue
		}
		selfList := []Binding{{Definition: UnboundDefinition, Visibility: f.unboundVis}}
		f.bindings[sym] = mergeBindingLists(vs, selfList, otherList)
	}
	f.unboundVis = vs.Merge(f.unboundVis, other.unboundVis)
}

// mergeBindingLists unions two reaching-definition lists. Order is
// deterministic: a's definitions keep their positions, b's unseen
// definitions append in their own order.
func mergeBindingLists(vs *Visibilities, a, b []Binding) []Binding {
	merged := make([]Binding, len(a), len(a)+len(b))
	copy(merged, a)
	for _, bb := range b {
		found := false
		for i, ab := range merged {
			if ab.Definition == bb.Definition {
				merged[i].Visibility = vs.Merge(ab.Visibility, bb.Visibility)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, bb)
		}
	}
	return merged
}
