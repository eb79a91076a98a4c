package typelens

import "github.com/typelens/typelens/metadata"

// mapHost is an in-memory host backing all three provider interfaces.
type mapHost struct {
	attrs     map[*metadata.Type][]EvalAttribute
	symbols   map[string]bool
	browsable map[*metadata.Type]map[string]BrowsableState
}

func (h *mapHost) EvalAttributes(t *metadata.Type) []EvalAttribute {
	return h.attrs[t]
}

func (h *mapHost) HasLoadedSymbols(module string) bool {
	return h.symbols[module]
}

func (h *mapHost) BrowsableStates(t *metadata.Type) map[string]BrowsableState {
	return h.browsable[t]
}

func newTestInspector(h *mapHost) *Inspector {
	return &Inspector{Attributes: h, Symbols: h, Browsable: h}
}

// displayAll retains every displayable member.
func displayAll(m *metadata.Member) bool { return IsDisplayable(m) }
