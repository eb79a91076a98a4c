// Package provider implements input providers that build metadata catalogs
// for the typelens engine from real inputs: a JSON catalog document, Go
// source code, or a Windows Metadata file. Providers produce an immutable
// catalog plus an in-memory host backing the engine's provider interfaces.
package provider

import (
	"github.com/typelens/typelens"
	"github.com/typelens/typelens/metadata"
)

// Result is a materialized catalog together with the host-side lookups the
// building input carried.
type Result struct {
	Catalog *metadata.Catalog

	// Types indexes every declared type by full name, the root included.
	Types map[string]*metadata.Type

	// Host backs the engine's provider interfaces with whatever attribute,
	// browsable and symbol data the input declared.
	Host *Host
}

// Lookup returns the declared type with the given full name.
func (r *Result) Lookup(fullName string) (*metadata.Type, bool) {
	t, ok := r.Types[fullName]
	return t, ok
}

// Inspector returns an engine inspector backed by the result's host.
func (r *Result) Inspector() *typelens.Inspector {
	return &typelens.Inspector{
		Attributes: r.Host,
		Symbols:    r.Host,
		Browsable:  r.Host,
	}
}

// Host is an in-memory implementation of the engine's three provider
// interfaces.
type Host struct {
	attrs     map[*metadata.Type][]typelens.EvalAttribute
	browsable map[*metadata.Type]map[string]typelens.BrowsableState
	symbols   map[string]bool
}

// NewHost returns an empty host: no attributes, no directives, no symbols.
func NewHost() *Host {
	return &Host{
		attrs:     make(map[*metadata.Type][]typelens.EvalAttribute),
		browsable: make(map[*metadata.Type]map[string]typelens.BrowsableState),
		symbols:   make(map[string]bool),
	}
}

// AddAttribute attaches an evaluation attribute directly to a type.
func (h *Host) AddAttribute(t *metadata.Type, attr typelens.EvalAttribute) {
	h.attrs[t] = append(h.attrs[t], attr)
}

// SetBrowsable records a browsable directive for a member name on its
// declaring type.
func (h *Host) SetBrowsable(t *metadata.Type, member string, state typelens.BrowsableState) {
	states := h.browsable[t]
	if states == nil {
		states = make(map[string]typelens.BrowsableState)
		h.browsable[t] = states
	}
	states[member] = state
}

// SetSymbols records whether a module has loaded debug symbols.
func (h *Host) SetSymbols(module string, loaded bool) {
	h.symbols[module] = loaded
}

// EvalAttributes implements typelens.AttributeProvider.
func (h *Host) EvalAttributes(t *metadata.Type) []typelens.EvalAttribute {
	return h.attrs[t]
}

// HasLoadedSymbols implements typelens.SymbolProvider.
func (h *Host) HasLoadedSymbols(module string) bool {
	return h.symbols[module]
}

// BrowsableStates implements typelens.BrowsableStateProvider.
func (h *Host) BrowsableStates(t *metadata.Type) map[string]typelens.BrowsableState {
	return h.browsable[t]
}

var (
	_ typelens.AttributeProvider      = (*Host)(nil)
	_ typelens.SymbolProvider         = (*Host)(nil)
	_ typelens.BrowsableStateProvider = (*Host)(nil)
)

func fullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
