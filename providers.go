// Package typelens resolves which members of a runtime type an inspector
// should display for a value of a given declared type, and discovers the
// display-affecting attributes attached anywhere on the type's base chain.
//
// The engine is a pure computation over an immutable metadata.Catalog
// snapshot. Everything the host knows that the catalog does not (attributes
// attached to types, debug-symbol availability per module, per-member
// browsable directives) is supplied through the three provider interfaces
// on Inspector. Requests share no mutable state and may run concurrently.
package typelens

import "github.com/typelens/typelens/metadata"

// BrowsableState is a per-member display directive.
type BrowsableState int

const (
	BrowsableNever      BrowsableState = iota // Hide the member entirely
	BrowsableCollapsed                        // Show the member, collapsed
	BrowsableRootHidden                       // Hide the member, splice its children into the parent
)

// String returns the string representation of the browsable state.
func (s BrowsableState) String() string {
	switch s {
	case BrowsableNever:
		return "never"
	case BrowsableCollapsed:
		return "collapsed"
	case BrowsableRootHidden:
		return "root_hidden"
	default:
		return "unknown"
	}
}

// AttributeProvider reports the evaluation attributes declared directly on a
// type. Providers do not walk inheritance; that is the engine's job.
type AttributeProvider interface {
	EvalAttributes(t *metadata.Type) []EvalAttribute
}

// SymbolProvider reports whether a module has loaded debug symbols.
type SymbolProvider interface {
	HasLoadedSymbols(module string) bool
}

// BrowsableStateProvider reports per-member browsable directives for the
// members declared directly on a type. A nil map means no directives.
type BrowsableStateProvider interface {
	BrowsableStates(t *metadata.Type) map[string]BrowsableState
}

// Inspector bundles the host services the engine consults. Any field may be
// nil, in which case the corresponding lookup reports absence: no attributes,
// no loaded symbols, no browsable directives.
type Inspector struct {
	Attributes AttributeProvider
	Symbols    SymbolProvider
	Browsable  BrowsableStateProvider
}

func (in *Inspector) evalAttributes(t *metadata.Type) []EvalAttribute {
	if in == nil || in.Attributes == nil {
		return nil
	}
	// Attributes are declared on generic definitions; every instantiation
	// shares them.
	if t.IsGenericType() {
		t = t.GenericDefinition()
	}
	return in.Attributes.EvalAttributes(t)
}

func (in *Inspector) hasLoadedSymbols(module string) bool {
	if in == nil || in.Symbols == nil {
		return false
	}
	return in.Symbols.HasLoadedSymbols(module)
}

func (in *Inspector) browsableStates(t *metadata.Type) map[string]BrowsableState {
	if in == nil || in.Browsable == nil {
		return nil
	}
	return in.Browsable.BrowsableStates(t)
}

// walkBaseChain visits t and each successive base type, stopping before the
// catalog's universal root type or at a nil base (pointer and array types
// have none). The visitor returns false to stop early. Every termination
// path for base-chain traversal lives here.
func walkBaseChain(t *metadata.Type, visit func(*metadata.Type) bool) {
	for cur := t; cur != nil && !cur.IsRoot(); cur = cur.BaseType() {
		if !visit(cur) {
			return
		}
	}
}
