package typelens

import "github.com/typelens/typelens/metadata"

// EvalAttribute is an evaluation attribute attached to a type. It is sealed:
// only the attribute kinds in this package implement it.
type EvalAttribute interface {
	sealedEvalAttribute()
}

// DisplayAttribute customizes the display strings for values of a type.
// Each field is a format string; empty means no customization.
type DisplayAttribute struct {
	Value    string
	Name     string
	TypeName string
}

// ProxyAttribute substitutes an alternate type whose members are displayed
// in place of the target type's own members.
type ProxyAttribute struct {
	ProxyType *metadata.Type
}

// VisualizerAttribute registers a custom visualizer for values of a type.
type VisualizerAttribute struct {
	Description string

	// UI-side and debuggee-side visualizer components, as type and assembly
	// name pairs.
	UISideTypeName           string
	UISideAssemblyName       string
	DebuggeeSideTypeName     string
	DebuggeeSideAssemblyName string
}

// BrowsableAttribute sets the default browsable state for all values of a
// type.
type BrowsableAttribute struct {
	State BrowsableState
}

func (DisplayAttribute) sealedEvalAttribute()    {}
func (ProxyAttribute) sealedEvalAttribute()      {}
func (VisualizerAttribute) sealedEvalAttribute() {}
func (BrowsableAttribute) sealedEvalAttribute()  {}

// FindFirstAttribute walks t's base chain from most derived toward the root
// and returns the first attribute of kind A, paired with the type it was
// found on. The walk stops at the universal root type or at a nil base, and
// ok is false if no attribute of the kind was found. When a type declares
// several attributes of the same kind, which one is returned is unspecified
// beyond following the provider's declaration order.
func FindFirstAttribute[A EvalAttribute](in *Inspector, t *metadata.Type) (attr A, target *metadata.Type, ok bool) {
	walkBaseChain(t, func(cur *metadata.Type) bool {
		for _, a := range in.evalAttributes(cur) {
			if match, isKind := a.(A); isKind {
				attr, target, ok = match, cur, true
				return false
			}
		}
		return true
	})
	return attr, target, ok
}

// FindDisplayAttribute returns the most derived display attribute on t's
// base chain and the type that declared it.
func (in *Inspector) FindDisplayAttribute(t *metadata.Type) (DisplayAttribute, *metadata.Type, bool) {
	return FindFirstAttribute[DisplayAttribute](in, t)
}

// FindProxyAttribute returns the most derived proxy attribute on t's base
// chain and the type that declared it.
func (in *Inspector) FindProxyAttribute(t *metadata.Type) (ProxyAttribute, *metadata.Type, bool) {
	return FindFirstAttribute[ProxyAttribute](in, t)
}

// FindBrowsableAttribute returns the most derived browsable attribute on t's
// base chain and the type that declared it.
func (in *Inspector) FindBrowsableAttribute(t *metadata.Type) (BrowsableAttribute, *metadata.Type, bool) {
	return FindFirstAttribute[BrowsableAttribute](in, t)
}

// HostViewerName identifies the host-side viewer component every discovered
// visualizer is registered under.
const HostViewerName = "typelens.HostViewer"

// VisualizerInfo describes one visualizer discovered on a type's base chain,
// in a shape suitable for registration with an external viewer-launch
// mechanism.
type VisualizerInfo struct {
	// Index is the zero-based position of the visualizer in discovery order.
	Index int

	Description string

	// HostViewer is always HostViewerName.
	HostViewer string

	UISideTypeName           string
	UISideAssemblyName       string
	DebuggeeSideTypeName     string
	DebuggeeSideAssemblyName string
}

// FindVisualizers walks t's base chain from most derived toward the root and
// collects every visualizer attribute at every level, most derived first and
// in declaration order within a level. It returns nil, not an empty slice,
// when no type on the chain declares one.
func (in *Inspector) FindVisualizers(t *metadata.Type) []VisualizerInfo {
	var infos []VisualizerInfo
	walkBaseChain(t, func(cur *metadata.Type) bool {
		for _, a := range in.evalAttributes(cur) {
			v, isVisualizer := a.(VisualizerAttribute)
			if !isVisualizer {
				continue
			}
			infos = append(infos, VisualizerInfo{
				Index:                    len(infos),
				Description:              v.Description,
				HostViewer:               HostViewerName,
				UISideTypeName:           v.UISideTypeName,
				UISideAssemblyName:       v.UISideAssemblyName,
				DebuggeeSideTypeName:     v.DebuggeeSideTypeName,
				DebuggeeSideAssemblyName: v.DebuggeeSideAssemblyName,
			})
		}
		return true
	})
	return infos
}
