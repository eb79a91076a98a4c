package metadata

import "fmt"

// MemberKind identifies the category of a member.
type MemberKind int

const (
	MemberField    MemberKind = iota // Instance field
	MemberProperty                   // Property with an optional getter
)

// String returns the string representation of the member kind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "Field"
	case MemberProperty:
		return "Property"
	default:
		return "Unknown"
	}
}

// Accessibility is the declared access level of a field or of a property's
// getter, ordered from least to most accessible.
type Accessibility int

const (
	AccessPrivate  Accessibility = iota // Visible only within the declaring type
	AccessAssembly                      // Visible within the declaring module
	AccessFamily                        // Visible to the declaring type and subtypes
	AccessPublic                        // Visible everywhere
)

// String returns the string representation of the accessibility.
func (a Accessibility) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessAssembly:
		return "assembly"
	case AccessFamily:
		return "family"
	case AccessPublic:
		return "public"
	default:
		return "unknown"
	}
}

// Member is a field or property declared directly on a specific type.
// Names are treated as simple string keys; overloads are not distinguished.
type Member struct {
	name       string
	kind       MemberKind
	declaring  *Type
	memberType *Type
	access     Accessibility

	// Property getter shape. Meaningless for fields.
	hasGetter   bool
	indexParams int
	virtual     bool
	newSlot     bool
}

// Name returns the member's name.
func (m *Member) Name() string { return m.name }

// Kind returns the member's kind.
func (m *Member) Kind() MemberKind { return m.kind }

// DeclaringType returns the type the member was declared on.
func (m *Member) DeclaringType() *Type { return m.declaring }

// Type returns the member's declared type, or nil when the producing
// provider did not record one. The engine never consults it.
func (m *Member) Type() *Type { return m.memberType }

// Access returns the accessibility of a field, or of a property's getter.
func (m *Member) Access() Accessibility { return m.access }

// HasGetter reports whether a property exposes a getter. Always false for
// fields.
func (m *Member) HasGetter() bool { return m.hasGetter }

// IndexParams returns the number of index parameters on a property getter.
// Non-zero marks an indexer.
func (m *Member) IndexParams() int { return m.indexParams }

// IsVirtual reports whether a property getter is virtual.
func (m *Member) IsVirtual() bool { return m.virtual }

// IsNewSlot reports whether a virtual property getter occupies a fresh
// vtable slot (shadowing) rather than overriding the base slot.
func (m *Member) IsNewSlot() bool { return m.newSlot }

// OfType records the member's declared type and returns the member for
// chaining during catalog construction.
func (m *Member) OfType(t *Type) *Member {
	m.memberType = t
	return m
}

// RequiresExplicitCastWhenHidden reports whether a same-named member this one
// hides on a base type remains independently reachable, and therefore needs
// an explicit cast to the base type to access. Fields always hide without
// overriding. A property hides its base only when its getter occupies a
// fresh slot; an overriding getter is already reachable through the base
// type. An unrecognized member kind is an internal consistency fault.
func (m *Member) RequiresExplicitCastWhenHidden() bool {
	switch m.kind {
	case MemberField:
		return true
	case MemberProperty:
		if !m.hasGetter {
			return true
		}
		return !m.virtual || m.newSlot
	default:
		panic(fmt.Sprintf("metadata: unrecognized member kind %d for %q", int(m.kind), m.name))
	}
}
