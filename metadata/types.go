// Package metadata defines the immutable type-description model that the
// typelens engine resolves members and attributes against. Types are opaque
// handles owned by a Catalog; identity equality is pointer equality, and the
// catalog interns composite handles (arrays, pointers, generic instantiations)
// so structurally equal type expressions compare equal with ==.
package metadata

import (
	"fmt"
	"strings"
)

// Kind identifies the category of a type handle.
type Kind int

const (
	KindClass     Kind = iota // Concrete or generic class
	KindInterface             // Interface type
	KindArray                 // Array of some element type
	KindPointer               // Pointer to some element type
	KindParameter             // Generic type parameter
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindArray:
		return "Array"
	case KindPointer:
		return "Pointer"
	case KindParameter:
		return "Parameter"
	default:
		return "Unknown"
	}
}

// Type is an opaque handle to a type description. Handles are created through
// a Catalog and never mutated after the catalog is built. Class and interface
// types form a chain to the catalog's root type via BaseType; arrays, pointers
// and generic parameters have no base.
type Type struct {
	catalog   *Catalog
	kind      Kind
	namespace string
	name      string
	module    string
	base      *Type
	members   []*Member

	// Generics. A generic type definition carries typeParams; an
	// instantiation carries genericDef and typeArgs.
	genericDef *Type
	typeParams []*Type
	typeArgs   []*Type

	// Arrays and pointers.
	elem *Type
	rank int

	// Generic parameters.
	declaring *Type
	position  int
}

// Kind returns the category of the type.
func (t *Type) Kind() Kind { return t.kind }

// Namespace returns the namespace the type was declared in.
func (t *Type) Namespace() string { return t.namespace }

// Name returns the type's simple name.
func (t *Type) Name() string { return t.name }

// Module returns the identity of the module the type was declared in.
// Empty for types with no module association (arrays, pointers, parameters).
func (t *Type) Module() string { return t.module }

// BaseType returns the type's base type. It is nil only for the catalog's
// root type and for array, pointer and generic-parameter types.
func (t *Type) BaseType() *Type { return t.base }

// IsRoot reports whether the type is the catalog's universal root type.
func (t *Type) IsRoot() bool { return t.catalog.root == t }

// IsClass reports whether the type is a class.
func (t *Type) IsClass() bool { return t.kind == KindClass }

// IsInterface reports whether the type is an interface.
func (t *Type) IsInterface() bool { return t.kind == KindInterface }

// IsArray reports whether the type is an array.
func (t *Type) IsArray() bool { return t.kind == KindArray }

// IsPointer reports whether the type is a pointer.
func (t *Type) IsPointer() bool { return t.kind == KindPointer }

// IsGenericParameter reports whether the type is a generic type parameter.
func (t *Type) IsGenericParameter() bool { return t.kind == KindParameter }

// IsGenericType reports whether the type is a generic type definition or a
// generic instantiation.
func (t *Type) IsGenericType() bool {
	return len(t.typeParams) > 0 || len(t.typeArgs) > 0
}

// IsGenericTypeDefinition reports whether the type is an open generic type
// definition (as opposed to an instantiation).
func (t *Type) IsGenericTypeDefinition() bool {
	return len(t.typeParams) > 0 && t.genericDef == nil
}

// GenericDefinition returns the generic type definition an instantiation was
// produced from. For a definition it returns the type itself; nil for
// non-generic types.
func (t *Type) GenericDefinition() *Type {
	if t.genericDef != nil {
		return t.genericDef
	}
	if t.IsGenericTypeDefinition() {
		return t
	}
	return nil
}

// TypeArguments returns an instantiation's type arguments. For a generic
// type definition it returns the definition's own type parameters, so the
// result always has one entry per generic position. Nil for non-generic
// types. The returned slice must not be modified.
func (t *Type) TypeArguments() []*Type {
	if t.typeArgs != nil {
		return t.typeArgs
	}
	return t.typeParams
}

// TypeParameters returns a generic type definition's parameters.
// Nil for anything else. The returned slice must not be modified.
func (t *Type) TypeParameters() []*Type {
	if t.IsGenericTypeDefinition() {
		return t.typeParams
	}
	return nil
}

// ElementType returns the element type of an array or pointer, nil otherwise.
func (t *Type) ElementType() *Type { return t.elem }

// Rank returns the rank of an array type, zero otherwise.
func (t *Type) Rank() int { return t.rank }

// DeclaringType returns the generic type definition a generic parameter
// belongs to, nil for anything else.
func (t *Type) DeclaringType() *Type { return t.declaring }

// ParameterPosition returns a generic parameter's zero-based position within
// its declaring definition.
func (t *Type) ParameterPosition() int { return t.position }

// Members returns the members declared directly on the type, in declaration
// order. The returned slice must not be modified.
func (t *Type) Members() []*Member { return t.members }

// InModule records the type's declaring module identity and returns the type
// for chaining during catalog construction.
func (t *Type) InModule(module string) *Type {
	t.module = module
	return t
}

// FullName returns the namespace-qualified display name of the type,
// including type arguments for generic instantiations.
func (t *Type) FullName() string {
	switch t.kind {
	case KindArray:
		if t.rank > 1 {
			return t.elem.FullName() + "[" + strings.Repeat(",", t.rank-1) + "]"
		}
		return t.elem.FullName() + "[]"
	case KindPointer:
		return t.elem.FullName() + "*"
	case KindParameter:
		return t.name
	}
	base := t.name
	if t.namespace != "" {
		base = t.namespace + "." + t.name
	}
	if t.typeArgs != nil {
		args := make([]string, len(t.typeArgs))
		for i, a := range t.typeArgs {
			args[i] = a.FullName()
		}
		return base + "[" + strings.Join(args, ", ") + "]"
	}
	return base
}

// String implements fmt.Stringer.
func (t *Type) String() string { return t.FullName() }

var _ fmt.Stringer = (*Type)(nil)
