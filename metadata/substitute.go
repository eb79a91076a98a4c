package metadata

import "fmt"

// Substitute replaces every occurrence of def's type parameters inside the
// type expression t with the corresponding entry of args, rebuilding
// composite shapes (generic instantiations, arrays, pointers) around the
// substituted parts. Type expressions referencing no parameter of def are
// returned unchanged.
//
// def must be a generic type definition and args must carry exactly one
// argument per parameter; violating either is a programming error.
func Substitute(t, def *Type, args []*Type) *Type {
	if def == nil || !def.IsGenericTypeDefinition() {
		panic("metadata: Substitute requires a generic type definition")
	}
	if len(args) != len(def.typeParams) {
		panic(fmt.Sprintf("metadata: %s takes %d type arguments, got %d",
			def.FullName(), len(def.typeParams), len(args)))
	}
	return substitute(t, def, args)
}

func substitute(t, def *Type, args []*Type) *Type {
	switch {
	case t.IsGenericParameter():
		if t.declaring == def {
			return args[t.position]
		}
		return t

	case t.IsGenericType():
		// Instantiation, or the definition itself appearing as an
		// expression: substitute each argument and re-instantiate.
		cur := t.TypeArguments()
		next := make([]*Type, len(cur))
		changed := false
		for i, a := range cur {
			next[i] = substitute(a, def, args)
			changed = changed || next[i] != a
		}
		if !changed {
			return t
		}
		return t.catalog.Instantiate(t.GenericDefinition(), next...)

	case t.IsArray():
		elem := substitute(t.elem, def, args)
		if elem == t.elem {
			return t
		}
		if t.rank == 1 {
			return t.catalog.ArrayOf(elem)
		}
		return t.catalog.MultiArrayOf(elem, t.rank)

	case t.IsPointer():
		elem := substitute(t.elem, def, args)
		if elem == t.elem {
			return t
		}
		return t.catalog.PointerTo(elem)

	default:
		return t
	}
}
