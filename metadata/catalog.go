package metadata

import (
	"fmt"
	"strings"
	"sync"
)

// Catalog owns a set of type handles rooted at a single universal base type.
// Composite handles (arrays, pointers, generic instantiations) are interned,
// so building the same type expression twice yields the same handle.
//
// A catalog is built once and then treated as an immutable snapshot; the
// interning maps are guarded so concurrent resolution requests that
// materialize composite types remain safe.
type Catalog struct {
	mu        sync.Mutex
	root      *Type
	arrays    map[arrayKey]*Type
	pointers  map[*Type]*Type
	instances map[string]*Type
}

type arrayKey struct {
	elem *Type
	rank int
}

// New creates a catalog whose universal root type has the given namespace
// and name.
func New(rootNamespace, rootName string) *Catalog {
	c := &Catalog{
		arrays:    make(map[arrayKey]*Type),
		pointers:  make(map[*Type]*Type),
		instances: make(map[string]*Type),
	}
	c.root = &Type{
		catalog:   c,
		kind:      KindClass,
		namespace: rootNamespace,
		name:      rootName,
	}
	return c
}

// Root returns the catalog's universal root type.
func (c *Catalog) Root() *Type { return c.root }

// NewClass declares a class. A nil base means the class derives directly
// from the root type.
func (c *Catalog) NewClass(namespace, name string, base *Type) *Type {
	if base == nil {
		base = c.root
	}
	return &Type{
		catalog:   c,
		kind:      KindClass,
		namespace: namespace,
		name:      name,
		base:      base,
	}
}

// NewInterface declares an interface. Interfaces have no base type.
func (c *Catalog) NewInterface(namespace, name string) *Type {
	return &Type{
		catalog:   c,
		kind:      KindInterface,
		namespace: namespace,
		name:      name,
	}
}

// NewGenericClass declares an open generic class definition with one type
// parameter per name. A nil base means the class derives directly from the
// root type.
func (c *Catalog) NewGenericClass(namespace, name string, base *Type, paramNames ...string) *Type {
	if len(paramNames) == 0 {
		panic("metadata: generic class definition needs at least one type parameter")
	}
	def := c.NewClass(namespace, name, base)
	def.typeParams = make([]*Type, len(paramNames))
	for i, pn := range paramNames {
		def.typeParams[i] = &Type{
			catalog:   c,
			kind:      KindParameter,
			name:      pn,
			declaring: def,
			position:  i,
		}
	}
	return def
}

// Instantiate binds a generic type definition to concrete type arguments.
// Passing a non-definition or the wrong number of arguments is a
// programming error.
func (c *Catalog) Instantiate(def *Type, args ...*Type) *Type {
	if def == nil || !def.IsGenericTypeDefinition() {
		panic("metadata: Instantiate requires a generic type definition")
	}
	if len(args) != len(def.typeParams) {
		panic(fmt.Sprintf("metadata: %s takes %d type arguments, got %d",
			def.FullName(), len(def.typeParams), len(args)))
	}
	key := instanceKey(def, args)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.instances[key]; ok {
		return t
	}
	t := &Type{
		catalog:    c,
		kind:       def.kind,
		namespace:  def.namespace,
		name:       def.name,
		module:     def.module,
		base:       def.base,
		members:    def.members,
		genericDef: def,
		typeArgs:   append([]*Type(nil), args...),
	}
	c.instances[key] = t
	return t
}

// ArrayOf returns the rank-1 array type with the given element type.
func (c *Catalog) ArrayOf(elem *Type) *Type {
	return c.MultiArrayOf(elem, 1)
}

// MultiArrayOf returns the array type with the given element type and rank.
func (c *Catalog) MultiArrayOf(elem *Type, rank int) *Type {
	if rank < 1 {
		panic(fmt.Sprintf("metadata: array rank must be positive, got %d", rank))
	}
	key := arrayKey{elem: elem, rank: rank}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.arrays[key]; ok {
		return t
	}
	t := &Type{catalog: c, kind: KindArray, elem: elem, rank: rank}
	c.arrays[key] = t
	return t
}

// PointerTo returns the pointer type with the given element type.
func (c *Catalog) PointerTo(elem *Type) *Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.pointers[elem]; ok {
		return t
	}
	t := &Type{catalog: c, kind: KindPointer, elem: elem}
	c.pointers[elem] = t
	return t
}

// AddField declares a field on a class or interface.
func (c *Catalog) AddField(t *Type, name string, access Accessibility) *Member {
	m := &Member{
		name:      name,
		kind:      MemberField,
		declaring: t,
		access:    access,
	}
	attach(t, m)
	return m
}

// PropertyOptions configures the getter shape of a declared property.
type PropertyOptions struct {
	// NoGetter declares a property with no getter (set-only).
	NoGetter bool

	// IndexParams is the number of index parameters on the getter.
	// Non-zero declares an indexer.
	IndexParams int

	// Virtual marks the getter virtual.
	Virtual bool

	// NewSlot marks a virtual getter as occupying a fresh slot (shadowing a
	// base declaration) rather than overriding it. Ignored unless Virtual.
	NewSlot bool
}

// AddProperty declares a property on a class or interface. The access level
// is the getter's accessibility.
func (c *Catalog) AddProperty(t *Type, name string, access Accessibility, opts PropertyOptions) *Member {
	m := &Member{
		name:        name,
		kind:        MemberProperty,
		declaring:   t,
		access:      access,
		hasGetter:   !opts.NoGetter,
		indexParams: opts.IndexParams,
		virtual:     opts.Virtual,
		newSlot:     opts.Virtual && opts.NewSlot,
	}
	attach(t, m)
	return m
}

func attach(t *Type, m *Member) {
	if t.kind != KindClass && t.kind != KindInterface {
		panic(fmt.Sprintf("metadata: members may only be declared on classes and interfaces, not %s %s",
			t.kind, t.FullName()))
	}
	if t.genericDef != nil {
		panic(fmt.Sprintf("metadata: members must be declared on the generic definition of %s", t.FullName()))
	}
	t.members = append(t.members, m)
}

// instanceKey builds the interning key for a generic instantiation out of
// handle identities.
func instanceKey(def *Type, args []*Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%p", def)
	for _, a := range args {
		fmt.Fprintf(&sb, "|%p", a)
	}
	return sb.String()
}
