// Package fixture builds the small type hierarchies the engine tests
// resolve against.
package fixture

import "github.com/typelens/typelens/metadata"

// Hierarchy is a three-level class chain rooted at the catalog's universal
// root type, with a same-named field F declared on both Base and Derived.
type Hierarchy struct {
	Catalog *metadata.Catalog
	Base    *metadata.Type
	Derived *metadata.Type
}

// ThreeLevel builds Root <- Base <- Derived where Base and Derived each
// declare a public field F.
func ThreeLevel() Hierarchy {
	cat := metadata.New("System", "Object")
	base := cat.NewClass("App", "Base", nil).InModule("app.dll")
	derived := cat.NewClass("App", "Derived", base).InModule("app.dll")
	cat.AddField(base, "F", metadata.AccessPublic)
	cat.AddField(derived, "F", metadata.AccessPublic)
	return Hierarchy{Catalog: cat, Base: base, Derived: derived}
}

// Generics is a catalog with an open generic container, an element type and
// a generic proxy definition, for substitution and proxy-resolution tests.
type Generics struct {
	Catalog   *metadata.Catalog
	Container *metadata.Type // Coll.List[T]
	Box       *metadata.Type // Coll.Box[T]
	Proxy     *metadata.Type // Coll.ListView[T]
	Elem      *metadata.Type // App.Item
}

// GenericPair builds the generic fixtures.
func GenericPair() Generics {
	cat := metadata.New("System", "Object")
	return Generics{
		Catalog:   cat,
		Container: cat.NewGenericClass("Coll", "List", nil, "T"),
		Box:       cat.NewGenericClass("Coll", "Box", nil, "T"),
		Proxy:     cat.NewGenericClass("Coll", "ListView", nil, "T"),
		Elem:      cat.NewClass("App", "Item", nil),
	}
}
