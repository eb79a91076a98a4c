package metadata

import "testing"

func TestCatalogRoot(t *testing.T) {
	cat := New("System", "Object")
	root := cat.Root()
	if !root.IsRoot() {
		t.Error("root type should report IsRoot")
	}
	if root.BaseType() != nil {
		t.Error("root type should have no base")
	}
	if root.FullName() != "System.Object" {
		t.Errorf("expected System.Object, got %s", root.FullName())
	}
}

func TestNewClassDefaultsToRootBase(t *testing.T) {
	cat := New("System", "Object")
	c := cat.NewClass("App", "Widget", nil)
	if c.BaseType() != cat.Root() {
		t.Error("nil base should resolve to the root type")
	}
	if !c.IsClass() || c.IsInterface() {
		t.Error("expected a class")
	}
}

func TestInterfaceHasNoBase(t *testing.T) {
	cat := New("System", "Object")
	i := cat.NewInterface("App", "IWidget")
	if i.BaseType() != nil {
		t.Error("interfaces should have no base type")
	}
	if !i.IsInterface() {
		t.Error("expected an interface")
	}
}

func TestCompositeInterning(t *testing.T) {
	cat := New("System", "Object")
	item := cat.NewClass("App", "Item", nil)
	list := cat.NewGenericClass("Coll", "List", nil, "T")

	if cat.ArrayOf(item) != cat.ArrayOf(item) {
		t.Error("rank-1 arrays should intern")
	}
	if cat.MultiArrayOf(item, 2) == cat.ArrayOf(item) {
		t.Error("rank should distinguish array handles")
	}
	if cat.PointerTo(item) != cat.PointerTo(item) {
		t.Error("pointers should intern")
	}
	if cat.Instantiate(list, item) != cat.Instantiate(list, item) {
		t.Error("instantiations should intern")
	}
}

func TestInstantiationShape(t *testing.T) {
	cat := New("System", "Object")
	elem := cat.NewClass("App", "Item", nil)
	base := cat.NewClass("Coll", "CollectionBase", nil)
	list := cat.NewGenericClass("Coll", "List", base, "T").InModule("coll.dll")
	cat.AddField(list, "count", AccessPrivate)

	inst := cat.Instantiate(list, elem)
	if !inst.IsGenericType() || inst.IsGenericTypeDefinition() {
		t.Error("instantiation should be generic but not a definition")
	}
	if inst.GenericDefinition() != list {
		t.Error("instantiation should point back at its definition")
	}
	if len(inst.TypeArguments()) != 1 || inst.TypeArguments()[0] != elem {
		t.Error("instantiation should carry its type arguments")
	}
	if inst.BaseType() != base {
		t.Error("instantiation should inherit the definition's base")
	}
	if inst.Module() != "coll.dll" {
		t.Errorf("instantiation should inherit the definition's module, got %q", inst.Module())
	}
	if len(inst.Members()) != 1 {
		t.Errorf("instantiation should share the definition's members, got %d", len(inst.Members()))
	}
	if got := inst.FullName(); got != "Coll.List[App.Item]" {
		t.Errorf("unexpected full name %q", got)
	}
}

func TestGenericDefinitionArguments(t *testing.T) {
	cat := New("System", "Object")
	pair := cat.NewGenericClass("Coll", "Pair", nil, "K", "V")

	params := pair.TypeParameters()
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	for i, p := range params {
		if !p.IsGenericParameter() {
			t.Errorf("parameter %d should be a generic parameter", i)
		}
		if p.DeclaringType() != pair {
			t.Errorf("parameter %d should declare on Pair", i)
		}
		if p.ParameterPosition() != i {
			t.Errorf("parameter %d reports position %d", i, p.ParameterPosition())
		}
	}
	// For a definition, TypeArguments falls back to the parameters so arity
	// checks see one entry per generic position.
	if len(pair.TypeArguments()) != 2 {
		t.Errorf("definition TypeArguments should report the parameters")
	}
}

func TestInstantiatePanics(t *testing.T) {
	cat := New("System", "Object")
	item := cat.NewClass("App", "Item", nil)
	list := cat.NewGenericClass("Coll", "List", nil, "T")

	t.Run("non-definition", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		cat.Instantiate(item, item)
	})
	t.Run("arity mismatch", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		cat.Instantiate(list, item, item)
	})
}

func TestMemberDeclarationRestrictions(t *testing.T) {
	cat := New("System", "Object")
	item := cat.NewClass("App", "Item", nil)

	t.Run("array", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		cat.AddField(cat.ArrayOf(item), "length", AccessPublic)
	})
	t.Run("instantiation", func(t *testing.T) {
		list := cat.NewGenericClass("Coll", "List", nil, "T")
		inst := cat.Instantiate(list, item)
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		cat.AddField(inst, "count", AccessPublic)
	})
}

func TestFullNameComposites(t *testing.T) {
	cat := New("System", "Object")
	item := cat.NewClass("App", "Item", nil)

	tests := []struct {
		typ  *Type
		want string
	}{
		{cat.ArrayOf(item), "App.Item[]"},
		{cat.MultiArrayOf(item, 3), "App.Item[,,]"},
		{cat.PointerTo(item), "App.Item*"},
		{cat.PointerTo(cat.ArrayOf(item)), "App.Item[]*"},
	}
	for _, tc := range tests {
		if got := tc.typ.FullName(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}
