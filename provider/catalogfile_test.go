package provider

import (
	"strings"
	"testing"

	"github.com/typelens/typelens"
	"github.com/typelens/typelens/metadata"
)

const sampleCatalog = `{
  "modules": [
    {"name": "app.dll", "has_symbols": true},
    {"name": "vendor.dll"}
  ],
  "types": [
    {
      "namespace": "App", "name": "Derived", "base": "App.Base", "module": "app.dll",
      "members": [
        {"name": "Count", "kind": "field"},
        {"name": "Name", "kind": "property", "virtual": true}
      ],
      "attributes": [
        {"kind": "display", "value": "{Count}"},
        {"kind": "proxy", "proxy": "App.View"}
      ],
      "browsable": {"Count": "collapsed"}
    },
    {
      "namespace": "App", "name": "Base", "module": "vendor.dll",
      "members": [
        {"name": "Count", "kind": "field", "access": "private"},
        {"name": "Name", "kind": "property", "virtual": true}
      ],
      "attributes": [
        {"kind": "visualizer", "description": "Grid"}
      ]
    },
    {"namespace": "App", "name": "View", "module": "app.dll"},
    {"namespace": "App", "name": "IReadable", "kind": "interface"},
    {
      "namespace": "Coll", "name": "List", "module": "vendor.dll",
      "type_params": ["T"],
      "members": [{"name": "Items", "kind": "field"}]
    }
  ]
}`

func TestParseCatalog(t *testing.T) {
	res, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	root, ok := res.Lookup("System.Object")
	if !ok || !root.IsRoot() {
		t.Fatalf("expected implicit System.Object root, got %v", root)
	}

	derived, ok := res.Lookup("App.Derived")
	if !ok {
		t.Fatal("App.Derived not materialized")
	}
	base, _ := res.Lookup("App.Base")
	if derived.BaseType() != base {
		t.Errorf("expected App.Derived to extend App.Base, got %v", derived.BaseType())
	}
	if base.BaseType() != root {
		t.Errorf("expected App.Base to extend the root, got %v", base.BaseType())
	}
	if derived.Module() != "app.dll" {
		t.Errorf("expected module app.dll, got %q", derived.Module())
	}

	iface, _ := res.Lookup("App.IReadable")
	if !iface.IsInterface() || iface.BaseType() != nil {
		t.Errorf("expected baseless interface, got kind %v base %v", iface.Kind(), iface.BaseType())
	}

	list, _ := res.Lookup("Coll.List")
	if !list.IsGenericTypeDefinition() || len(list.TypeParameters()) != 1 {
		t.Errorf("expected generic definition with one parameter, got %v", list)
	}

	members := derived.Members()
	if len(members) != 2 || members[0].Name() != "Count" || members[1].Name() != "Name" {
		t.Fatalf("unexpected App.Derived members: %v", members)
	}
	if got := members[1].Kind(); got != metadata.MemberProperty {
		t.Errorf("expected Name to be a property, got %v", got)
	}
}

func TestParseCatalogHost(t *testing.T) {
	res, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	in := res.Inspector()
	derived, _ := res.Lookup("App.Derived")
	view, _ := res.Lookup("App.View")

	if !in.Symbols.HasLoadedSymbols("app.dll") {
		t.Error("expected app.dll symbols loaded")
	}
	if in.Symbols.HasLoadedSymbols("vendor.dll") {
		t.Error("expected vendor.dll symbols missing")
	}

	disp, target, ok := in.FindDisplayAttribute(derived)
	if !ok || disp.Value != "{Count}" || target != derived {
		t.Errorf("FindDisplayAttribute = %v on %v, ok %v", disp, target, ok)
	}

	proxy, ok := in.ResolveProxyType(derived)
	if !ok || proxy != view {
		t.Errorf("ResolveProxyType = %v, ok %v; want App.View", proxy, ok)
	}

	vis := in.FindVisualizers(derived)
	if len(vis) != 1 || vis[0].Description != "Grid" || vis[0].Index != 0 {
		t.Errorf("unexpected visualizers: %v", vis)
	}

	states := in.Browsable.BrowsableStates(derived)
	if states["Count"] != typelens.BrowsableCollapsed {
		t.Errorf("expected collapsed directive for Count, got %v", states["Count"])
	}
}

func TestParseCatalogCollectsThroughEngine(t *testing.T) {
	res, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	derived, _ := res.Lookup("App.Derived")

	rows := res.Inspector().CollectMembers(derived, derived, typelens.IsDisplayable,
		typelens.CollectOptions{IncludeInherited: true, HideNonPublicWithoutSymbols: true})

	// Derived.Count hides a private base field, so the base row survives with
	// a cast requirement and both rows qualify their names; Derived.Name
	// overrides a virtual property, so the base row collapses.
	var names []string
	for _, r := range rows {
		names = append(names, r.DisplayName())
	}
	want := []string{"Derived.Count", "Base.Count", "Name"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("display names = %v, want %v", names, want)
	}
	for _, r := range rows {
		hidden := r.DisplayName() == "Base.Count"
		if hidden && !r.Flags.Has(typelens.RequiresExplicitCast) {
			t.Error("hidden base field should require an explicit cast")
		}
		if got := r.HideNonPublic(); got != hidden {
			t.Errorf("HideNonPublic() for %s = %v", r.DisplayName(), got)
		}
	}
}

func TestParseCatalogErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"bad json", `{"types": [`, "failed to decode"},
		{"missing types", `{"types": []}`, "invalid catalog document"},
		{"missing member kind", `{"types": [{"name": "A", "members": [{"name": "F"}]}]}`, "invalid catalog document"},
		{"unknown base", `{"types": [{"name": "A", "base": "Missing"}]}`, "unknown or cyclic base"},
		{"cyclic base", `{"types": [
			{"namespace": "N", "name": "A", "base": "N.B"},
			{"namespace": "N", "name": "B", "base": "N.A"}]}`, "unknown or cyclic base"},
		{"duplicate type", `{"types": [{"name": "A"}, {"name": "A"}]}`, "duplicate type"},
		{"interface with base", `{"types": [
			{"name": "B"},
			{"name": "I", "kind": "interface", "base": "B"}]}`, "must not declare a base"},
		{"unknown proxy", `{"types": [
			{"name": "A", "attributes": [{"kind": "proxy", "proxy": "Missing"}]}]}`, "unknown proxy type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParseCatalogForwardBaseReference(t *testing.T) {
	doc := `{"types": [
		{"namespace": "N", "name": "C", "base": "N.B"},
		{"namespace": "N", "name": "B", "base": "N.A"},
		{"namespace": "N", "name": "A"}]}`
	res, err := ParseCatalog([]byte(doc))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	c, _ := res.Lookup("N.C")
	b, _ := res.Lookup("N.B")
	a, _ := res.Lookup("N.A")
	if c.BaseType() != b || b.BaseType() != a {
		t.Errorf("base chain not resolved across forward references")
	}
}
