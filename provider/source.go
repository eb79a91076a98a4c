package provider

import (
	"context"
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/typelens/typelens/metadata"
)

// SourceOptions configures catalog extraction from Go source.
type SourceOptions struct {
	// Packages are the Go package patterns to load.
	Packages []string

	// RootTypes are the struct type names to extract. If empty, every
	// exported struct type in the loaded packages is extracted.
	RootTypes []string
}

// BuildFromSource builds a catalog from Go packages. Go has no class
// inheritance, so the mapping is deliberately narrow: a struct's first
// embedded struct field becomes its base type, its remaining exported fields
// become catalog fields, and its exported methods with no parameters and one
// result become read-only properties. Package paths double as module
// identities, all with symbols loaded.
func BuildFromSource(ctx context.Context, opts SourceOptions) (*Result, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	b := newSourceBuilder()
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		if len(opts.RootTypes) > 0 {
			for _, name := range opts.RootTypes {
				obj := scope.Lookup(name)
				if obj == nil {
					continue
				}
				named, ok := types.Unalias(obj.Type()).(*types.Named)
				if !ok {
					return nil, fmt.Errorf("type %s.%s is not a named type", pkg.PkgPath, name)
				}
				if _, ok := named.Underlying().(*types.Struct); !ok {
					return nil, fmt.Errorf("type %s.%s is not a struct", pkg.PkgPath, name)
				}
				b.classFor(named)
			}
		} else {
			for _, name := range scope.Names() {
				obj := scope.Lookup(name)
				if !obj.Exported() {
					continue
				}
				tn, ok := obj.(*types.TypeName)
				if ok && !tn.IsAlias() {
					if named, ok := tn.Type().(*types.Named); ok {
						if _, isStruct := named.Underlying().(*types.Struct); isStruct {
							b.classFor(named)
						}
					}
				}
			}
		}
	}

	for _, requested := range opts.RootTypes {
		if _, ok := b.result.Types[requested]; ok {
			continue
		}
		found := false
		for name := range b.result.Types {
			if name == requested || hasSuffixDot(name, requested) {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("root type %q not found", requested)
		}
	}
	return b.result, nil
}

type sourceBuilder struct {
	cat    *metadata.Catalog
	result *Result
	seen   map[*types.Named]*metadata.Type
}

func newSourceBuilder() *sourceBuilder {
	cat := metadata.New("", "any")
	host := NewHost()
	return &sourceBuilder{
		cat: cat,
		result: &Result{
			Catalog: cat,
			Types:   map[string]*metadata.Type{"any": cat.Root()},
			Host:    host,
		},
		seen: make(map[*types.Named]*metadata.Type),
	}
}

// classFor returns the catalog class for a named struct type, building it
// and its bases on first use.
func (b *sourceBuilder) classFor(named *types.Named) *metadata.Type {
	if t, ok := b.seen[named]; ok {
		return t
	}
	obj := named.Obj()
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	st, _ := named.Underlying().(*types.Struct)
	var base *metadata.Type
	baseField := -1
	if st != nil {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if !f.Anonymous() {
				continue
			}
			if embedded, ok := namedStruct(f.Type()); ok {
				base = b.classFor(embedded)
				baseField = i
				break
			}
		}
	}

	t := b.cat.NewClass(pkgPath, obj.Name(), base).InModule(pkgPath)
	b.seen[named] = t
	b.result.Types[fullName(pkgPath, obj.Name())] = t
	b.result.Host.SetSymbols(pkgPath, true)

	if st != nil {
		for i := 0; i < st.NumFields(); i++ {
			if i == baseField {
				continue
			}
			f := st.Field(i)
			access := metadata.AccessPrivate
			if f.Exported() {
				access = metadata.AccessPublic
			}
			m := b.cat.AddField(t, f.Name(), access)
			if ft, ok := b.typeRef(f.Type()); ok {
				m.OfType(ft)
			}
		}
	}

	for i := 0; i < named.NumMethods(); i++ {
		fn := named.Method(i)
		if !fn.Exported() {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}
		b.cat.AddProperty(t, fn.Name(), metadata.AccessPublic, metadata.PropertyOptions{})
	}
	return t
}

// typeRef maps a Go field type to an informational catalog handle. Named
// structs map to their classes; slices, arrays and pointers map to the
// corresponding composite shapes; anything else is left unrecorded.
func (b *sourceBuilder) typeRef(t types.Type) (*metadata.Type, bool) {
	switch u := types.Unalias(t).(type) {
	case *types.Named:
		if _, ok := u.Underlying().(*types.Struct); ok {
			return b.classFor(u), true
		}
		return nil, false
	case *types.Slice:
		if elem, ok := b.typeRef(u.Elem()); ok {
			return b.cat.ArrayOf(elem), true
		}
	case *types.Array:
		if elem, ok := b.typeRef(u.Elem()); ok {
			return b.cat.ArrayOf(elem), true
		}
	case *types.Pointer:
		if elem, ok := b.typeRef(u.Elem()); ok {
			return b.cat.PointerTo(elem), true
		}
	}
	return nil, false
}

func namedStruct(t types.Type) (*types.Named, bool) {
	u := types.Unalias(t)
	if ptr, ok := u.(*types.Pointer); ok {
		u = types.Unalias(ptr.Elem())
	}
	named, ok := u.(*types.Named)
	if !ok {
		return nil, false
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil, false
	}
	return named, true
}

func hasSuffixDot(full, name string) bool {
	return len(full) > len(name)+1 && full[len(full)-len(name)-1] == '.' && full[len(full)-len(name):] == name
}
