// Package gen renders Go struct stubs from resolved member views. The stubs
// are a development aid: one struct per inspected type, mirroring exactly the
// rows an inspector would display, with cast and hiding decisions surfaced as
// comments.
package gen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/typelens/typelens"
	"github.com/typelens/typelens/metadata"
)

// Options configures stub generation.
type Options struct {
	// PackageName for the generated file. Defaults to "stubs".
	PackageName string

	// IncludeHidden keeps rows the display layer would suppress for lack of
	// debug symbols.
	IncludeHidden bool

	// ResolveProxies renders the proxy's member view instead of the target's
	// when a type declares a proxy attribute.
	ResolveProxies bool
}

// NewFile generates one struct stub per type, in order.
func NewFile(in *typelens.Inspector, types []*metadata.Type, opts Options) *jen.File {
	pkg := opts.PackageName
	if pkg == "" {
		pkg = "stubs"
	}
	file := jen.NewFile(pkg)
	for _, t := range types {
		writeStruct(file, in, t, opts)
	}
	return file
}

// Render generates the stubs and returns them as formatted Go source.
func Render(in *typelens.Inspector, types []*metadata.Type, opts Options) (string, error) {
	var sb strings.Builder
	if err := NewFile(in, types, opts).Render(&sb); err != nil {
		return "", fmt.Errorf("failed to render stubs: %w", err)
	}
	return sb.String(), nil
}

func writeStruct(file *jen.File, in *typelens.Inspector, t *metadata.Type, opts Options) {
	view := t
	if opts.ResolveProxies {
		if proxy, ok := in.ResolveProxyType(t); ok {
			file.Comment(fmt.Sprintf("%s displays through proxy %s", t.FullName(), proxy.FullName()))
			view = proxy
		}
	}

	rows := in.CollectMembers(view, view, typelens.IsDisplayable, typelens.CollectOptions{
		IncludeInherited:            true,
		HideNonPublicWithoutSymbols: !opts.IncludeHidden,
	})

	taken := make(map[string]bool)
	file.Type().Id(t.Name()).StructFunc(func(g *jen.Group) {
		for _, row := range rows {
			name := row.Member.Name()
			if !opts.IncludeHidden && row.HideNonPublic() {
				g.Comment(fmt.Sprintf("%s.%s hidden without symbols", declaringName(row), name))
				continue
			}
			if row.BrowsableState != nil && *row.BrowsableState == typelens.BrowsableNever {
				continue
			}
			if taken[name] {
				// Same-named row from a base level; a struct cannot carry it
				// twice.
				g.Comment(fmt.Sprintf("%s.%s reachable through an explicit cast", declaringName(row), name))
				continue
			}
			taken[name] = true

			stmt := g.Id(name)
			writeFieldType(stmt, row.Member.Type())
			if c := rowComment(row); c != "" {
				stmt.Comment(c)
			}
		}
	})
}

// writeFieldType appends the Go rendering of a member type. Untyped members
// and shapes with no Go analogue fall back to any.
func writeFieldType(stmt *jen.Statement, t *metadata.Type) {
	switch {
	case t == nil:
		stmt.Interface()
	case t.IsArray() && t.Rank() == 1:
		writeFieldType(stmt.Index(), t.ElementType())
	case t.IsPointer():
		writeFieldType(stmt.Op("*"), t.ElementType())
	case t.IsClass() || t.IsInterface():
		if t.IsGenericType() {
			stmt.Interface()
			return
		}
		stmt.Id(t.Name())
	default:
		stmt.Interface()
	}
}

func rowComment(row typelens.MemberAndDeclarationInfo) string {
	var parts []string
	if row.Flags.Has(typelens.IncludeTypeInName) {
		parts = append(parts, "declared on "+declaringName(row))
	}
	if row.Flags.Has(typelens.FromSubTypeOfDeclaredType) {
		parts = append(parts, "needs a downcast")
	}
	if row.BrowsableState != nil && *row.BrowsableState == typelens.BrowsableRootHidden {
		parts = append(parts, "children inlined")
	}
	return strings.Join(parts, ", ")
}

func declaringName(row typelens.MemberAndDeclarationInfo) string {
	return row.Member.DeclaringType().FullName()
}
