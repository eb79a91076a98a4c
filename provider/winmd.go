package provider

import (
	"debug/pe"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/microsoft/go-winmd"
	"github.com/microsoft/go-winmd/flags"

	"github.com/typelens/typelens/metadata"
)

// WinMDOptions configures catalog extraction from a Windows Metadata file.
type WinMDOptions struct {
	// Path is the .winmd file to read.
	Path string

	// Namespaces optionally restricts extraction to type definitions whose
	// namespace starts with one of the given prefixes.
	Namespaces []string
}

// Element types with a well-known primitive name.
var builtinElementNames = map[flags.ElementType]string{
	flags.ElementType_BOOLEAN: "Boolean",
	flags.ElementType_CHAR:    "Char",
	flags.ElementType_STRING:  "String",
	flags.ElementType_I1:      "SByte",
	flags.ElementType_I2:      "Int16",
	flags.ElementType_I4:      "Int32",
	flags.ElementType_I8:      "Int64",
	flags.ElementType_U1:      "Byte",
	flags.ElementType_U2:      "UInt16",
	flags.ElementType_U4:      "UInt32",
	flags.ElementType_U8:      "UInt64",
	flags.ElementType_R4:      "Single",
	flags.ElementType_R8:      "Double",
}

// BuildFromWinMD builds a catalog from a Windows Metadata file: every type
// definition becomes a class (or, lacking an extends row, an interface) and
// its field rows become public fields. The file name doubles as the module
// identity, reported without loaded symbols. Windows Metadata carries no
// generic definitions, so the provider emits none.
func BuildFromWinMD(opts WinMDOptions) (*Result, error) {
	peFile, err := pe.Open(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open winmd file: %w", err)
	}
	defer peFile.Close()

	md, err := winmd.New(peFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse winmd metadata: %w", err)
	}

	cat := metadata.New("System", "Object")
	b := &winmdBuilder{
		md:     md,
		cat:    cat,
		module: filepath.Base(opts.Path),
		result: &Result{
			Catalog: cat,
			Types:   map[string]*metadata.Type{"System.Object": cat.Root()},
			Host:    NewHost(),
		},
	}
	b.result.Host.SetSymbols(b.module, false)

	rows, err := b.collectRows(opts.Namespaces)
	if err != nil {
		return nil, err
	}
	if err := b.createTypes(rows); err != nil {
		return nil, err
	}
	if err := b.populateFields(rows); err != nil {
		return nil, err
	}
	return b.result, nil
}

type winmdBuilder struct {
	md     *winmd.Metadata
	cat    *metadata.Catalog
	module string
	result *Result
}

// typeRow is one TypeDef table row pending materialization.
type typeRow struct {
	namespace string
	name      string
	baseName  string // full name; empty means no extends row (interface)
	hasBase   bool
	fields    winmd.TypeDef
}

func (b *winmdBuilder) collectRows(namespaces []string) ([]typeRow, error) {
	var rows []typeRow
	table := b.md.Tables.TypeDef
	for i := uint32(0); i < table.Len; i++ {
		td, err := table.Record(winmd.Index(i))
		if err != nil {
			return nil, fmt.Errorf("failed to read type definition %d: %w", i, err)
		}
		name := td.Name.String()
		ns := td.Namespace.String()
		if name == "<Module>" {
			continue
		}
		if len(namespaces) > 0 && !matchesNamespace(ns, namespaces) {
			continue
		}
		row := typeRow{namespace: ns, name: name, fields: *td}
		if base, ok := b.extendsName(td.Extends); ok {
			row.baseName = base
			row.hasBase = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// extendsName resolves the full name behind an extends coded index. A zero
// index means the type extends nothing.
func (b *winmdBuilder) extendsName(ci winmd.CodedIndex) (string, bool) {
	if ci.Index == 0 {
		return "", false
	}
	if tr, err := b.md.Tables.TypeRef.Record(ci.Index); err == nil {
		return fullName(tr.Namespace.String(), tr.Name.String()), true
	}
	if td, err := b.md.Tables.TypeDef.Record(ci.Index); err == nil {
		return fullName(td.Namespace.String(), td.Name.String()), true
	}
	return "", false
}

func (b *winmdBuilder) createTypes(rows []typeRow) error {
	pending := rows
	for len(pending) > 0 {
		var next []typeRow
		for _, row := range pending {
			name := fullName(row.namespace, row.name)
			if _, exists := b.result.Types[name]; exists {
				continue
			}
			if !row.hasBase {
				// ECMA-335: interfaces have no extends row.
				b.result.Types[name] = b.cat.NewInterface(row.namespace, row.name).InModule(b.module)
				continue
			}
			base, ok := b.result.Types[row.baseName]
			if !ok {
				if b.declaredInFile(rows, row.baseName) {
					next = append(next, row)
					continue
				}
				// Base from another assembly: stub it under the root.
				base = b.stubClass(row.baseName)
			}
			b.result.Types[name] = b.cat.NewClass(row.namespace, row.name, base).InModule(b.module)
		}
		if len(next) == len(pending) {
			return fmt.Errorf("unresolvable base chain starting at %q", next[0].baseName)
		}
		pending = next
	}
	return nil
}

func (b *winmdBuilder) declaredInFile(rows []typeRow, name string) bool {
	for _, row := range rows {
		if fullName(row.namespace, row.name) == name {
			return true
		}
	}
	return false
}

func (b *winmdBuilder) populateFields(rows []typeRow) error {
	for _, row := range rows {
		t := b.result.Types[fullName(row.namespace, row.name)]
		td := row.fields
		for i := td.FieldList.Start; i < td.FieldList.End; i++ {
			field, err := b.md.Tables.Field.Record(i)
			if err != nil {
				return fmt.Errorf("failed to read field row of %s: %w", t.FullName(), err)
			}
			sig, err := b.md.FieldSignature(field.Signature)
			if err != nil {
				return fmt.Errorf("failed to read signature of %s.%s: %w", t.FullName(), field.Name.String(), err)
			}
			m := b.cat.AddField(t, field.Name.String(), metadata.AccessPublic)
			if ft, err := b.typeOf(sig.Type); err == nil {
				m.OfType(ft)
			}
		}
	}
	return nil
}

// typeOf maps a field signature type to a catalog handle.
func (b *winmdBuilder) typeOf(sig winmd.SigType) (*metadata.Type, error) {
	if name, ok := builtinElementNames[sig.Kind]; ok {
		return b.getOrStub("System", name), nil
	}
	switch sig.Kind {
	case flags.ElementType_PTR:
		inner, ok := sig.Value.(winmd.SigType)
		if !ok {
			return nil, fmt.Errorf("malformed pointer signature")
		}
		elem, err := b.typeOf(inner)
		if err != nil {
			return nil, err
		}
		return b.cat.PointerTo(elem), nil
	case flags.ElementType_ARRAY, flags.ElementType_SZARRAY:
		inner, ok := sig.Value.(winmd.SigType)
		if !ok {
			return nil, fmt.Errorf("malformed array signature")
		}
		elem, err := b.typeOf(inner)
		if err != nil {
			return nil, err
		}
		return b.cat.ArrayOf(elem), nil
	}
	ci, ok := sig.Value.(winmd.CodedIndex)
	if !ok {
		return nil, fmt.Errorf("unsupported element type %d", sig.Kind)
	}
	name, ok := b.extendsName(ci)
	if !ok {
		return nil, fmt.Errorf("unresolvable type reference")
	}
	if t, exists := b.result.Types[name]; exists {
		return t, nil
	}
	return b.stubClass(name), nil
}

func (b *winmdBuilder) getOrStub(namespace, name string) *metadata.Type {
	full := fullName(namespace, name)
	if t, ok := b.result.Types[full]; ok {
		return t
	}
	t := b.cat.NewClass(namespace, name, nil)
	b.result.Types[full] = t
	return t
}

func (b *winmdBuilder) stubClass(full string) *metadata.Type {
	ns, name := splitFullName(full)
	return b.getOrStub(ns, name)
}

func splitFullName(full string) (string, string) {
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "", full
}

func matchesNamespace(ns string, prefixes []string) bool {
	for _, p := range prefixes {
		if ns == p || strings.HasPrefix(ns, p+".") {
			return true
		}
	}
	return false
}
