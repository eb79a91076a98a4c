package provider

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/typelens/typelens"
	"github.com/typelens/typelens/metadata"
)

var validate = validator.New()

// CatalogDoc is the JSON catalog document format: a self-contained snapshot
// of a type hierarchy with its attributes, browsable directives and module
// symbol availability.
type CatalogDoc struct {
	Root    RootDoc     `json:"root"`
	Modules []ModuleDoc `json:"modules" validate:"dive"`
	Types   []TypeDoc   `json:"types" validate:"required,min=1,dive"`
}

// RootDoc names the universal root type. Defaults to System.Object.
type RootDoc struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// ModuleDoc declares a module and whether its debug symbols are loaded.
type ModuleDoc struct {
	Name       string `json:"name" validate:"required"`
	HasSymbols bool   `json:"has_symbols"`
}

// TypeDoc declares one class or interface.
type TypeDoc struct {
	Namespace  string         `json:"namespace"`
	Name       string         `json:"name" validate:"required"`
	Kind       string         `json:"kind" validate:"omitempty,oneof=class interface"`
	Base       string         `json:"base"` // full name; empty derives from the root
	Module     string         `json:"module"`
	TypeParams []string       `json:"type_params"`
	Members    []MemberDoc    `json:"members" validate:"dive"`
	Attributes []AttributeDoc `json:"attributes" validate:"dive"`

	// Browsable maps member names to never, collapsed or root_hidden.
	Browsable map[string]string `json:"browsable" validate:"omitempty,dive,oneof=never collapsed root_hidden"`
}

// MemberDoc declares one field or property.
type MemberDoc struct {
	Name        string `json:"name" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=field property"`
	Access      string `json:"access" validate:"omitempty,oneof=private assembly family public"`
	Type        string `json:"type"` // full name, informational
	NoGetter    bool   `json:"no_getter"`
	IndexParams int    `json:"index_params" validate:"gte=0"`
	Virtual     bool   `json:"virtual"`
	NewSlot     bool   `json:"new_slot"`
}

// AttributeDoc declares one evaluation attribute on a type.
type AttributeDoc struct {
	Kind string `json:"kind" validate:"required,oneof=display proxy visualizer browsable"`

	// display
	Value    string `json:"value,omitempty"`
	Name     string `json:"name,omitempty"`
	TypeName string `json:"type_name,omitempty"`

	// proxy: full name of a declared type
	Proxy string `json:"proxy,omitempty"`

	// visualizer
	Description              string `json:"description,omitempty"`
	UISideTypeName           string `json:"ui_side_type_name,omitempty"`
	UISideAssemblyName       string `json:"ui_side_assembly_name,omitempty"`
	DebuggeeSideTypeName     string `json:"debuggee_side_type_name,omitempty"`
	DebuggeeSideAssemblyName string `json:"debuggee_side_assembly_name,omitempty"`

	// browsable
	State string `json:"state,omitempty" validate:"omitempty,oneof=never collapsed root_hidden"`
}

// LoadCatalogFile reads and materializes a JSON catalog document.
func LoadCatalogFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog materializes a JSON catalog document.
func ParseCatalog(data []byte) (*Result, error) {
	var doc CatalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}

	rootNS, rootName := doc.Root.Namespace, doc.Root.Name
	if rootName == "" {
		rootNS, rootName = "System", "Object"
	}
	cat := metadata.New(rootNS, rootName)
	host := NewHost()
	res := &Result{
		Catalog: cat,
		Types:   map[string]*metadata.Type{fullName(rootNS, rootName): cat.Root()},
		Host:    host,
	}

	for _, m := range doc.Modules {
		host.SetSymbols(m.Name, m.HasSymbols)
	}

	if err := createTypes(cat, res, doc.Types); err != nil {
		return nil, err
	}

	for i := range doc.Types {
		td := &doc.Types[i]
		t := res.Types[fullName(td.Namespace, td.Name)]
		if err := populateType(cat, res, host, t, td); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// createTypes materializes every declared type. Bases may be declared in any
// order, so creation loops until a pass makes no progress; leftovers mean an
// unknown or cyclic base.
func createTypes(cat *metadata.Catalog, res *Result, docs []TypeDoc) error {
	pending := make([]*TypeDoc, 0, len(docs))
	for i := range docs {
		pending = append(pending, &docs[i])
	}
	for len(pending) > 0 {
		var next []*TypeDoc
		for _, td := range pending {
			name := fullName(td.Namespace, td.Name)
			if _, exists := res.Types[name]; exists {
				return fmt.Errorf("duplicate type %q", name)
			}
			if td.Kind == "interface" {
				if td.Base != "" {
					return fmt.Errorf("interface %q must not declare a base", name)
				}
				res.Types[name] = cat.NewInterface(td.Namespace, td.Name).InModule(td.Module)
				continue
			}
			var base *metadata.Type
			if td.Base != "" {
				b, ok := res.Types[td.Base]
				if !ok {
					next = append(next, td)
					continue
				}
				base = b
			}
			var t *metadata.Type
			if len(td.TypeParams) > 0 {
				t = cat.NewGenericClass(td.Namespace, td.Name, base, td.TypeParams...)
			} else {
				t = cat.NewClass(td.Namespace, td.Name, base)
			}
			res.Types[name] = t.InModule(td.Module)
		}
		if len(next) == len(pending) {
			return fmt.Errorf("unknown or cyclic base for %d type(s), starting with %q",
				len(next), next[0].Base)
		}
		pending = next
	}
	return nil
}

func populateType(cat *metadata.Catalog, res *Result, host *Host, t *metadata.Type, td *TypeDoc) error {
	typeName := fullName(td.Namespace, td.Name)
	for _, md := range td.Members {
		access, err := parseAccess(md.Access)
		if err != nil {
			return fmt.Errorf("member %s.%s: %w", typeName, md.Name, err)
		}
		var m *metadata.Member
		if md.Kind == "field" {
			m = cat.AddField(t, md.Name, access)
		} else {
			m = cat.AddProperty(t, md.Name, access, metadata.PropertyOptions{
				NoGetter:    md.NoGetter,
				IndexParams: md.IndexParams,
				Virtual:     md.Virtual,
				NewSlot:     md.NewSlot,
			})
		}
		if md.Type != "" {
			if mt, ok := res.Types[md.Type]; ok {
				m.OfType(mt)
			}
		}
	}

	for _, ad := range td.Attributes {
		attr, err := buildAttribute(res, &ad)
		if err != nil {
			return fmt.Errorf("attribute on %s: %w", typeName, err)
		}
		host.AddAttribute(t, attr)
	}

	for member, state := range td.Browsable {
		s, err := parseBrowsableState(state)
		if err != nil {
			return fmt.Errorf("browsable state for %s.%s: %w", typeName, member, err)
		}
		host.SetBrowsable(t, member, s)
	}
	return nil
}

func buildAttribute(res *Result, ad *AttributeDoc) (typelens.EvalAttribute, error) {
	switch ad.Kind {
	case "display":
		return typelens.DisplayAttribute{
			Value:    ad.Value,
			Name:     ad.Name,
			TypeName: ad.TypeName,
		}, nil
	case "proxy":
		proxy, ok := res.Types[ad.Proxy]
		if !ok {
			return nil, fmt.Errorf("unknown proxy type %q", ad.Proxy)
		}
		return typelens.ProxyAttribute{ProxyType: proxy}, nil
	case "visualizer":
		return typelens.VisualizerAttribute{
			Description:              ad.Description,
			UISideTypeName:           ad.UISideTypeName,
			UISideAssemblyName:       ad.UISideAssemblyName,
			DebuggeeSideTypeName:     ad.DebuggeeSideTypeName,
			DebuggeeSideAssemblyName: ad.DebuggeeSideAssemblyName,
		}, nil
	case "browsable":
		s, err := parseBrowsableState(ad.State)
		if err != nil {
			return nil, err
		}
		return typelens.BrowsableAttribute{State: s}, nil
	default:
		return nil, fmt.Errorf("unknown attribute kind %q", ad.Kind)
	}
}

func parseAccess(s string) (metadata.Accessibility, error) {
	switch s {
	case "", "public":
		return metadata.AccessPublic, nil
	case "family":
		return metadata.AccessFamily, nil
	case "assembly":
		return metadata.AccessAssembly, nil
	case "private":
		return metadata.AccessPrivate, nil
	default:
		return 0, fmt.Errorf("unknown access %q", s)
	}
}

func parseBrowsableState(s string) (typelens.BrowsableState, error) {
	switch s {
	case "never":
		return typelens.BrowsableNever, nil
	case "collapsed":
		return typelens.BrowsableCollapsed, nil
	case "root_hidden":
		return typelens.BrowsableRootHidden, nil
	default:
		return 0, fmt.Errorf("unknown browsable state %q", s)
	}
}
