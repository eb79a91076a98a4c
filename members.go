package typelens

import (
	"sort"
	"strings"

	"github.com/typelens/typelens/metadata"
)

// DeclarationFlags describes how a retained member relates to the statically
// declared type of the inspected expression.
type DeclarationFlags uint8

const (
	// FromSubTypeOfDeclaredType marks a member declared on a strict subtype
	// of the declared type. Reaching it from the declared type requires a
	// downcast to the runtime type.
	FromSubTypeOfDeclaredType DeclarationFlags = 1 << 0

	// RequiresExplicitCast marks a member hidden by a same-named declaration
	// on a more derived type, reachable only through an explicit cast to its
	// declaring type.
	RequiresExplicitCast DeclarationFlags = 1 << 1

	// IncludeTypeInName marks a member whose display name must carry its
	// declaring type, because another retained member shares the name.
	IncludeTypeInName DeclarationFlags = 1 << 2

	// HideNonPublic marks a non-public member whose declaring type's module
	// has no loaded debug symbols; the display layer suppresses it.
	HideNonPublic DeclarationFlags = 1 << 3
)

// Has reports whether every flag in mask is set.
func (f DeclarationFlags) Has(mask DeclarationFlags) bool { return f&mask == mask }

// String returns a pipe-separated listing of the set flags.
func (f DeclarationFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(FromSubTypeOfDeclaredType) {
		parts = append(parts, "from_subtype")
	}
	if f.Has(RequiresExplicitCast) {
		parts = append(parts, "requires_cast")
	}
	if f.Has(IncludeTypeInName) {
		parts = append(parts, "include_type_in_name")
	}
	if f.Has(HideNonPublic) {
		parts = append(parts, "hide_non_public")
	}
	return strings.Join(parts, "|")
}

// MemberAndDeclarationInfo is one row of a resolved member view: a member
// together with its optional browsable directive, declaration flags, and the
// inheritance distance from the inspected runtime type to its declaring
// type.
type MemberAndDeclarationInfo struct {
	Member *metadata.Member

	// BrowsableState is nil when the host reported no directive for the
	// member on its declaring type.
	BrowsableState *BrowsableState

	Flags DeclarationFlags

	InheritanceDepth int
}

// DisplayName returns the member name, qualified with its declaring type
// when the view contains a same-named member from another level.
func (m MemberAndDeclarationInfo) DisplayName() string {
	if m.Flags.Has(IncludeTypeInName) {
		return m.Member.DeclaringType().Name() + "." + m.Member.Name()
	}
	return m.Member.Name()
}

// HideNonPublic reports whether the display layer should suppress the member
// for lack of debug symbols.
func (m MemberAndDeclarationInfo) HideNonPublic() bool {
	return m.Flags.Has(HideNonPublic) && !IsPublicOrProtected(m.Member)
}

// CollectOptions configures a CollectMembers walk.
type CollectOptions struct {
	// IncludeInherited walks the full base chain instead of stopping after
	// the runtime type's own members.
	IncludeInherited bool

	// HideNonPublicWithoutSymbols marks non-public members of types whose
	// module has no loaded debug symbols with the HideNonPublic flag.
	HideNonPublicWithoutSymbols bool
}

// previousDeclaration records what the walk last saw for a member name: the
// accumulated flags of the most recently visited declaration, and the index
// in the result of the most recently retained one (-1 if none).
type previousDeclaration struct {
	flags     DeclarationFlags
	keptIndex int
}

// CollectMembers walks typ's base chain from most derived toward (and
// excluding) the universal root type and returns the ordered member view an
// inspector should display for a value whose runtime type is typ and whose
// static type is declared. Members are retained when they pass pred and are
// not collapsed into an overriding declaration on a more derived level; each
// retained member carries the declaration flags and browsable directive the
// display layer needs.
//
// typ must be a class; passing an interface is a programming error, since
// interfaces have no base chain to walk.
//
// The result is sorted by name (ordinal), then inheritance depth (most
// derived first), then flags, then browsable directive, deterministic for a
// fixed catalog.
func (in *Inspector) CollectMembers(typ, declared *metadata.Type, pred func(*metadata.Member) bool, opts CollectOptions) []MemberAndDeclarationInfo {
	if typ.IsInterface() {
		panic("typelens: CollectMembers requires a class hierarchy, got interface " + typ.FullName())
	}

	// region holds FromSubTypeOfDeclaredType until the walk reaches the
	// declared type, then permanently clears.
	region := FromSubTypeOfDeclaredType
	var prevMap map[string]previousDeclaration
	if opts.IncludeInherited {
		prevMap = make(map[string]previousDeclaration)
	}

	var out []MemberAndDeclarationInfo
	depth := 0
	walkBaseChain(typ, func(cur *metadata.Type) bool {
		if cur == declared {
			region = 0
		}

		browsable := in.browsableStates(cur)

		var hide DeclarationFlags
		if opts.HideNonPublicWithoutSymbols && !in.hasLoadedSymbols(cur.Module()) {
			hide = HideNonPublic
		}

		for _, m := range cur.Members() {
			if !pred(m) {
				continue
			}
			name := m.Name()

			prev := previousDeclaration{keptIndex: -1}
			seen := false
			if prevMap != nil {
				prev, seen = prevMap[name]
				if seen {
					// Genuine name collision: both declarations display
					// their declaring type.
					prev.flags |= IncludeTypeInName
				}

				// Record this declaration for the next level to consult:
				// carry the collision bit, replace the cast and region bits.
				rec := previousDeclaration{
					flags:     (prev.flags &^ (RequiresExplicitCast | FromSubTypeOfDeclaredType)) | region,
					keptIndex: -1,
				}
				if m.RequiresExplicitCastWhenHidden() {
					rec.flags |= RequiresExplicitCast
				}
				if seen {
					rec.keptIndex = prev.keptIndex
				}
				prevMap[name] = rec
			}

			// Keep the member if it is the first declaration of its name, or
			// the more derived declaration hides it without subsuming it.
			if seen && !prev.flags.Has(RequiresExplicitCast) {
				continue
			}

			var flags DeclarationFlags
			if region == FromSubTypeOfDeclaredType {
				flags = FromSubTypeOfDeclaredType | (prev.flags & IncludeTypeInName)
			} else {
				flags = prev.flags &^ FromSubTypeOfDeclaredType
				if prev.flags.Has(FromSubTypeOfDeclaredType) {
					// The hiding declaration sits above the declared type;
					// accessing through the declared type already reaches
					// this member, so no cast is needed.
					flags &^= RequiresExplicitCast
				}
			}
			flags |= hide

			if seen && prev.keptIndex >= 0 {
				out[prev.keptIndex].Flags |= IncludeTypeInName
			}

			var state *BrowsableState
			if v, found := browsable[name]; found {
				s := v
				state = &s
			}

			out = append(out, MemberAndDeclarationInfo{
				Member:           m,
				BrowsableState:   state,
				Flags:            flags,
				InheritanceDepth: depth,
			})
			if prevMap != nil {
				rec := prevMap[name]
				rec.keptIndex = len(out) - 1
				prevMap[name] = rec
			}
		}

		depth++
		return opts.IncludeInherited
	})

	sort.Slice(out, func(i, j int) bool { return lessMember(out[i], out[j]) })
	return out
}

// lessMember is the documented total order over member rows: name, depth,
// flags, browsable directive. A pure function of the row contents, so the
// final view is deterministic for a fixed catalog and host snapshot.
func lessMember(a, b MemberAndDeclarationInfo) bool {
	if an, bn := a.Member.Name(), b.Member.Name(); an != bn {
		return an < bn
	}
	if a.InheritanceDepth != b.InheritanceDepth {
		return a.InheritanceDepth < b.InheritanceDepth
	}
	if a.Flags != b.Flags {
		return a.Flags < b.Flags
	}
	return browsableRank(a.BrowsableState) < browsableRank(b.BrowsableState)
}

func browsableRank(s *BrowsableState) int {
	if s == nil {
		return -1
	}
	return int(*s)
}
