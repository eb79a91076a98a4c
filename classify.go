package typelens

import "github.com/typelens/typelens/metadata"

// IsDisplayable reports whether a member can appear in an inspector view at
// all: any field, or a property exposing a getter with no index parameters.
// Accessibility does not matter here; non-public members are displayable and
// filtered separately.
func IsDisplayable(m *metadata.Member) bool {
	switch m.Kind() {
	case metadata.MemberField:
		return true
	case metadata.MemberProperty:
		return m.HasGetter() && m.IndexParams() == 0
	default:
		return false
	}
}

// IsPublicOrProtected reports whether a field, or a property's getter, is
// declared public or family. A property with no getter is not public.
func IsPublicOrProtected(m *metadata.Member) bool {
	switch m.Kind() {
	case metadata.MemberField:
		return m.Access() == metadata.AccessPublic || m.Access() == metadata.AccessFamily
	case metadata.MemberProperty:
		if !m.HasGetter() {
			return false
		}
		return m.Access() == metadata.AccessPublic || m.Access() == metadata.AccessFamily
	default:
		return false
	}
}
