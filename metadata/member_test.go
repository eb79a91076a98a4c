package metadata

import "testing"

func TestRequiresExplicitCastWhenHidden(t *testing.T) {
	cat := New("System", "Object")
	typ := cat.NewClass("App", "Widget", nil)

	tests := []struct {
		name   string
		member *Member
		want   bool
	}{
		{
			name:   "field",
			member: cat.AddField(typ, "f", AccessPublic),
			want:   true,
		},
		{
			name:   "non-virtual getter",
			member: cat.AddProperty(typ, "P1", AccessPublic, PropertyOptions{}),
			want:   true,
		},
		{
			name:   "new-slot virtual getter",
			member: cat.AddProperty(typ, "P2", AccessPublic, PropertyOptions{Virtual: true, NewSlot: true}),
			want:   true,
		},
		{
			name:   "overriding virtual getter",
			member: cat.AddProperty(typ, "P3", AccessPublic, PropertyOptions{Virtual: true}),
			want:   false,
		},
		{
			name:   "getter-less property",
			member: cat.AddProperty(typ, "P4", AccessPublic, PropertyOptions{NoGetter: true}),
			want:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.member.RequiresExplicitCastWhenHidden(); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRequiresExplicitCastWhenHiddenUnknownKindPanics(t *testing.T) {
	m := &Member{name: "bogus", kind: MemberKind(42)}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unrecognized member kind")
		}
	}()
	m.RequiresExplicitCastWhenHidden()
}

func TestMemberAccessors(t *testing.T) {
	cat := New("System", "Object")
	typ := cat.NewClass("App", "Widget", nil)
	str := cat.NewClass("System", "String", nil)

	m := cat.AddProperty(typ, "Name", AccessFamily, PropertyOptions{Virtual: true}).OfType(str)
	if m.Name() != "Name" || m.Kind() != MemberProperty {
		t.Error("unexpected identity")
	}
	if m.DeclaringType() != typ {
		t.Error("unexpected declaring type")
	}
	if m.Type() != str {
		t.Error("unexpected member type")
	}
	if m.Access() != AccessFamily {
		t.Error("unexpected access")
	}
	if !m.HasGetter() || m.IndexParams() != 0 {
		t.Error("unexpected getter shape")
	}
	if !m.IsVirtual() || m.IsNewSlot() {
		t.Error("unexpected slot shape")
	}
}

func TestNewSlotRequiresVirtual(t *testing.T) {
	cat := New("System", "Object")
	typ := cat.NewClass("App", "Widget", nil)

	m := cat.AddProperty(typ, "P", AccessPublic, PropertyOptions{NewSlot: true})
	if m.IsNewSlot() {
		t.Error("NewSlot without Virtual should not stick")
	}
}
