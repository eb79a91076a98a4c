package provider

import "testing"

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		full, ns, name string
	}{
		{"Windows.Win32.Foundation.POINT", "Windows.Win32.Foundation", "POINT"},
		{"System.Object", "System", "Object"},
		{"POINT", "", "POINT"},
	}
	for _, tc := range cases {
		ns, name := splitFullName(tc.full)
		if ns != tc.ns || name != tc.name {
			t.Errorf("splitFullName(%q) = %q, %q; want %q, %q", tc.full, ns, name, tc.ns, tc.name)
		}
	}
}

func TestMatchesNamespace(t *testing.T) {
	prefixes := []string{"Windows.Win32.Foundation"}
	if !matchesNamespace("Windows.Win32.Foundation", prefixes) {
		t.Error("exact namespace should match")
	}
	if !matchesNamespace("Windows.Win32.Foundation.Metadata", prefixes) {
		t.Error("child namespace should match")
	}
	if matchesNamespace("Windows.Win32.FoundationX", prefixes) {
		t.Error("sibling namespace with a shared prefix should not match")
	}
}

func TestBuildFromWinMDMissingFile(t *testing.T) {
	_, err := BuildFromWinMD(WinMDOptions{Path: "testdata/absent.winmd"})
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
}
