package locale

import (
	"sort"
	"testing"
)

func TestCompareIgnoresCase(t *testing.T) {
	col := New("en")
	if col.Compare("Suite", "suite") != 0 {
		t.Error("expected case-insensitive comparison to treat Suite and suite as equal")
	}
}

func TestLessOrdersAccentedNames(t *testing.T) {
	col := New("en")
	names := []string{"Östra flygeln", "Zimmer 1", "Annexet"}
	sort.Slice(names, func(i, j int) bool { return col.Less(names[i], names[j]) })

	// Under collation rules Ö sorts with O, not after Z as raw bytes would.
	want := []string{"Annexet", "Östra flygeln", "Zimmer 1"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestNewFallsBackOnBadTag(t *testing.T) {
	col := New("definitely-not-a-locale!!")
	if col.Compare("a", "b") >= 0 {
		t.Error("fallback collator should still order a before b")
	}
}
