// Package locale provides locale-aware string collation for stable,
// user-facing orderings.
package locale

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings under a BCP 47 locale. The zero value is
// not usable; construct with New.
type Collator struct {
	c *collate.Collator
}

// New builds a collator for the given locale tag, falling back to
// English when the tag does not parse. Case differences are ignored so
// "suite" and "Suite" sort together.
func New(tag string) *Collator {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	return &Collator{c: collate.New(t, collate.IgnoreCase)}
}

// Compare returns -1, 0, or +1 per the locale's collation order.
func (col *Collator) Compare(a, b string) int {
	return col.c.CompareString(a, b)
}

// Less is a sort.Slice-friendly form of Compare.
func (col *Collator) Less(a, b string) bool {
	return col.c.CompareString(a, b) < 0
}
