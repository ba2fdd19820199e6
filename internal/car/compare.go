package car

import (
	"cmp"
	"sort"
	"strings"
)

// Compare orders records by model year (absent first), then horsepower, then
// case-insensitive name, all ascending. It returns 0 only when all three keys
// tie.
func Compare(a, b Record) int {
	// Primary: model year ASC
	if c := a.ModelYear.Compare(b.ModelYear); c != 0 {
		return c
	}
	// Secondary: horsepower ASC
	if c := cmp.Compare(a.Horsepower, b.Horsepower); c != 0 {
		return c
	}
	// Tertiary: name ASC, case-folded
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// Less reports whether a sorts strictly before b.
func Less(a, b Record) bool {
	return Compare(a, b) < 0
}

// Sort sorts records in place. The sort is stable, so records that compare
// equal keep their input order.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}
