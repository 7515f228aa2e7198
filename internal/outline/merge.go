package outline

import (
	"math"
	"sort"
)

// SortReadingOrder sorts fragments by (page, y), keeping the provider order
// for fragments on the same line.
func SortReadingOrder(frags []Fragment) []Fragment {
	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Y < sorted[j].Y
	})
	return sorted
}

// Merge coalesces consecutive fragments on the same page whose line tops are
// closer than tolerance and whose sizes are identical. Input is sorted into
// reading order first.
func Merge(frags []Fragment, tolerance float64) []Unit {
	var units []Unit
	var acc *Unit
	for _, f := range SortReadingOrder(frags) {
		if acc != nil && sameLine(*acc, f, tolerance) {
			acc.Text += " " + f.Text
			continue
		}
		if acc != nil {
			units = append(units, *acc)
		}
		u := Unit(f)
		acc = &u
	}
	if acc != nil {
		units = append(units, *acc)
	}
	return units
}

func sameLine(acc Unit, f Fragment, tolerance float64) bool {
	return f.Page == acc.Page &&
		math.Abs(f.Y-acc.Y) < tolerance &&
		f.Size == acc.Size
}
