package outline

import "sort"

// Profile is the typography of one document: the body text size, the title
// size and the size ladder mapped onto structural levels.
type Profile struct {
	BodySize     float64
	TitleSize    float64
	HeadingSizes []float64 // title size first, then the others descending

	levels map[float64]Level
}

// BuildProfile estimates body and title sizes from the merged units and
// builds the size ladder. The body size is the modal size, first seen wins
// ties. The title size is the largest size on page 1, or the body size when
// page 1 has no units.
func BuildProfile(units []Unit) Profile {
	p := Profile{levels: make(map[float64]Level)}

	counts := make(map[float64]int)
	var order []float64
	for _, u := range units {
		if _, seen := counts[u.Size]; !seen {
			order = append(order, u.Size)
		}
		counts[u.Size]++
	}
	best := 0
	for _, size := range order {
		if counts[size] > best {
			best = counts[size]
			p.BodySize = size
		}
	}

	p.TitleSize = p.BodySize
	firstPage := false
	for _, u := range units {
		if u.Page != 1 {
			continue
		}
		if !firstPage || u.Size > p.TitleSize {
			p.TitleSize = u.Size
			firstPage = true
		}
	}

	distinct := make([]float64, 0, len(order))
	for _, size := range order {
		if size != p.TitleSize {
			distinct = append(distinct, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	p.HeadingSizes = append([]float64{p.TitleSize}, distinct...)

	for i, size := range p.HeadingSizes {
		if i >= len(ladder) {
			break
		}
		p.levels[size] = ladder[i]
	}
	return p
}

// LevelOf returns the level mapped to size. Sizes past the last rung of the
// ladder have no level.
func (p Profile) LevelOf(size float64) (Level, bool) {
	l, ok := p.levels[size]
	return l, ok
}
