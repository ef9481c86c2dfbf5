package render

import "strings"

// Contextual shaping for the Arabic block. Letters are replaced by their
// isolated, final, initial or medial presentation forms (U+FE80..U+FEFC)
// according to their neighbours, and lam followed by alef becomes a ligature.

type joining uint8

const (
	joinNone joining = iota
	joinRight        // joins to the preceding letter only
	joinDual         // joins on both sides
	joinCausing      // tatweel: joins both sides, has no forms
)

type letterForms struct {
	join joining
	base rune // isolated form; final, initial, medial follow in that order
}

var arabicForms = buildArabicForms()

func buildArabicForms() map[rune]letterForms {
	// Letters in code point order with the number of presentation forms each
	// occupies in the FE80 block.
	groups := []struct {
		from, to rune
		count    int
	}{
		{0x0621, 0x0621, 1},
		{0x0622, 0x0625, 2},
		{0x0626, 0x0626, 4},
		{0x0627, 0x0627, 2},
		{0x0628, 0x0628, 4},
		{0x0629, 0x0629, 2},
		{0x062A, 0x062E, 4},
		{0x062F, 0x0632, 2},
		{0x0633, 0x063A, 4},
		{0x0641, 0x0647, 4},
		{0x0648, 0x0649, 2},
		{0x064A, 0x064A, 4},
	}
	m := make(map[rune]letterForms, 40)
	next := rune(0xFE80)
	for _, g := range groups {
		for r := g.from; r <= g.to; r++ {
			j := joinNone
			switch g.count {
			case 2:
				j = joinRight
			case 4:
				j = joinDual
			}
			m[r] = letterForms{join: j, base: next}
			next += rune(g.count)
		}
	}
	m[0x0640] = letterForms{join: joinCausing}
	return m
}

// lam-alef ligatures, isolated form; final is +1.
var lamAlef = map[rune]rune{
	0x0622: 0xFEF5,
	0x0623: 0xFEF7,
	0x0625: 0xFEF9,
	0x0627: 0xFEFB,
}

const lam = 0x0644

func isTransparent(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

func joinOf(r rune) joining {
	if f, ok := arabicForms[r]; ok {
		return f.join
	}
	return joinNone
}

func joinsForward(j joining) bool  { return j == joinDual || j == joinCausing }
func joinsBackward(j joining) bool { return j != joinNone }

// ShapeArabic replaces Arabic letters in s with their contextual
// presentation forms. Text without Arabic letters is returned unchanged.
// s must be in logical order.
func ShapeArabic(s string) string {
	runes := []rune(s)
	if !hasArabic(runes) {
		return s
	}

	neighbour := func(i, dir int) (rune, bool) {
		for k := i + dir; k >= 0 && k < len(runes); k += dir {
			if isTransparent(runes[k]) {
				continue
			}
			return runes[k], true
		}
		return 0, false
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		f, ok := arabicForms[r]
		if !ok || f.join == joinCausing {
			b.WriteRune(r)
			continue
		}

		prev, hasPrev := neighbour(i, -1)
		joinPrev := hasPrev && joinsForward(joinOf(prev)) && joinsBackward(f.join)

		if r == lam {
			if k, alef, ok := nextLetter(runes, i); ok {
				if lig, ok := lamAlef[alef]; ok {
					if joinPrev {
						lig++
					}
					b.WriteRune(lig)
					// carry marks between lam and alef
					for _, m := range runes[i+1 : k] {
						b.WriteRune(m)
					}
					i = k
					continue
				}
			}
		}

		next, hasNext := neighbour(i, 1)
		joinNext := hasNext && joinsForward(f.join) && joinsBackward(joinOf(next))

		b.WriteRune(f.form(joinPrev, joinNext))
	}
	return b.String()
}

func (f letterForms) form(joinPrev, joinNext bool) rune {
	switch {
	case f.join == joinNone:
		return f.base
	case f.join == joinRight:
		if joinPrev {
			return f.base + 1
		}
		return f.base
	case joinPrev && joinNext:
		return f.base + 3
	case joinNext:
		return f.base + 2
	case joinPrev:
		return f.base + 1
	default:
		return f.base
	}
}

func nextLetter(runes []rune, i int) (int, rune, bool) {
	for k := i + 1; k < len(runes); k++ {
		if isTransparent(runes[k]) {
			continue
		}
		return k, runes[k], true
	}
	return 0, 0, false
}

func hasArabic(runes []rune) bool {
	for _, r := range runes {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}
