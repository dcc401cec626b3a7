package mdc

// sheetCase groups the crossing edges of one corner configuration into
// sheets. Sheets are numbered in order of their lowest edge.
type sheetCase struct {
	sheet  [numEdges]int8 // -1 when the edge does not cross
	sheets int8
	// joined marks ambiguous faces whose two segments lie in one sheet.
	joined [numFaces]bool
	ok     bool
}

// Package-level initialization orders these by dependency: cubeFaces and
// cubeSymmetries are built before the table that is traced from them.
var (
	// cubeSymmetries holds the 48 rotations and reflections of the cube as
	// corner permutations.
	cubeSymmetries = buildSymmetries()

	// caseTable has one entry per corner-sign mask, bit c set when corner c
	// is inside.
	caseTable = buildCaseTable()
)

func buildSymmetries() [48][numCorners]int {
	perms := [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	var out [48][numCorners]int
	n := 0
	for _, p := range perms {
		for flip := 0; flip < 8; flip++ {
			for c := 0; c < numCorners; c++ {
				o := cornerOffset(c)
				m := 0
				for i := 0; i < 3; i++ {
					m |= (o[i] ^ (flip >> i & 1)) << p[i]
				}
				out[n][c] = m
			}
			n++
		}
	}
	return out
}

func applyMask(sym *[numCorners]int, mask uint8) uint8 {
	var m uint8
	for c := 0; c < numCorners; c++ {
		if cornerInside(mask, c) {
			m |= 1 << sym[c]
		}
	}
	return m
}

func applyEdge(sym *[numCorners]int, e int) int {
	c1, c2 := edgeCorners(e)
	return edgeBetween(sym[c1], sym[c2])
}

// buildCaseTable traces sheets once per symmetry class and maps every other
// configuration onto its canonical representative.
func buildCaseTable() [256]sheetCase {
	var table [256]sheetCase
	canonical := make(map[uint8]sheetCase)
	for m := 0; m < 256; m++ {
		mask := uint8(m)
		best, bestSym := mask, 0
		for s := range cubeSymmetries {
			if t := applyMask(&cubeSymmetries[s], mask); t < best {
				best, bestSym = t, s
			}
		}
		base, ok := canonical[best]
		if !ok {
			base = traceSheets(best)
			canonical[best] = base
		}
		var groups [numEdges]int
		for e := 0; e < numEdges; e++ {
			groups[e] = int(base.sheet[applyEdge(&cubeSymmetries[bestSym], e)])
		}
		table[m] = labelSheets(groups)
	}
	return table
}

// traceSheets links the crossing edges of each cell face into segments and
// returns the resulting cycles. On an ambiguous face (two diagonal inside
// corners) each inside corner is cut off on its own, so inside corners are
// never joined across a face. Both cells sharing a face apply the same
// rule, which keeps sheets consistent across the shared face.
func traceSheets(mask uint8) sheetCase {
	var parent [numEdges]int
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[max(ra, rb)] = min(ra, rb)
		}
	}

	for f := 0; f < numFaces; f++ {
		p := cubeFaces[f]
		var fe [4]int
		var crossing []int
		for k := 0; k < 4; k++ {
			fe[k] = edgeBetween(p[k], p[(k+1)%4])
			if edgeCrosses(mask, fe[k]) {
				crossing = append(crossing, fe[k])
			}
		}
		switch len(crossing) {
		case 2:
			union(crossing[0], crossing[1])
		case 4:
			for k := 0; k < 4; k++ {
				if cornerInside(mask, p[k]) {
					union(fe[(k+3)%4], fe[k])
				}
			}
		}
	}

	var groups [numEdges]int
	for e := 0; e < numEdges; e++ {
		groups[e] = -1
		if edgeCrosses(mask, e) {
			groups[e] = find(e)
		}
	}
	return labelSheets(groups)
}

// labelSheets renumbers arbitrary group ids to 0..n-1 by lowest edge.
func labelSheets(groups [numEdges]int) sheetCase {
	sc := sheetCase{ok: true}
	ids := make(map[int]int8)
	for e, g := range groups {
		if g < 0 {
			sc.sheet[e] = -1
			continue
		}
		id, seen := ids[g]
		if !seen {
			id = sc.sheets
			ids[g] = id
			sc.sheets++
		}
		sc.sheet[e] = id
	}
	for f, p := range cubeFaces {
		sc.joined[f] = true
		for k := 0; k < 4; k++ {
			s := sc.sheet[edgeBetween(p[k], p[(k+1)%4])]
			if s < 0 || s != sc.sheet[edgeBetween(p[0], p[1])] {
				sc.joined[f] = false
				break
			}
		}
	}
	return sc
}
