package mdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeConventions(t *testing.T) {
	for e := 0; e < numEdges; e++ {
		c1, c2 := edgeCorners(e)
		assert.Equal(t, 1<<(e/4), c1^c2, "edge %d", e)
		assert.Equal(t, e, edgeBetween(c1, c2))
		assert.Equal(t, e, edgeBetween(c2, c1))
	}
	for f, corners := range cubeFaces {
		a := f / 2
		for k := 0; k < 4; k++ {
			assert.Equal(t, f&1, corners[k]>>a&1, "face %d corner %d", f, k)
			diff := corners[k] ^ corners[(k+1)%4]
			assert.Equal(t, 1, popcount(diff), "face %d is not a cycle", f)
		}
	}
}

func popcount(x int) int {
	n := 0
	for ; x != 0; x &= x - 1 {
		n++
	}
	return n
}

func TestSymmetriesArePermutations(t *testing.T) {
	seen := make(map[[numCorners]int]bool)
	for _, s := range cubeSymmetries {
		var hit [numCorners]bool
		for _, c := range s {
			hit[c] = true
		}
		for c := range hit {
			require.True(t, hit[c], "symmetry %v misses corner %d", s, c)
		}
		// Adjacent corners stay adjacent.
		for e := 0; e < numEdges; e++ {
			c1, c2 := edgeCorners(e)
			assert.Equal(t, 1, popcount(s[c1]^s[c2]))
		}
		seen[s] = true
	}
	assert.Len(t, seen, 48)
}

func TestCaseTableComplete(t *testing.T) {
	for m := 0; m < 256; m++ {
		mask := uint8(m)
		sc := caseTable[m]
		require.True(t, sc.ok, "mask %08b", mask)

		direct := traceSheets(mask)
		assert.Equal(t, direct, sc, "mask %08b differs from direct tracing", mask)

		sizes := make([]int, sc.sheets)
		for e := 0; e < numEdges; e++ {
			crosses := edgeCrosses(mask, e)
			if !crosses {
				assert.Equal(t, int8(-1), sc.sheet[e])
				continue
			}
			require.GreaterOrEqual(t, sc.sheet[e], int8(0))
			sizes[sc.sheet[e]]++
		}
		for s, n := range sizes {
			assert.GreaterOrEqual(t, n, 3, "mask %08b sheet %d", mask, s)
		}
	}
}

func TestCaseTableMatchesRebuild(t *testing.T) {
	// The table is built during package initialization and must see the
	// finished face and symmetry tables.
	require.Equal(t, buildFaces(), cubeFaces)
	require.Equal(t, buildSymmetries(), cubeSymmetries)
	require.Equal(t, buildCaseTable(), caseTable)
	for f, corners := range cubeFaces {
		assert.NotEqual(t, [4]int{}, corners, "face %d", f)
	}
}

func TestCaseTableSymmetric(t *testing.T) {
	for m := 0; m < 256; m++ {
		mask := uint8(m)
		for s := range cubeSymmetries {
			sym := &cubeSymmetries[s]
			img := caseTable[applyMask(sym, mask)]
			require.Equal(t, caseTable[m].sheets, img.sheets)
			// Edges in one sheet map to edges in one sheet.
			for e1 := 0; e1 < numEdges; e1++ {
				for e2 := e1 + 1; e2 < numEdges; e2++ {
					a, b := caseTable[m].sheet[e1], caseTable[m].sheet[e2]
					if a < 0 || b < 0 {
						continue
					}
					same := img.sheet[applyEdge(sym, e1)] == img.sheet[applyEdge(sym, e2)]
					if (a == b) != same {
						t.Fatalf("mask %08b symmetry %d splits edges %d and %d", mask, s, e1, e2)
					}
				}
			}
		}
	}
}

func TestCaseTableKnownConfigurations(t *testing.T) {
	tests := []struct {
		name   string
		mask   uint8
		sheets int8
	}{
		{"empty", 0x00, 0},
		{"full", 0xff, 0},
		{"single corner", 0x01, 1},
		{"single corner complement", 0xfe, 1},
		{"face half", 0x0f, 1},
		{"face diagonal", 1<<0 | 1<<3, 2},
		{"opposite corners", 1<<0 | 1<<7, 2},
		{"adjacent pair complement", 0xf6, 1},
		{"three corners on a face", 1<<0 | 1<<1 | 1<<2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sheets, caseTable[tt.mask].sheets)
		})
	}
	// A single inside corner links its three edges.
	sc := caseTable[0x01]
	for _, e := range []int{localEdge(0, 0, 0), localEdge(1, 0, 0), localEdge(2, 0, 0)} {
		assert.Equal(t, int8(0), sc.sheet[e])
	}
}

func TestJoinedFaces(t *testing.T) {
	// Two cut-off corners on the bottom face keep their segments apart.
	assert.Equal(t, [numFaces]bool{}, caseTable[1<<0|1<<3].joined)
	// A full bottom face with the top diagonal inside runs one sheet
	// through both top segments.
	sc := caseTable[0x0f|1<<4|1<<7]
	assert.Equal(t, int8(1), sc.sheets)
	assert.Equal(t, [numFaces]bool{5: true}, sc.joined)
	// Faces with a single segment are never joined.
	assert.Equal(t, [numFaces]bool{}, caseTable[0x01].joined)
}

func TestSheetCasePanicsOnMissingEntry(t *testing.T) {
	saved := caseTable[0x01]
	caseTable[0x01] = sheetCase{}
	defer func() { caseTable[0x01] = saved }()

	tp := &topology{log: discardLogger()}
	defer func() {
		r := recover()
		require.NotNil(t, r)
		ie, ok := r.(*InvariantError)
		require.True(t, ok)
		assert.Equal(t, uint8(0x01), ie.Mask)
	}()
	tp.sheetCase(0x01)
}
