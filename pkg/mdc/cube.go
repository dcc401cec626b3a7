package mdc

import "math/bits"

// Local cell conventions.
//
// Corner c sits at offset (c&1, c>>1&1, c>>2&1) from the cell origin.
// Edge e runs along axis a = e/4. With u = (a+1)%3 and v = (a+2)%3 its
// start corner has bit u = e&1 and bit v = e>>1&1; the end corner adds bit a.
// Face f lies on axis a = f/2 at side f&1; its corners are listed counter
// clockwise in the (u, v) plane.

const (
	numCorners = 8
	numEdges   = 12
	numFaces   = 6
)

var cubeFaces = buildFaces()

func buildFaces() [numFaces][4]int {
	var faces [numFaces][4]int
	for a := 0; a < 3; a++ {
		u, v := (a+1)%3, (a+2)%3
		for s := 0; s < 2; s++ {
			base := s << a
			faces[a*2+s] = [4]int{
				base,
				base | 1<<u,
				base | 1<<u | 1<<v,
				base | 1<<v,
			}
		}
	}
	return faces
}

func cornerOffset(c int) [3]int {
	return [3]int{c & 1, c >> 1 & 1, c >> 2 & 1}
}

// edgeCorners returns the start and end corner of edge e.
func edgeCorners(e int) (int, int) {
	a := e / 4
	u, v := (a+1)%3, (a+2)%3
	s := (e&1)<<u | (e>>1&1)<<v
	return s, s | 1<<a
}

// edgeBetween returns the edge joining two corners that differ in one bit.
func edgeBetween(c1, c2 int) int {
	a := bits.TrailingZeros(uint(c1 ^ c2))
	s := min(c1, c2)
	u, v := (a+1)%3, (a+2)%3
	return a*4 + (s>>u&1) + 2*(s>>v&1)
}

// localEdge returns the edge along axis a whose start corner has the given
// u and v bits.
func localEdge(a, ub, vb int) int {
	return a*4 + ub + 2*vb
}

func cornerInside(mask uint8, c int) bool {
	return mask>>c&1 == 1
}

func edgeCrosses(mask uint8, e int) bool {
	c1, c2 := edgeCorners(e)
	return cornerInside(mask, c1) != cornerInside(mask, c2)
}
