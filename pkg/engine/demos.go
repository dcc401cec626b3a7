package engine

import "sort"

// Demo is a built-in example scene with the resolution it was tuned for.
type Demo struct {
	Description string
	Source      string
	CellSize    float64
	Sharpness   float64
}

// Demos holds the built-in scenes, keyed by name.
var Demos = map[string]Demo{
	"sphere": {
		Description: "unit sphere",
		Source:      `(sphere 1)`,
		CellSize:    0.1,
		Sharpness:   0.1,
	},
	"csg-union": {
		Description: "sphere united with a smaller offset sphere",
		Source: `
(union (sphere 1)
       (translate (sphere 0.8) (vec3 0.7 0 0)))`,
		CellSize:  0.1,
		Sharpness: 0.1,
	},
	"csg-intersection": {
		Description: "sphere intersected with a sharp box",
		Source: `
(intersection (sphere 1)
              (rounded-box (vec3 0.7 0.7 0.7) 0))`,
		CellSize:  0.1,
		Sharpness: 0.1,
	},
	"sphere-hole": {
		Description: "sphere with a cylindrical bore along Y",
		Source: `
(subtract (sphere 1)
          (cylinder :radius 0.4 :half-height 2))`,
		CellSize:  0.1,
		Sharpness: 0.1,
	},
	"sharp-cube": {
		Description: "cube with exact corners and edges",
		Source:      `(rounded-box (vec3 1 1 1) 0)`,
		CellSize:    0.1,
		Sharpness:   0,
	},
	"rounded-cube": {
		Description: "cube with 0.1 edge fillets",
		Source:      `(rounded-box :half (vec3 1 1 1) :radius 0.1)`,
		CellSize:    0.08,
		Sharpness:   0,
	},
	"torus": {
		Description: "torus in the XZ plane",
		Source:      `(torus :major 1 :minor 0.3)`,
		CellSize:    0.08,
		Sharpness:   0.1,
	},
	"gyroid": {
		Description: "gyroid clipped to a cube of half size 2",
		Source:      `(gyroid :scale 3.14159 :threshold 0 :bounds 2)`,
		CellSize:    0.08,
		Sharpness:   0.1,
	},
	"schwartz-p": {
		Description: "Schwarz P surface clipped to a cube of half size 2",
		Source:      `(schwartz-p :scale 3.14 :bounds 2)`,
		CellSize:    0.1,
		Sharpness:   0.1,
	},
	"csg-pair": {
		Description: "two parts combining offset sphere, box and torus",
		Source: `
; shared operands
(def offset-ball (translate (sphere 0.8) (vec3 0.5 0 0)))
(def offset-block (translate (rounded-box (vec3 0.6 0.6 0.6) 0.05) (vec3 -0.5 0 0)))
(def offset-ring (translate (torus 0.6 0.25) (vec3 -0.5 0 0)))

(part "ball-block" (union offset-ball offset-block))
(part "ball-minus-ring" (subtract offset-ball offset-ring))`,
		CellSize:  0.1,
		Sharpness: 0.1,
	},
}

// DemoNames returns the demo names in sorted order.
func DemoNames() []string {
	names := make([]string, 0, len(Demos))
	for name := range Demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
