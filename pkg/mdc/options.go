package mdc

import (
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBisectionSteps is used when Options.BisectionSteps is zero.
	DefaultBisectionSteps = 8
	// DefaultMaxCells bounds the cells per grid axis when Options.MaxCells is zero.
	DefaultMaxCells = 512

	// minTruncation keeps the QEF pseudo-inverse away from numerically
	// zero eigenvalues even at Sharpness 0.
	minTruncation = 1e-6
	// clampPadding is the fraction of a cell a vertex may sit outside it.
	clampPadding = 0.01
	// degenerateArea, times the squared cell size, is the largest triangle
	// area treated as collapsed.
	degenerateArea = 1e-9
)

// Options configures an Engine.
type Options struct {
	// CellSize is the edge length of a grid cell in world units.
	CellSize float64
	// Sharpness selects how many QEF directions are honoured: 0 keeps every
	// constrained direction (sharp corners and edges), 1 keeps only the
	// dominant one (smoothest placement).
	Sharpness float64
	// BisectionSteps refines each crossing before the final interpolation.
	BisectionSteps int
	// Workers shards sampling and fitting. 0 or 1 runs serially.
	Workers int
	// MaxCells caps the grid resolution per axis.
	MaxCells int
	// Logger receives progress at debug level. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger
}

// DefaultOptions returns options for the given cell size.
func DefaultOptions(cellSize float64) Options {
	return Options{
		CellSize:       cellSize,
		Sharpness:      0.1,
		BisectionSteps: DefaultBisectionSteps,
		MaxCells:       DefaultMaxCells,
	}
}

// Validate reports the first invalid option as a *ConfigError.
func (o Options) Validate() error {
	switch {
	case math.IsNaN(o.CellSize) || math.IsInf(o.CellSize, 0):
		return &ConfigError{Field: "CellSize", Value: o.CellSize, Reason: "must be finite"}
	case o.CellSize <= 0:
		return &ConfigError{Field: "CellSize", Value: o.CellSize, Reason: "must be positive"}
	case math.IsNaN(o.Sharpness) || o.Sharpness < 0 || o.Sharpness > 1:
		return &ConfigError{Field: "Sharpness", Value: o.Sharpness, Reason: "must be in [0, 1]"}
	case o.BisectionSteps < 0:
		return &ConfigError{Field: "BisectionSteps", Value: o.BisectionSteps, Reason: "must not be negative"}
	case o.Workers < 0:
		return &ConfigError{Field: "Workers", Value: o.Workers, Reason: "must not be negative"}
	case o.MaxCells < 0:
		return &ConfigError{Field: "MaxCells", Value: o.MaxCells, Reason: "must not be negative"}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.BisectionSteps == 0 {
		o.BisectionSteps = DefaultBisectionSteps
	}
	if o.MaxCells == 0 {
		o.MaxCells = DefaultMaxCells
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}
