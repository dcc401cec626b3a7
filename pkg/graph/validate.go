package graph

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Part     string // which part has the problem (empty if scene-level)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] part %s: %s", e.Severity, e.Part, e.Message)
}

// Validate checks a scene before tessellation and returns every finding.
// It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	if len(s.Parts) == 0 {
		errs = append(errs, ValidationError{Message: "scene has no parts", Severity: SeverityError})
	}
	for i, p := range s.Parts {
		if idx, ok := s.NameIndex[p.Name]; !ok || idx != i {
			errs = append(errs, ValidationError{Part: p.Name, Message: "name index out of sync", Severity: SeverityError})
		}
		if p.Shape == nil {
			errs = append(errs, ValidationError{Part: p.Name, Message: "no shape", Severity: SeverityError})
			continue
		}
		b := p.Shape.BBox()
		switch {
		case b.IsEmpty():
			errs = append(errs, ValidationError{Part: p.Name, Message: "empty bounding box", Severity: SeverityWarning})
		case !finiteBox(b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z):
			errs = append(errs, ValidationError{Part: p.Name, Message: fmt.Sprintf("unbounded bounding box %s", b), Severity: SeverityError})
		}
	}
	return errs
}

// HasErrors reports whether any finding blocks tessellation.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func finiteBox(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
