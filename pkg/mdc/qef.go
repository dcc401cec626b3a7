package mdc

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"
)

// QEF accumulates Hermite samples (p, n) for the quadratic error
// E(x) = sum((n·(x-p))^2) in normal-equation form.
type QEF struct {
	ata  [6]float64 // xx, xy, xz, yy, yz, zz
	atb  v3.Vec
	btb  float64
	mass v3.Vec
	n    int
}

// Add records a plane through p with normal n.
func (q *QEF) Add(p, n v3.Vec) {
	q.ata[0] += n.X * n.X
	q.ata[1] += n.X * n.Y
	q.ata[2] += n.X * n.Z
	q.ata[3] += n.Y * n.Y
	q.ata[4] += n.Y * n.Z
	q.ata[5] += n.Z * n.Z
	d := n.Dot(p)
	q.atb = q.atb.Add(n.MulScalar(d))
	q.btb += d * d
	q.mass = q.mass.Add(p)
	q.n++
}

// Merge folds o into q.
func (q *QEF) Merge(o *QEF) {
	for i := range q.ata {
		q.ata[i] += o.ata[i]
	}
	q.atb = q.atb.Add(o.atb)
	q.btb += o.btb
	q.mass = q.mass.Add(o.mass)
	q.n += o.n
}

// Count is the number of samples added.
func (q *QEF) Count() int { return q.n }

// MassPoint is the mean sample position.
func (q *QEF) MassPoint() v3.Vec {
	if q.n == 0 {
		return v3.Vec{}
	}
	return q.mass.MulScalar(1 / float64(q.n))
}

func (q *QEF) mulA(x v3.Vec) v3.Vec {
	a := &q.ata
	return v3.Vec{
		X: a[0]*x.X + a[1]*x.Y + a[2]*x.Z,
		Y: a[1]*x.X + a[3]*x.Y + a[4]*x.Z,
		Z: a[2]*x.X + a[4]*x.Y + a[5]*x.Z,
	}
}

// Error evaluates the quadratic error at x.
func (q *QEF) Error(x v3.Vec) float64 {
	return x.Dot(q.mulA(x)) - 2*x.Dot(q.atb) + q.btb
}

// Solve minimizes the error relative to the mass point. Eigen directions
// whose eigenvalue falls below max(sharpness, 1e-6) of the largest one are
// left at the mass point. The result is clamped to [cellMin, cellMax]
// padded by 1% of the cell. rank counts the directions that were solved.
func (q *QEF) Solve(sharpness float64, cellMin, cellMax v3.Vec) (v3.Vec, int) {
	x, rank := q.solve(sharpness)
	pad := cellMax.Sub(cellMin).MulScalar(clampPadding)
	lo, hi := cellMin.Sub(pad), cellMax.Add(pad)
	return x.Max(lo).Min(hi), rank
}

func (q *QEF) solve(sharpness float64) (v3.Vec, int) {
	if q.n == 0 {
		return v3.Vec{}, 0
	}
	m := q.MassPoint()
	a := &q.ata
	sym := mat.NewSymDense(3, []float64{
		a[0], a[1], a[2],
		a[1], a[3], a[4],
		a[2], a[4], a[5],
	})
	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return m, 0
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	lmax := max(vals[0], vals[1], vals[2])
	if lmax <= 0 {
		return m, 0
	}
	threshold := max(sharpness, minTruncation) * lmax
	r := q.atb.Sub(q.mulA(m))
	x, rank := m, 0
	for i, l := range vals {
		if l < threshold {
			continue
		}
		u := v3.Vec{X: vecs.At(0, i), Y: vecs.At(1, i), Z: vecs.At(2, i)}
		x = x.Add(u.MulScalar(u.Dot(r) / l))
		rank++
	}
	return x, rank
}
