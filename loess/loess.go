package loess

import (
	"math"
	"sort"

	"github.com/uyouii/ratebands/common"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultSpan   = 0.2
	DefaultDegree = 2
)

// Smoother fits a weighted polynomial around every x using the span*n nearest points.
type Smoother struct {
	span   float64
	degree int
	kernel Kernel
}

func NewSmoother(span float64) (*Smoother, error) {
	if !(span > 0 && span <= 1) {
		return nil, common.InvalidArgument("smoothing span %v outside (0,1]", span)
	}
	return &Smoother{
		span:   span,
		degree: DefaultDegree,
		kernel: NewTricubeKernel(),
	}, nil
}

func (s *Smoother) SetDegree(degree int) error {
	if degree < 0 || degree > 2 {
		return common.InvalidArgument("local polynomial degree %d outside [0,2]", degree)
	}
	s.degree = degree
	return nil
}

func (s *Smoother) SetKernel(kernel Kernel) {
	if kernel == nil {
		kernel = NewTricubeKernel()
	}
	s.kernel = kernel
}

func (s *Smoother) Span() float64 {
	return s.span
}

// Smooth returns the fitted values at xs. xs need not be sorted.
func (s *Smoother) Smooth(xs, ys []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, common.InvalidArgument("smoothing input has %d times but %d values", len(xs), len(ys))
	}
	n := len(xs)
	res := make([]float64, n)
	if n == 0 {
		return res, nil
	}

	q := int(math.Ceil(s.span * float64(n)))
	q = min(max(q, s.degree+1), n)

	dists := make([]float64, n)
	sorted := make([]float64, n)
	weights := make([]float64, n)
	for i, x0 := range xs {
		for j, x := range xs {
			dists[j] = math.Abs(x - x0)
		}
		copy(sorted, dists)
		sort.Float64s(sorted)
		// the q-th neighbour sits on the window edge and gets zero weight
		h := sorted[q-1]

		for j, d := range dists {
			switch {
			case h == 0 && d == 0:
				weights[j] = 1
			case h == 0:
				weights[j] = 0
			default:
				weights[j] = s.kernel.Shape(d / h)
			}
		}
		res[i] = s.fitAt(x0, h, xs, ys, weights)
	}
	return res, nil
}

// fitAt solves the weighted least squares problem centred on x0 and returns the
// intercept, dropping the degree when there are too few distinct support points.
func (s *Smoother) fitAt(x0, h float64, xs, ys, weights []float64) float64 {
	idx := make([]int, 0, len(xs))
	distinct := map[float64]struct{}{}
	for j, w := range weights {
		if w > 0 {
			idx = append(idx, j)
			distinct[xs[j]] = struct{}{}
		}
	}
	if len(idx) == 0 {
		return math.NaN()
	}

	scale := h
	if scale == 0 {
		scale = 1
	}
	for degree := min(s.degree, len(distinct)-1); degree > 0; degree-- {
		a := mat.NewDense(len(idx), degree+1, nil)
		b := mat.NewVecDense(len(idx), nil)
		for r, j := range idx {
			sw := math.Sqrt(weights[j])
			u := (xs[j] - x0) / scale
			p := 1.0
			for c := 0; c <= degree; c++ {
				a.Set(r, c, sw*p)
				p *= u
			}
			b.SetVec(r, sw*ys[j])
		}
		var beta mat.VecDense
		if err := beta.SolveVec(a, b); err != nil {
			continue
		}
		if v := beta.AtVec(0); !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}

	// weighted mean
	sum, wsum := 0.0, 0.0
	for _, j := range idx {
		sum += weights[j] * ys[j]
		wsum += weights[j]
	}
	return sum / wsum
}
