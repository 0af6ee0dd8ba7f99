package loess

import "math"

// Kernel weights a neighbour by its scaled distance u = d/h, u >= 0.
type Kernel interface {
	Shape(u float64) float64
}

type TricubeKernel struct{}

func NewTricubeKernel() *TricubeKernel {
	return &TricubeKernel{}
}

func (k *TricubeKernel) Shape(u float64) float64 {
	u = math.Abs(u)
	if u >= 1 {
		return 0
	}
	t := 1 - u*u*u
	return t * t * t
}

// GaussianKernel is truncated at 3 sigma so far points still drop out.
type GaussianKernel struct{}

func NewGaussianKernel() *GaussianKernel {
	return &GaussianKernel{}
}

func (k *GaussianKernel) Shape(u float64) float64 {
	u = math.Abs(u)
	if u >= 1 {
		return 0
	}
	x := 3 * u
	return 0.3989422804014327 * math.Exp(-x*x/2.0)
}

func KernelByName(name string) (Kernel, bool) {
	switch name {
	case "", "tricube":
		return NewTricubeKernel(), true
	case "gaussian":
		return NewGaussianKernel(), true
	}
	return nil, false
}
