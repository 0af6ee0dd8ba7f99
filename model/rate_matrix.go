package model

import (
	"fmt"
	"math"

	"github.com/uyouii/ratebands/common"
)

type RateKind int

const (
	Speciation         RateKind = 1
	Extinction         RateKind = 2
	NetDiversification RateKind = 3
	TraitRate          RateKind = 4
)

var rateKindNames = map[RateKind]string{
	Speciation:         "speciation",
	Extinction:         "extinction",
	NetDiversification: "netdiv",
	TraitRate:          "trait",
}

func (k RateKind) String() string {
	if name, ok := rateKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RateKind(%d)", int(k))
}

// Label is the value axis caption for the kind.
func (k RateKind) Label() string {
	switch k {
	case Speciation:
		return "speciation rate"
	case Extinction:
		return "extinction rate"
	case NetDiversification:
		return "net diversification rate"
	case TraitRate:
		return "trait rate"
	}
	return k.String()
}

func ParseRateKind(s string) (RateKind, error) {
	for kind, name := range rateKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, common.InvalidArgument("unknown rate kind %q", s)
}

// RateMatrix rows are samples, columns are time bins ascending in time before present.
type RateMatrix struct {
	Values [][]float64
	Times  []float64
}

func (m *RateMatrix) Samples() int {
	if m == nil {
		return 0
	}
	return len(m.Values)
}

func (m *RateMatrix) Bins() int {
	if m == nil {
		return 0
	}
	return len(m.Times)
}

// Column copies column j so callers may sort it.
func (m *RateMatrix) Column(j int) []float64 {
	res := make([]float64, len(m.Values))
	for i, row := range m.Values {
		res[i] = row[j]
	}
	return res
}

func (m *RateMatrix) Validate() error {
	if m == nil || len(m.Values) == 0 {
		return common.InvalidArgument("rate matrix is empty")
	}
	if len(m.Times) == 0 {
		return common.InvalidArgument("rate matrix has no time bins")
	}
	for i, t := range m.Times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return common.InvalidArgument("time bin %d is %v, want a finite time", i, t)
		}
	}
	for i := 1; i < len(m.Times); i++ {
		if m.Times[i] < m.Times[i-1] {
			return common.InvalidArgument("time bins must be non-decreasing, bin %d (%v) < bin %d (%v)",
				i, m.Times[i], i-1, m.Times[i-1])
		}
	}
	for i, row := range m.Values {
		if len(row) != len(m.Times) {
			return common.InvalidArgument("sample %d has %d values, want %d time bins", i, len(row), len(m.Times))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return common.InvalidArgument("sample %d bin %d is %v, want a finite rate", i, j, v)
			}
		}
	}
	return nil
}
