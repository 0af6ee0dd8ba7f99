package source

import (
	"context"
	"fmt"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
)

// SourceKind is the capability a data source declares.
type SourceKind int

const (
	DiversificationKind SourceKind = 1
	TraitKind           SourceKind = 2
)

func (k SourceKind) String() string {
	switch k {
	case DiversificationKind:
		return "diversification"
	case TraitKind:
		return "trait"
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

func (k SourceKind) Supports(rate model.RateKind) bool {
	switch k {
	case DiversificationKind:
		return rate == model.Speciation || rate == model.Extinction || rate == model.NetDiversification
	case TraitKind:
		return rate == model.TraitRate
	}
	return false
}

// CheckKind reports DomainMismatch when the source cannot serve rate.
func CheckKind(k SourceKind, rate model.RateKind) error {
	if k.Supports(rate) {
		return nil
	}
	return common.DomainMismatch("%s source cannot provide %s rates", k, rate)
}

type InclusionMode int

const (
	Include InclusionMode = 0
	Exclude InclusionMode = 1
)

func ParseInclusionMode(s string) (InclusionMode, error) {
	switch s {
	case "", "include":
		return Include, nil
	case "exclude":
		return Exclude, nil
	}
	return Include, common.InvalidArgument("unknown node inclusion mode %q", s)
}

func (m InclusionMode) String() string {
	if m == Exclude {
		return "exclude"
	}
	return "include"
}

// NodeSelector picks a sub-clade: the clade below Node, or everything but it.
type NodeSelector struct {
	Node int
	Mode InclusionMode
}

// TimeWindow limits the matrix to [Start, End] in time before present.
type TimeWindow struct {
	Start float64
	End   float64
}

func (w *TimeWindow) Validate() error {
	if w == nil {
		return nil
	}
	if !(w.End > w.Start) {
		return common.InvalidArgument("time window [%v, %v] needs start < end", w.Start, w.End)
	}
	return nil
}

// Provider hands out rate matrices with bins evenly spaced columns.
type Provider interface {
	Kind() SourceKind
	Matrix(ctx context.Context, rate model.RateKind, window *TimeWindow, node *NodeSelector, bins int) (*model.RateMatrix, error)
}
