package source

import (
	"context"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
)

// DiversificationRates holds speciation and, optionally, extinction samples on
// the same time bins.
type DiversificationRates struct {
	Speciation *model.RateMatrix
	Extinction *model.RateMatrix
}

func (r DiversificationRates) validate() error {
	if err := r.Speciation.Validate(); err != nil {
		return err
	}
	if r.Extinction == nil {
		return nil
	}
	if err := r.Extinction.Validate(); err != nil {
		return err
	}
	if r.Extinction.Samples() != r.Speciation.Samples() || r.Extinction.Bins() != r.Speciation.Bins() {
		return common.InvalidArgument("extinction matrix %dx%d does not match speciation matrix %dx%d",
			r.Extinction.Samples(), r.Extinction.Bins(), r.Speciation.Samples(), r.Speciation.Bins())
	}
	for j := range r.Speciation.Times {
		if r.Speciation.Times[j] != r.Extinction.Times[j] {
			return common.InvalidArgument("extinction time bin %d (%v) differs from speciation (%v)",
				j, r.Extinction.Times[j], r.Speciation.Times[j])
		}
	}
	return nil
}

func (r DiversificationRates) pick(rate model.RateKind) (*model.RateMatrix, error) {
	switch rate {
	case model.Speciation:
		return r.Speciation, nil
	case model.Extinction:
		if r.Extinction == nil {
			return nil, common.InvalidArgument("source has no extinction rates")
		}
		return r.Extinction, nil
	case model.NetDiversification:
		if r.Extinction == nil {
			return nil, common.InvalidArgument("source has no extinction rates for net diversification")
		}
		return netDiversification(r.Speciation, r.Extinction), nil
	}
	return nil, common.DomainMismatch("diversification source cannot provide %s rates", rate)
}

func netDiversification(speciation, extinction *model.RateMatrix) *model.RateMatrix {
	res := &model.RateMatrix{
		Values: make([][]float64, speciation.Samples()),
		Times:  append([]float64(nil), speciation.Times...),
	}
	for i := range speciation.Values {
		row := make([]float64, speciation.Bins())
		for j := range row {
			row[j] = speciation.Values[i][j] - extinction.Values[i][j]
		}
		res.Values[i] = row
	}
	return res
}

type DiversificationSource struct {
	whole  DiversificationRates
	clades map[NodeSelector]DiversificationRates
}

func NewDiversificationSource(whole DiversificationRates) (*DiversificationSource, error) {
	if err := whole.validate(); err != nil {
		return nil, err
	}
	return &DiversificationSource{
		whole:  whole,
		clades: map[NodeSelector]DiversificationRates{},
	}, nil
}

func (s *DiversificationSource) AddClade(node NodeSelector, rates DiversificationRates) error {
	if err := rates.validate(); err != nil {
		return err
	}
	s.clades[node] = rates
	return nil
}

func (s *DiversificationSource) Kind() SourceKind {
	return DiversificationKind
}

func (s *DiversificationSource) Matrix(ctx context.Context, rate model.RateKind, window *TimeWindow,
	node *NodeSelector, bins int) (*model.RateMatrix, error) {
	logger := utils.GetLogger(ctx)

	if err := CheckKind(s.Kind(), rate); err != nil {
		return nil, err
	}
	rates := s.whole
	if node != nil {
		clade, ok := s.clades[*node]
		if !ok {
			return nil, common.InvalidArgument("no rates for node %d (%s)", node.Node, node.Mode)
		}
		rates = clade
	}
	m, err := rates.pick(rate)
	if err != nil {
		return nil, err
	}
	res, err := Resample(m, window, bins)
	if err != nil {
		logger.Error("resample rate matrix failed", zap.Error(err), zap.Stringer("rate", rate))
		return nil, err
	}
	return res, nil
}
