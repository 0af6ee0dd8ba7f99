package source

import (
	"context"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
)

// TraitSource only knows trait evolution rates.
type TraitSource struct {
	whole  *model.RateMatrix
	clades map[NodeSelector]*model.RateMatrix
}

func NewTraitSource(whole *model.RateMatrix) (*TraitSource, error) {
	if err := whole.Validate(); err != nil {
		return nil, err
	}
	return &TraitSource{
		whole:  whole,
		clades: map[NodeSelector]*model.RateMatrix{},
	}, nil
}

func (s *TraitSource) AddClade(node NodeSelector, m *model.RateMatrix) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.clades[node] = m
	return nil
}

func (s *TraitSource) Kind() SourceKind {
	return TraitKind
}

func (s *TraitSource) Matrix(ctx context.Context, rate model.RateKind, window *TimeWindow,
	node *NodeSelector, bins int) (*model.RateMatrix, error) {
	logger := utils.GetLogger(ctx)

	if err := CheckKind(s.Kind(), rate); err != nil {
		return nil, err
	}
	m := s.whole
	if node != nil {
		clade, ok := s.clades[*node]
		if !ok {
			return nil, common.InvalidArgument("no rates for node %d (%s)", node.Node, node.Mode)
		}
		m = clade
	}
	res, err := Resample(m, window, bins)
	if err != nil {
		logger.Error("resample rate matrix failed", zap.Error(err), zap.Stringer("rate", rate))
		return nil, err
	}
	return res, nil
}
