package source

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/model"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// LoadCSV reads a matrix whose header row holds the time bins and whose
// remaining rows are samples.
func LoadCSV(r io.Reader) (*model.RateMatrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, common.InvalidArgument("read csv: %v", err)
	}
	return parseRows(rows)
}

// LoadXLSX reads the first sheet of a workbook laid out like LoadCSV.
func LoadXLSX(path string) (*model.RateMatrix, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.InvalidArgument("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

// LoadMatrixFile picks the reader by file extension.
func LoadMatrixFile(path string) (*model.RateMatrix, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return LoadCSV(f)
	}
	return nil, common.InvalidArgument("unsupported matrix file %s", path)
}

func parseRows(rows [][]string) (*model.RateMatrix, error) {
	rows = dropBlankRows(rows)
	if len(rows) < 2 {
		return nil, common.InvalidArgument("matrix needs a time header and at least one sample row, got %d rows", len(rows))
	}
	times, err := parseFloats(rows[0], 0)
	if err != nil {
		return nil, err
	}
	m := &model.RateMatrix{Times: times}
	for i, row := range rows[1:] {
		values, err := parseFloats(row, i+1)
		if err != nil {
			return nil, err
		}
		m.Values = append(m.Values, values)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseFloats(row []string, line int) ([]float64, error) {
	res := make([]float64, len(row))
	for j, cell := range row {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, common.InvalidArgument("row %d column %d: %q is not a number", line, j, cell)
		}
		res[j] = v
	}
	return res, nil
}

func dropBlankRows(rows [][]string) [][]string {
	res := rows[:0:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			res = append(res, row)
		}
	}
	return res
}

type CladeEntry struct {
	Node       int    `yaml:"node"`
	Mode       string `yaml:"mode"`
	Speciation string `yaml:"speciation"`
	Extinction string `yaml:"extinction"`
	Trait      string `yaml:"trait"`
}

// Manifest names the matrix files behind a source; paths are relative to the manifest.
type Manifest struct {
	Kind       string       `yaml:"kind"`
	Speciation string       `yaml:"speciation"`
	Extinction string       `yaml:"extinction"`
	Trait      string       `yaml:"trait"`
	Clades     []CladeEntry `yaml:"clades"`
}

func LoadManifest(path string) (Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, common.InvalidArgument("parse manifest %s: %v", path, err)
	}
	return manifest.Build(filepath.Dir(path))
}

func (m *Manifest) Build(dir string) (Provider, error) {
	load := func(name string) (*model.RateMatrix, error) {
		if name == "" {
			return nil, nil
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return LoadMatrixFile(name)
	}

	switch m.Kind {
	case "diversification", "":
		whole, err := m.loadDiversification(load, m.Speciation, m.Extinction)
		if err != nil {
			return nil, err
		}
		src, err := NewDiversificationSource(whole)
		if err != nil {
			return nil, err
		}
		for _, clade := range m.Clades {
			node, err := clade.selector()
			if err != nil {
				return nil, err
			}
			rates, err := m.loadDiversification(load, clade.Speciation, clade.Extinction)
			if err != nil {
				return nil, err
			}
			if err := src.AddClade(node, rates); err != nil {
				return nil, err
			}
		}
		return src, nil
	case "trait":
		whole, err := load(m.Trait)
		if err != nil {
			return nil, err
		}
		if whole == nil {
			return nil, common.InvalidArgument("trait manifest has no trait matrix")
		}
		src, err := NewTraitSource(whole)
		if err != nil {
			return nil, err
		}
		for _, clade := range m.Clades {
			node, err := clade.selector()
			if err != nil {
				return nil, err
			}
			rates, err := load(clade.Trait)
			if err != nil {
				return nil, err
			}
			if err := src.AddClade(node, rates); err != nil {
				return nil, err
			}
		}
		return src, nil
	}
	return nil, common.InvalidArgument("unknown source kind %q", m.Kind)
}

func (m *Manifest) loadDiversification(load func(string) (*model.RateMatrix, error),
	speciation, extinction string) (DiversificationRates, error) {
	if speciation == "" {
		return DiversificationRates{}, common.InvalidArgument("diversification manifest entry has no speciation matrix")
	}
	lambda, err := load(speciation)
	if err != nil {
		return DiversificationRates{}, err
	}
	mu, err := load(extinction)
	if err != nil {
		return DiversificationRates{}, err
	}
	return DiversificationRates{Speciation: lambda, Extinction: mu}, nil
}

func (c CladeEntry) selector() (NodeSelector, error) {
	mode, err := ParseInclusionMode(c.Mode)
	if err != nil {
		return NodeSelector{}, err
	}
	return NodeSelector{Node: c.Node, Mode: mode}, nil
}
