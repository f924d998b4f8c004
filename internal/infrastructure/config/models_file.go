package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// ModelsFile is the YAML document that adds or retunes scoring models.
type ModelsFile struct {
	Models []ModelEntry `yaml:"models"`
}

// ModelEntry defines a new model, or overrides the fields it sets on the built-in
// model with the same ID. Terms, when present, replace the whole term list.
type ModelEntry struct {
	Intercept *float64     `yaml:"intercept"`
	Cutoffs   *CutoffEntry `yaml:"cutoffs"`
	Labels    *LabelEntry  `yaml:"labels"`
	ID        string       `yaml:"id"`
	Version   string       `yaml:"version"`
	Name      string       `yaml:"name"`
	Citation  string       `yaml:"citation"`
	Link      string       `yaml:"link"`
	Terms     []TermEntry  `yaml:"terms"`
}

// CutoffEntry mirrors model.Cutoffs.
type CutoffEntry struct {
	Moderate *float64 `yaml:"moderate"`
	High     float64  `yaml:"high"`
}

// LabelEntry mirrors model.CategoryLabels.
type LabelEntry struct {
	Low      string `yaml:"low"`
	Moderate string `yaml:"moderate"`
	High     string `yaml:"high"`
}

// TermEntry mirrors model.Term.
type TermEntry struct {
	Factor    string      `yaml:"factor"`
	Coding    string      `yaml:"coding"`
	Levels    []float64   `yaml:"levels"`
	Bands     []BandEntry `yaml:"bands"`
	Beta      float64     `yaml:"beta"`
	Threshold float64     `yaml:"threshold"`
}

// BandEntry mirrors model.Band.
type BandEntry struct {
	Threshold float64 `yaml:"threshold"`
	Points    float64 `yaml:"points"`
	Below     bool    `yaml:"below"`
}

// LoadModels reads a models file and merges it over base.
func LoadModels(path string, base []model.ScoringModel) ([]model.ScoringModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading models file: %w", err)
	}
	models, err := ParseModels(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

// ParseModels decodes a models document and merges it over base. Entries whose ID
// matches a base model override it; the rest are appended in file order. Every
// resulting model is validated. base is not modified.
func ParseModels(data []byte, base []model.ScoringModel) ([]model.ScoringModel, error) {
	var file ModelsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing models YAML: %w", err)
	}

	out := make([]model.ScoringModel, len(base))
	index := make(map[string]int, len(base))
	for i, m := range base {
		out[i] = m.Clone()
		index[m.ID] = i
	}

	seen := make(map[string]bool, len(file.Models))
	for i, entry := range file.Models {
		if entry.ID == "" {
			return nil, fmt.Errorf("models[%d]: id is required", i)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("models[%d]: duplicate id %s", i, entry.ID)
		}
		seen[entry.ID] = true

		if pos, ok := index[entry.ID]; ok {
			merged, err := entry.apply(out[pos])
			if err != nil {
				return nil, fmt.Errorf("models[%d]: %w", i, err)
			}
			out[pos] = merged
			continue
		}

		created, err := entry.apply(model.ScoringModel{ID: entry.ID})
		if err != nil {
			return nil, fmt.Errorf("models[%d]: %w", i, err)
		}
		index[entry.ID] = len(out)
		out = append(out, created)
	}

	for _, m := range out {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("invalid scoring model: %w", err)
		}
	}
	return out, nil
}

func (e ModelEntry) apply(m model.ScoringModel) (model.ScoringModel, error) {
	if e.Version != "" {
		m.Version = e.Version
	}
	if e.Name != "" {
		m.Name = e.Name
	}
	if e.Citation != "" {
		m.Citation = e.Citation
	}
	if e.Link != "" {
		link, err := valueobject.LinkFunctionFromString(e.Link)
		if err != nil {
			return model.ScoringModel{}, err
		}
		m.Link = link
	}
	if e.Intercept != nil {
		m.Intercept = *e.Intercept
	}
	if len(e.Terms) > 0 {
		m.Terms = make([]model.Term, len(e.Terms))
		for i, t := range e.Terms {
			m.Terms[i] = t.toTerm()
		}
	}
	if e.Cutoffs != nil {
		m.Cutoffs = model.Cutoffs{High: e.Cutoffs.High}
		if e.Cutoffs.Moderate != nil {
			moderate := *e.Cutoffs.Moderate
			m.Cutoffs.Moderate = &moderate
		}
	}
	if e.Labels != nil {
		if e.Labels.Low != "" {
			m.Labels.Low = e.Labels.Low
		}
		if e.Labels.Moderate != "" {
			m.Labels.Moderate = e.Labels.Moderate
		}
		if e.Labels.High != "" {
			m.Labels.High = e.Labels.High
		}
	}
	return m, nil
}

func (t TermEntry) toTerm() model.Term {
	term := model.Term{
		Factor:    model.Factor(t.Factor),
		Coding:    model.Coding(t.Coding),
		Beta:      t.Beta,
		Threshold: t.Threshold,
		Levels:    append([]float64(nil), t.Levels...),
	}
	for _, b := range t.Bands {
		term.Bands = append(term.Bands, model.Band{Threshold: b.Threshold, Points: b.Points, Below: b.Below})
	}
	return term
}
