package classifier

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/liamcoop/churn/customer"
)

// Model is a logistic churn model that only predicts labels. Compiled
// programs are read-only after Compile, so a Model is safe for concurrent
// use.
type Model struct {
	info        Info
	intercept   float64
	threshold   float64
	numeric     map[string]NumericWeight
	categorical map[string]map[string]float64
	terms       []*compiledTerm
}

// ProbabilisticModel is a Model that also exposes class probabilities
type ProbabilisticModel struct {
	*Model
}

// Compile builds the classifier described by a validated artifact. The
// result implements ProbabilityEstimator unless the artifact sets
// probability to false.
func Compile(a *Artifact) (Classifier, error) {
	env, err := newFeatureEnv()
	if err != nil {
		return nil, err
	}

	m := &Model{
		intercept:   a.Intercept,
		threshold:   defaultThreshold,
		numeric:     a.Numeric,
		categorical: a.Categorical,
		terms:       make([]*compiledTerm, 0, len(a.Terms)),
	}
	if a.Threshold != nil {
		m.threshold = *a.Threshold
	}

	seen := make(map[string]bool, len(a.Terms))
	for _, t := range a.Terms {
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate term %q", t.Name)
		}
		seen[t.Name] = true

		ct, err := compileTerm(env, t)
		if err != nil {
			return nil, err
		}
		m.terms = append(m.terms, ct)
	}

	probability := a.Probability == nil || *a.Probability
	m.info = Info{
		Name:          a.Name,
		FormatVersion: a.FormatVersion,
		Digest:        a.Digest(),
		Probability:   probability,
		Terms:         len(m.terms),
	}

	if probability {
		return &ProbabilisticModel{Model: m}, nil
	}
	return m, nil
}

// Describe returns the model's metadata
func (m *Model) Describe() Info {
	return m.info
}

// Predict returns 1 when the churn probability reaches the threshold
func (m *Model) Predict(ctx context.Context, row customer.Row) (int, error) {
	p, err := m.churnProbability(ctx, row)
	if err != nil {
		return 0, err
	}
	if p >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

// PredictProba returns [P(no churn), P(churn)]
func (m *ProbabilisticModel) PredictProba(ctx context.Context, row customer.Row) ([]float64, error) {
	p, err := m.churnProbability(ctx, row)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

func (m *Model) churnProbability(ctx context.Context, row customer.Row) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !row.MatchesOrder(customer.FeatureOrder) {
		return 0, fmt.Errorf("%w: row columns %v", ErrFeatureMismatch, row.Columns)
	}

	z := m.intercept
	for i, name := range row.Columns {
		value := row.Values[i]

		if w, ok := m.numeric[name]; ok {
			x, err := toFloat(value)
			if err != nil {
				return 0, fmt.Errorf("column %s: %w", name, err)
			}
			scale := w.Scale
			if scale == 0 {
				scale = 1
			}
			z += w.Weight * (x - w.Mean) / scale
		}

		if levels, ok := m.categorical[name]; ok {
			z += levels[levelKey(value)]
		}
	}

	if len(m.terms) > 0 {
		activation := row.Map()
		for _, t := range m.terms {
			c, err := t.contribution(activation)
			if err != nil {
				return 0, err
			}
			z += c
		}
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
}

func levelKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}
