// Package classifier defines the churn classifier capability and loads the
// serialized model artifact that implements it.
package classifier

import (
	"context"

	"github.com/liamcoop/churn/customer"
)

// Classifier predicts a binary class for one row: 1 means the customer will
// churn, 0 means they will not.
type Classifier interface {
	Predict(ctx context.Context, row customer.Row) (int, error)
}

// ProbabilityEstimator is the optional capability of returning per-class
// probabilities, indexed by class.
type ProbabilityEstimator interface {
	PredictProba(ctx context.Context, row customer.Row) ([]float64, error)
}

// Info describes a loaded model
type Info struct {
	Name          string `json:"name"`
	FormatVersion string `json:"formatVersion"`
	Digest        string `json:"digest"`
	Probability   bool   `json:"probability"`
	Terms         int    `json:"terms"`
}

// Describer is implemented by classifiers that can report model metadata
type Describer interface {
	Describe() Info
}
