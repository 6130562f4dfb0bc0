// Package inference turns one customer record into a churn verdict using an
// injected classifier.
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/liamcoop/churn/classifier"
	"github.com/liamcoop/churn/customer"
	"github.com/liamcoop/churn/internal/logger"
)

// Label is the classifier's binary output
type Label int

const (
	NonChurn Label = 0
	Churn    Label = 1
)

func (l Label) String() string {
	if l == Churn {
		return "Churn"
	}
	return "Non-Churn"
}

// Verdict messages shown for each label.
const (
	VerdictChurn    = "CHURN DETECTED! This customer is at risk of churning."
	VerdictNonChurn = "SAFE. This customer is predicted to remain."
)

// ErrNoClassifier is returned by NewAdapter when given a nil classifier
var ErrNoClassifier = errors.New("inference: classifier is required")

// Result is the outcome of one prediction. It is only meaningful for the
// record that produced it.
type Result struct {
	ID                  uuid.UUID `json:"id"`
	Label               Label     `json:"label"`
	Verdict             string    `json:"verdict"`
	Confidence          float64   `json:"confidence"`
	ConfidenceAvailable bool      `json:"confidenceAvailable"`
}

// ConfidenceText formats the confidence to one decimal place, or returns ""
// when the classifier gave none.
func (r Result) ConfidenceText() string {
	if !r.ConfidenceAvailable {
		return ""
	}
	return fmt.Sprintf("%.1f%%", r.Confidence)
}

// Adapter hands records to a classifier and maps its output to a Result.
// It holds no per-call state and is safe for concurrent use when the
// classifier is.
type Adapter struct {
	model classifier.Classifier
	newID func() uuid.UUID
}

// NewAdapter wraps the given classifier
func NewAdapter(model classifier.Classifier) (*Adapter, error) {
	if model == nil {
		return nil, ErrNoClassifier
	}
	return &Adapter{model: model, newID: uuid.New}, nil
}

// Predict classifies one record. The label is authoritative: a failure of
// the optional probability capability only makes the confidence
// unavailable.
func (a *Adapter) Predict(ctx context.Context, rec customer.Record) (Result, error) {
	if err := rec.Validate(); err != nil {
		return Result{}, err
	}

	row := rec.Row()
	raw, err := a.model.Predict(ctx, row)
	if err != nil {
		return Result{}, fmt.Errorf("label prediction failed: %w", err)
	}
	label := Label(raw)
	if label != Churn && label != NonChurn {
		return Result{}, fmt.Errorf("classifier returned unknown label %d", raw)
	}

	res := Result{
		ID:      a.newID(),
		Label:   label,
		Verdict: VerdictNonChurn,
	}
	if label == Churn {
		res.Verdict = VerdictChurn
	}

	if est, ok := a.model.(classifier.ProbabilityEstimator); ok {
		if conf, ok := confidence(ctx, est, row, label); ok {
			res.Confidence = conf
			res.ConfidenceAvailable = true
		}
	}

	logger.Debug("prediction complete",
		"predictionId", res.ID.String(),
		"label", res.Label.String(),
		"confidenceAvailable", res.ConfidenceAvailable,
	)
	return res, nil
}

// confidence is the probability assigned to the predicted class, as a
// percentage. Any failure of the estimator, including a panic, reports
// false.
func confidence(ctx context.Context, est classifier.ProbabilityEstimator, row customer.Row, label Label) (conf float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("probability estimator panicked", "panic", fmt.Sprint(r))
			conf, ok = 0, false
		}
	}()

	proba, err := est.PredictProba(ctx, row)
	if err != nil {
		logger.Warn("probability unavailable", "error", err)
		return 0, false
	}
	if int(label) >= len(proba) {
		logger.Warn("probability vector too short", "classes", len(proba))
		return 0, false
	}

	p := proba[label]
	if math.IsNaN(p) || p < 0 || p > 1 {
		logger.Warn("probability out of range", "value", p)
		return 0, false
	}
	return p * 100, true
}
