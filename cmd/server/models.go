package main

import (
	"github.com/liamcoop/churn/classifier"
	"github.com/liamcoop/churn/customer"
	"github.com/liamcoop/churn/inference"
)

// API request and response models

// PredictResponse is returned by POST /api/v1/predict
type PredictResponse struct {
	ID                  string   `json:"id" example:"0f8e4a52-3c1e-4e9a-9a55-2f0d8f3b8e21"`
	Label               int      `json:"label" example:"1"`
	Outcome             string   `json:"outcome" example:"Churn"`
	Verdict             string   `json:"verdict" example:"CHURN DETECTED! This customer is at risk of churning."`
	Confidence          *float64 `json:"confidence,omitempty" example:"90"`
	ConfidenceText      string   `json:"confidenceText,omitempty" example:"90.0%"`
	ConfidenceAvailable bool     `json:"confidenceAvailable" example:"true"`
	Model               string   `json:"model,omitempty" example:"telco-churn-logit"`
} // @name PredictResponse

func newPredictResponse(res inference.Result, model string, verdict string) PredictResponse {
	out := PredictResponse{
		ID:                  res.ID.String(),
		Label:               int(res.Label),
		Outcome:             res.Label.String(),
		Verdict:             verdict,
		ConfidenceAvailable: res.ConfidenceAvailable,
		Model:               model,
	}
	if res.ConfidenceAvailable {
		conf := res.Confidence
		out.Confidence = &conf
		out.ConfidenceText = res.ConfidenceText()
	}
	return out
}

// FieldResponse describes one entry field and its domain
type FieldResponse struct {
	Name    string   `json:"name" example:"tenure"`
	Label   string   `json:"label" example:"Tenure (months)"`
	Kind    string   `json:"kind" example:"int"`
	Options []string `json:"options,omitempty"`
	Min     *float64 `json:"min,omitempty" example:"0"`
	Max     *float64 `json:"max,omitempty" example:"72"`
	Default string   `json:"default" example:"12"`
} // @name FieldResponse

func newFieldResponse(f customer.Field, label string) FieldResponse {
	out := FieldResponse{
		Name:    f.Name,
		Label:   label,
		Kind:    f.Kind.String(),
		Options: f.Options,
		Default: f.Default,
	}
	if f.Kind.Numeric() {
		lo := f.Min
		out.Min = &lo
		if f.Bounded() {
			hi := f.Max
			out.Max = &hi
		}
	}
	return out
}

// FieldsResponse is returned by GET /api/v1/fields, in feature order
type FieldsResponse struct {
	Fields []FieldResponse `json:"fields"`
} // @name FieldsResponse

// HealthResponse is returned by GET /api/v1/health
type HealthResponse struct {
	Status      string          `json:"status" example:"healthy"`
	Model       classifier.Info `json:"model"`
	Predictions int64           `json:"predictions" example:"42"`
	Errors      int64           `json:"errors" example:"0"`
	Warnings    int64           `json:"warnings" example:"1"`
} // @name HealthResponse

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error" example:"invalid customer record"`
	Details string                 `json:"details,omitempty"`
	Fields  []*customer.FieldError `json:"fields,omitempty"`
} // @name ErrorResponse
