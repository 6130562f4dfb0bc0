package customer

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
)

// Record is one customer's attributes, keyed by the classifier's column
// names. Records are passed by value and never modified once built.
type Record struct {
	Gender           string  `json:"gender"`
	SeniorCitizen    int     `json:"SeniorCitizen"`
	Partner          string  `json:"Partner"`
	Dependents       string  `json:"Dependents"`
	Tenure           int     `json:"tenure"`
	PhoneService     string  `json:"PhoneService"`
	MultipleLines    string  `json:"MultipleLines"`
	InternetService  string  `json:"InternetService"`
	OnlineSecurity   string  `json:"OnlineSecurity"`
	OnlineBackup     string  `json:"OnlineBackup"`
	DeviceProtection string  `json:"DeviceProtection"`
	TechSupport      string  `json:"TechSupport"`
	StreamingTV      string  `json:"StreamingTV"`
	StreamingMovies  string  `json:"StreamingMovies"`
	Contract         string  `json:"Contract"`
	PaperlessBilling string  `json:"PaperlessBilling"`
	PaymentMethod    string  `json:"PaymentMethod"`
	MonthlyCharges   float64 `json:"MonthlyCharges"`
	TotalCharges     float64 `json:"TotalCharges"`
}

// DefaultRecord returns the record a fresh screen starts from
func DefaultRecord() Record {
	var r Record
	for _, f := range fields {
		// defaults are domain-valid by construction
		_ = r.set(f, f.Default)
	}
	return r
}

func (r *Record) enum(name string) *string {
	switch name {
	case FieldGender:
		return &r.Gender
	case FieldPartner:
		return &r.Partner
	case FieldDependents:
		return &r.Dependents
	case FieldPhoneService:
		return &r.PhoneService
	case FieldMultipleLines:
		return &r.MultipleLines
	case FieldInternetService:
		return &r.InternetService
	case FieldOnlineSecurity:
		return &r.OnlineSecurity
	case FieldOnlineBackup:
		return &r.OnlineBackup
	case FieldDeviceProtection:
		return &r.DeviceProtection
	case FieldTechSupport:
		return &r.TechSupport
	case FieldStreamingTV:
		return &r.StreamingTV
	case FieldStreamingMovies:
		return &r.StreamingMovies
	case FieldContract:
		return &r.Contract
	case FieldPaperlessBilling:
		return &r.PaperlessBilling
	case FieldPaymentMethod:
		return &r.PaymentMethod
	}
	return nil
}

func (r *Record) integer(name string) *int {
	switch name {
	case FieldSeniorCitizen:
		return &r.SeniorCitizen
	case FieldTenure:
		return &r.Tenure
	}
	return nil
}

func (r *Record) float(name string) *float64 {
	switch name {
	case FieldMonthlyCharges:
		return &r.MonthlyCharges
	case FieldTotalCharges:
		return &r.TotalCharges
	}
	return nil
}

// set stores raw into field f without clamping. It fails when raw is not in
// the field's domain.
func (r *Record) set(f Field, raw string) error {
	switch f.Kind {
	case KindEnum:
		if err := f.check(raw, raw); err != nil {
			return err
		}
		*r.enum(f.Name) = raw
	case KindFlag:
		// the flag is matched on its text so "01" or "+1" stay out
		if err := f.check(raw, raw); err != nil {
			return err
		}
		v, _ := strconv.Atoi(raw)
		*r.integer(f.Name) = v
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return &FieldError{Field: f.Name, Value: raw, Reason: "not an integer"}
		}
		if err := f.check(v, raw); err != nil {
			return err
		}
		*r.integer(f.Name) = v
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return &FieldError{Field: f.Name, Value: raw, Reason: "not a number"}
		}
		if err := f.check(v, raw); err != nil {
			return err
		}
		*r.float(f.Name) = v
	}
	return nil
}

// Raw returns the stored value of a field in its form encoding
func (r Record) Raw(name string) string {
	if p := r.enum(name); p != nil {
		return *p
	}
	if p := r.integer(name); p != nil {
		return strconv.Itoa(*p)
	}
	if p := r.float(name); p != nil {
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return ""
}

// Value returns the typed value of a field as the classifier sees it
func (r Record) Value(name string) any {
	if p := r.enum(name); p != nil {
		return *p
	}
	if p := r.integer(name); p != nil {
		return *p
	}
	if p := r.float(name); p != nil {
		return *p
	}
	return nil
}

// Validate checks every field against its domain
func (r Record) Validate() error {
	verr := &ValidationError{}
	for _, f := range fields {
		var scratch Record
		if err := scratch.set(f, r.Raw(f.Name)); err != nil {
			verr.Fields = append(verr.Fields, err.(*FieldError))
		}
	}
	return verr.orNil()
}

// Form encodes the record as widget values, the inverse of Collect
func (r Record) Form() url.Values {
	v := make(url.Values, len(fields))
	for _, f := range fields {
		v.Set(f.Name, r.Raw(f.Name))
	}
	return v
}

// Row builds the single-row table the classifier consumes, with columns in
// FeatureOrder.
func (r Record) Row() Row {
	row := Row{
		Columns: make([]string, len(FeatureOrder)),
		Values:  make([]any, len(FeatureOrder)),
	}
	for i, name := range FeatureOrder {
		row.Columns[i] = name
		row.Values[i] = r.Value(name)
	}
	return row
}

// UnmarshalJSON decodes a record strictly: every column must be present,
// unknown columns are rejected, and values must lie in their domains.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	verr := &ValidationError{}
	for name := range raw {
		if _, ok := fieldsByName[name]; !ok {
			verr.add(name, "", "unknown field")
		}
	}

	var rec Record
	for _, f := range fields {
		msg, ok := raw[f.Name]
		if !ok {
			verr.add(f.Name, "", "missing")
			continue
		}

		var text string
		if f.Kind == KindEnum {
			if err := json.Unmarshal(msg, &text); err != nil {
				verr.add(f.Name, string(msg), "must be a string")
				continue
			}
		} else {
			// json.Number also takes "40", so quoted numbers are refused first
			var n json.Number
			if bytes.HasPrefix(bytes.TrimSpace(msg), []byte(`"`)) {
				verr.add(f.Name, string(msg), "must be a number")
				continue
			}
			if err := json.Unmarshal(msg, &n); err != nil {
				verr.add(f.Name, string(msg), "must be a number")
				continue
			}
			text = n.String()
			if f.Kind == KindFloat {
				// 50 and 50.0 are both acceptable charges
				if v, err := n.Float64(); err == nil {
					text = strconv.FormatFloat(v, 'f', -1, 64)
				}
			}
		}

		if err := rec.set(f, text); err != nil {
			verr.Fields = append(verr.Fields, err.(*FieldError))
		}
	}

	if err := verr.orNil(); err != nil {
		return err
	}
	*r = rec
	return nil
}
