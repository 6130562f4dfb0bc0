package customer

import (
	"math"
	"strconv"
)

// Kind describes how a field is entered and stored
type Kind int

const (
	// KindEnum is a closed choice stored as a string
	KindEnum Kind = iota
	// KindFlag is a closed 0/1 choice stored as an int
	KindFlag
	// KindInt is a bounded integer
	KindInt
	// KindFloat is a lower-bounded float
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindFlag:
		return "flag"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}
	return "unknown"
}

// Numeric reports whether values of this kind are entered as numbers
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Column names as the classifier was trained on them.
const (
	FieldGender           = "gender"
	FieldSeniorCitizen    = "SeniorCitizen"
	FieldPartner          = "Partner"
	FieldDependents       = "Dependents"
	FieldTenure           = "tenure"
	FieldPhoneService     = "PhoneService"
	FieldMultipleLines    = "MultipleLines"
	FieldInternetService  = "InternetService"
	FieldOnlineSecurity   = "OnlineSecurity"
	FieldOnlineBackup     = "OnlineBackup"
	FieldDeviceProtection = "DeviceProtection"
	FieldTechSupport      = "TechSupport"
	FieldStreamingTV      = "StreamingTV"
	FieldStreamingMovies  = "StreamingMovies"
	FieldContract         = "Contract"
	FieldPaperlessBilling = "PaperlessBilling"
	FieldPaymentMethod    = "PaymentMethod"
	FieldMonthlyCharges   = "MonthlyCharges"
	FieldTotalCharges     = "TotalCharges"
)

// FeatureOrder is the fixed column order of the single-row table handed to
// the classifier. Model artifacts must declare exactly this list.
var FeatureOrder = []string{
	FieldGender,
	FieldSeniorCitizen,
	FieldPartner,
	FieldDependents,
	FieldTenure,
	FieldPhoneService,
	FieldMultipleLines,
	FieldInternetService,
	FieldOnlineSecurity,
	FieldOnlineBackup,
	FieldDeviceProtection,
	FieldTechSupport,
	FieldStreamingTV,
	FieldStreamingMovies,
	FieldContract,
	FieldPaperlessBilling,
	FieldPaymentMethod,
	FieldMonthlyCharges,
	FieldTotalCharges,
}

var (
	yesNo            = []string{"Yes", "No"}
	phoneOptions     = []string{"No phone service", "No", "Yes"}
	internetOptions  = []string{"No internet service", "No", "Yes"}
	contractOptions  = []string{"Month-to-month", "One year", "Two year"}
	paymentOptions   = []string{"Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)"}
	internetServices = []string{"DSL", "Fiber optic", "No"}
)

// Field describes one entry widget: its closed domain or numeric bounds and
// the default shown on a fresh screen.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Options []string // KindEnum and KindFlag only
	Min     float64
	Max     float64 // +Inf when unbounded
	Step    float64
	Default string
}

// Bounded reports whether the field has a finite upper bound
func (f Field) Bounded() bool {
	return !math.IsInf(f.Max, 1)
}

// Allows reports whether raw is one of the field's closed options
func (f Field) Allows(raw string) bool {
	for _, o := range f.Options {
		if o == raw {
			return true
		}
	}
	return false
}

// Clamp pulls v into the field's numeric range
func (f Field) Clamp(v float64) float64 {
	if v < f.Min {
		return f.Min
	}
	if v > f.Max {
		return f.Max
	}
	return v
}

func enumField(name, label string, options []string) Field {
	return Field{Name: name, Label: label, Kind: KindEnum, Options: options, Default: options[0]}
}

var fields = []Field{
	enumField(FieldGender, "Gender", []string{"Male", "Female"}),
	{Name: FieldSeniorCitizen, Label: "Senior Citizen", Kind: KindFlag, Options: []string{"0", "1"}, Max: 1, Default: "0"},
	enumField(FieldPartner, "Partner", yesNo),
	enumField(FieldDependents, "Dependents", yesNo),
	{Name: FieldTenure, Label: "Tenure (months)", Kind: KindInt, Min: 0, Max: 72, Step: 1, Default: "12"},
	enumField(FieldPhoneService, "Phone Service", yesNo),
	enumField(FieldMultipleLines, "Multiple Lines", phoneOptions),
	enumField(FieldInternetService, "Internet Service", internetServices),
	enumField(FieldOnlineSecurity, "Online Security", internetOptions),
	enumField(FieldOnlineBackup, "Online Backup", internetOptions),
	enumField(FieldDeviceProtection, "Device Protection", internetOptions),
	enumField(FieldTechSupport, "Tech Support", internetOptions),
	enumField(FieldStreamingTV, "Streaming TV", internetOptions),
	enumField(FieldStreamingMovies, "Streaming Movies", internetOptions),
	enumField(FieldContract, "Contract", contractOptions),
	enumField(FieldPaperlessBilling, "Paperless Billing", yesNo),
	enumField(FieldPaymentMethod, "Payment Method", paymentOptions),
	{Name: FieldMonthlyCharges, Label: "Monthly Charges ($)", Kind: KindFloat, Min: 0, Max: math.Inf(1), Step: 0.01, Default: "50.0"},
	{Name: FieldTotalCharges, Label: "Total Charges ($)", Kind: KindFloat, Min: 0, Max: math.Inf(1), Step: 0.01, Default: "0.0"},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}()

// Fields returns the field catalogue in feature order
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the field with the given column name
func Lookup(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// SeniorLabel maps the stored 0/1 flag to its displayed label
func SeniorLabel(v int) string {
	if v == 1 {
		return "Yes"
	}
	return "No"
}

// DisplayOption returns the label a widget shows for a stored option value
func (f Field) DisplayOption(raw string) string {
	if f.Kind == KindFlag {
		v, _ := strconv.Atoi(raw)
		return SeniorLabel(v)
	}
	return raw
}
