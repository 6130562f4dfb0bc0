package customer

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFeatureOrder pins the column order the classifier was trained on
func TestFeatureOrder(t *testing.T) {
	want := []string{
		"gender", "SeniorCitizen", "Partner", "Dependents", "tenure",
		"PhoneService", "MultipleLines", "InternetService", "OnlineSecurity",
		"OnlineBackup", "DeviceProtection", "TechSupport", "StreamingTV",
		"StreamingMovies", "Contract", "PaperlessBilling", "PaymentMethod",
		"MonthlyCharges", "TotalCharges",
	}
	assert.Equal(t, want, FeatureOrder)

	fs := Fields()
	require.Len(t, fs, len(want))
	for i, f := range fs {
		assert.Equal(t, want[i], f.Name, "catalogue position %d", i)
	}
}

func TestRowFollowsFeatureOrder(t *testing.T) {
	row := DefaultRecord().Row()
	assert.Equal(t, FeatureOrder, row.Columns)
	assert.True(t, row.MatchesOrder(FeatureOrder))
	assert.Len(t, row.Values, len(FeatureOrder))

	v, ok := row.Get(FieldTenure)
	require.True(t, ok)
	assert.Equal(t, 12, v)

	v, ok = row.Get(FieldMonthlyCharges)
	require.True(t, ok)
	assert.Equal(t, 50.0, v)

	_, ok = row.Get("customerID")
	assert.False(t, ok)
}

func TestDefaultRecord(t *testing.T) {
	rec := DefaultRecord()
	require.NoError(t, rec.Validate())

	assert.Equal(t, 12, rec.Tenure)
	assert.Equal(t, 50.0, rec.MonthlyCharges)
	assert.Equal(t, 0.0, rec.TotalCharges)
	assert.Equal(t, 0, rec.SeniorCitizen)
	assert.Equal(t, "Male", rec.Gender)
	assert.Equal(t, "Month-to-month", rec.Contract)
	assert.Equal(t, "Electronic check", rec.PaymentMethod)
	assert.Equal(t, "No internet service", rec.StreamingMovies)
}

func TestSeniorLabel(t *testing.T) {
	assert.Equal(t, "No", SeniorLabel(0))
	assert.Equal(t, "Yes", SeniorLabel(1))

	rec := DefaultRecord()
	rec.SeniorCitizen = 1
	for _, item := range rec.Review(false)[0] {
		if item.Field == FieldSeniorCitizen {
			assert.Equal(t, "Yes", item.Value)
		}
	}
	// the displayed label never changes the stored flag
	assert.Equal(t, 1, rec.Value(FieldSeniorCitizen))
}

func TestCollect_Defaults(t *testing.T) {
	rec, err := Collect(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRecord(), rec)
}

func TestCollect_RoundTripsForm(t *testing.T) {
	want := DefaultRecord()
	want.Gender = "Female"
	want.SeniorCitizen = 1
	want.Tenure = 40
	want.InternetService = "Fiber optic"
	want.MonthlyCharges = 99.65
	want.TotalCharges = 3986.4

	got, err := Collect(want.Form())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCollect_ClampsNumbers(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		tenure  int
		monthly float64
		total   float64
	}{
		{"below minimum", url.Values{"tenure": {"-3"}, "MonthlyCharges": {"-10"}, "TotalCharges": {"-0.5"}}, 0, 0, 0},
		{"above maximum", url.Values{"tenure": {"500"}}, 72, 50, 0},
		{"fractional tenure", url.Values{"tenure": {"11.6"}}, 12, 50, 0},
		{"garbage falls back to default", url.Values{"tenure": {"abc"}, "MonthlyCharges": {"NaN"}}, 12, 50, 0},
		{"blank keeps default", url.Values{"MonthlyCharges": {"  "}}, 12, 50, 0},
		{"beyond float range below", url.Values{"tenure": {"-1e400"}, "TotalCharges": {"-1e400"}}, 0, 50, 0},
		{"beyond float range above", url.Values{"tenure": {"1e400"}}, 72, 50, 0},
		{"unbounded charge beyond float range", url.Values{"MonthlyCharges": {"1e400"}}, 12, 50, 0},
		{"infinite tenure", url.Values{"tenure": {"-Inf"}}, 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Collect(tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.tenure, rec.Tenure)
			assert.Equal(t, tt.monthly, rec.MonthlyCharges)
			assert.Equal(t, tt.total, rec.TotalCharges)
		})
	}
}

func TestCollect_RejectsUnknownOption(t *testing.T) {
	_, err := Collect(url.Values{"Contract": {"Three year"}})
	require.Error(t, err)

	var ferr *FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, FieldContract, ferr.Field)

	_, err = Collect(url.Values{"SeniorCitizen": {"2"}})
	require.Error(t, err)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	rec := DefaultRecord()
	rec.Gender = "Other"
	rec.Tenure = 73
	rec.TotalCharges = -1

	err := rec.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, FieldGender, verr.Fields[0].Field)
	assert.Equal(t, FieldTenure, verr.Fields[1].Field)
	assert.Equal(t, FieldTotalCharges, verr.Fields[2].Field)
}

func TestUnmarshalJSON(t *testing.T) {
	in := DefaultRecord()
	in.Tenure = 5
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalJSON_Strict(t *testing.T) {
	tests := []struct {
		name  string
		patch func(m map[string]any)
		field string
	}{
		{"missing column", func(m map[string]any) { delete(m, "PaymentMethod") }, "PaymentMethod"},
		{"unknown column", func(m map[string]any) { m["customerID"] = "7590-VHVEG" }, "customerID"},
		{"enum outside domain", func(m map[string]any) { m["InternetService"] = "Satellite" }, "InternetService"},
		{"tenure out of range", func(m map[string]any) { m["tenure"] = 80 }, "tenure"},
		{"negative charges", func(m map[string]any) { m["MonthlyCharges"] = -2.5 }, "MonthlyCharges"},
		{"number as string type", func(m map[string]any) { m["gender"] = 1 }, "gender"},
		{"tenure as string", func(m map[string]any) { m["tenure"] = "40" }, "tenure"},
		{"flag as string", func(m map[string]any) { m["SeniorCitizen"] = "1" }, "SeniorCitizen"},
		{"charges as string", func(m map[string]any) { m["MonthlyCharges"] = "70.5" }, "MonthlyCharges"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := map[string]any{}
			for _, name := range FeatureOrder {
				m[name] = DefaultRecord().Value(name)
			}
			tt.patch(m)
			data, err := json.Marshal(m)
			require.NoError(t, err)

			var rec Record
			err = json.Unmarshal(data, &rec)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestUnmarshalJSON_QuotedNumberReason(t *testing.T) {
	m := map[string]any{}
	for _, name := range FeatureOrder {
		m[name] = DefaultRecord().Value(name)
	}
	m["tenure"] = "40"
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var rec Record
	var verr *ValidationError
	require.ErrorAs(t, json.Unmarshal(data, &rec), &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "must be a number", verr.Fields[0].Reason)
	assert.Equal(t, Record{}, rec, "a rejected record is not stored")
}

func TestFieldRules(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{FieldGender, "oneof='Male' 'Female'"},
		{FieldSeniorCitizen, "oneof='0' '1'"},
		{FieldMultipleLines, "oneof='No phone service' 'No' 'Yes'"},
		{FieldTenure, "min=0,max=72"},
		{FieldMonthlyCharges, "gte=0"},
	}
	for _, tt := range tests {
		f, ok := Lookup(tt.field)
		require.True(t, ok)
		assert.Equal(t, tt.want, f.rule(), tt.field)
	}
}

func TestSet_DomainReasons(t *testing.T) {
	tests := []struct {
		field  string
		raw    string
		reason string
	}{
		{FieldPaymentMethod, "Cash", "not one of the allowed options"},
		{FieldMultipleLines, "No phone", "not one of the allowed options"},
		{FieldSeniorCitizen, "01", "must be 0 or 1"},
		{FieldTenure, "73", "must be between 0 and 72"},
		{FieldTenure, "-1", "must be between 0 and 72"},
		{FieldTotalCharges, "-0.01", "must be at least 0"},
		{FieldTenure, "twelve", "not an integer"},
		{FieldMonthlyCharges, "Inf", "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.raw, func(t *testing.T) {
			f, _ := Lookup(tt.field)
			var rec Record
			err := rec.set(f, tt.raw)
			var ferr *FieldError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.field, ferr.Field)
			assert.Equal(t, tt.raw, ferr.Value)
			assert.Equal(t, tt.reason, ferr.Reason)
		})
	}

	// options containing spaces and parentheses are accepted whole
	f, _ := Lookup(FieldPaymentMethod)
	var rec Record
	require.NoError(t, rec.set(f, "Bank transfer (automatic)"))
	assert.Equal(t, "Bank transfer (automatic)", rec.PaymentMethod)
}

func TestReview_Split(t *testing.T) {
	rec := DefaultRecord()

	single := rec.Review(false)
	require.Len(t, single, 1)
	assert.Len(t, single[0], len(FeatureOrder))

	split := rec.Review(true)
	require.Len(t, split, 2)
	assert.Len(t, split[0], 10)
	assert.Len(t, split[1], 9)
	assert.Equal(t, FieldGender, split[0][0].Field)
	assert.Equal(t, FieldTotalCharges, split[1][8].Field)
	assert.Equal(t, "50.00", split[1][7].Value)
}

// TestCollect_NeverLeavesDomain generates arbitrary widget submissions and
// checks that every collected record is domain-valid.
func TestCollect_NeverLeavesDomain(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 300
	properties := gopter.NewProperties(params)

	properties.Property("collected records stay in domain", prop.ForAll(
		func(choices []int, numbers []float64) bool {
			form := url.Values{}
			tampered := false
			numeric := 0
			for i, f := range Fields() {
				if f.Kind.Numeric() {
					form.Set(f.Name, strconv.FormatFloat(numbers[numeric], 'f', -1, 64))
					numeric++
					continue
				}
				pick := choices[i] % (len(f.Options) + 1)
				if pick == len(f.Options) {
					form.Set(f.Name, "not-an-option")
					tampered = true
					continue
				}
				form.Set(f.Name, f.Options[pick])
			}

			rec, err := Collect(form)
			if tampered {
				return err != nil
			}
			if err != nil || rec.Validate() != nil {
				return false
			}
			return rec.Tenure >= 0 && rec.Tenure <= 72 &&
				rec.MonthlyCharges >= 0 && rec.TotalCharges >= 0
		},
		gen.SliceOfN(len(FeatureOrder), gen.IntRange(0, 20)),
		gen.SliceOfN(3, gen.Float64Range(-1e4, 1e4)),
	))

	properties.TestingRun(t)
}
