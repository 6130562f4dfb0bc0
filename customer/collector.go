package customer

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Collect assembles a record from submitted widget values.
//
// Missing values take the field default. Numbers are clamped into range the
// way a bounded widget would clamp them, and unparseable numbers fall back
// to the default. Closed choices are never coerced: a value outside the
// option list yields a *FieldError.
func Collect(form url.Values) (Record, error) {
	rec := DefaultRecord()
	for _, f := range fields {
		raw, ok := form[f.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		value := strings.TrimSpace(raw[0])
		if value == "" {
			continue
		}

		if f.Kind.Numeric() {
			value = clampRaw(f, value)
		}
		if err := rec.set(f, value); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

func clampRaw(f Field, raw string) string {
	// out-of-range input parses to ±Inf with ErrRange and clamps like any
	// other number past a bound
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return f.Default
	}
	if math.IsNaN(v) {
		return f.Default
	}
	v = f.Clamp(v)
	if math.IsInf(v, 0) {
		// no upper bound to clamp to
		return f.Default
	}
	if f.Kind == KindInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
