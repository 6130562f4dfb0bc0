package customer

// Row is a single-row table: column names with one value per column.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column
func (r Row) Get(name string) (any, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the row as column -> value
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MatchesOrder reports whether the row's columns are exactly order
func (r Row) MatchesOrder(order []string) bool {
	if len(r.Columns) != len(order) || len(r.Values) != len(order) {
		return false
	}
	for i := range order {
		if r.Columns[i] != order[i] {
			return false
		}
	}
	return true
}
