package customer

import "strconv"

// ReviewItem is one read-only line of the review table
type ReviewItem struct {
	Field string
	Label string
	Value string
}

// Review lists the record for visual confirmation before submission. With
// split set the items are divided into two groups for a two-column layout;
// the grouping is presentation only.
func (r Record) Review(split bool) [][]ReviewItem {
	items := make([]ReviewItem, 0, len(fields))
	for _, f := range fields {
		items = append(items, ReviewItem{
			Field: f.Name,
			Label: f.Label,
			Value: r.display(f),
		})
	}

	if !split {
		return [][]ReviewItem{items}
	}
	half := (len(items) + 1) / 2
	return [][]ReviewItem{items[:half], items[half:]}
}

func (r Record) display(f Field) string {
	switch f.Kind {
	case KindFlag:
		return SeniorLabel(r.SeniorCitizen)
	case KindFloat:
		return strconv.FormatFloat(*r.float(f.Name), 'f', 2, 64)
	}
	return r.Raw(f.Name)
}
