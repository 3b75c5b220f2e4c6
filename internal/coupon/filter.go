package coupon

import "strings"

// Filter returns the records whose recipient, business or serial contains
// query (case-insensitive). An empty query returns every record.
func Filter(records []Generated, query string) []Generated {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	var out []Generated
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Data.UserName), q) ||
			strings.Contains(strings.ToLower(r.Data.BusinessName), q) ||
			strings.Contains(strings.ToLower(r.Data.SerialNumber), q) {
			out = append(out, r)
		}
	}
	return out
}

// WithoutImages strips the image payload, for listings.
func WithoutImages(records []Generated) []Generated {
	out := make([]Generated, len(records))
	for i, r := range records {
		r.DataURL = ""
		out[i] = r
	}
	return out
}
