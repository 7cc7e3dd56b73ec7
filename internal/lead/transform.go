package lead

import (
	"fmt"
	"strconv"
	"time"
)

// Source tags every normalized record with the upstream provider.
const Source = "D7 Lead Finder"

// Transform maps the upstream results array into normalized leads. It is
// pure: each record is mapped independently and the output always has the
// same length as the input. Elements that were not JSON objects become a
// "Data Error" placeholder in the same position, so callers can still
// correlate by index. The country field is always taken from the original
// request; upstream country values are never trusted into the output.
func Transform(raw []RawRecord, params SearchParams) []Lead {
	now := time.Now().UTC()
	batch := now.UnixMilli()
	ts := now.Format(time.RFC3339)

	leads := make([]Lead, len(raw))
	for i, rec := range raw {
		if rec == nil {
			leads[i] = placeholder(batch, i, params, ts)
			continue
		}
		leads[i] = Lead{
			ID:        fmt.Sprintf("lead_%d_%d", batch, i),
			Name:      pick(rec, "Unknown", "name", "title"),
			Email:     pick(rec, "", "email", "mail"),
			Phone:     pick(rec, "", "phone", "telephone", "mobile"),
			Website:   pick(rec, "", "website", "url", "site"),
			Company:   pick(rec, "Unknown Company", "company", "business", "name"),
			City:      pick(rec, params.City, "city", "address2", "location"),
			Address:   pick(rec, "", "address", "full_address"),
			Country:   params.Country,
			Source:    Source,
			Timestamp: ts,
		}
	}
	return leads
}

func placeholder(batch int64, i int, params SearchParams, ts string) Lead {
	return Lead{
		ID:        fmt.Sprintf("lead_%d_%d", batch, i),
		Name:      "Data Error",
		Company:   "Unknown Company",
		City:      params.City,
		Country:   params.Country,
		Source:    Source,
		Timestamp: ts,
	}
}

// pick returns the first non-empty value among keys, else the fallback.
// Upstream occasionally sends numbers where strings are expected (phone
// fields in particular), so scalars are coerced.
func pick(rec RawRecord, fallback string, keys ...string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			if s == float64(int64(s)) {
				return strconv.FormatInt(int64(s), 10)
			}
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return fallback
}
