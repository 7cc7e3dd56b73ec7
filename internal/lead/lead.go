package lead

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxFieldLen caps every inbound search parameter.
const MaxFieldLen = 100

// SearchParams is a validated inbound search request.
type SearchParams struct {
	Niche   string `json:"niche"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// SearchHandle identifies an initiated upstream search. It is ephemeral:
// the caller keeps it between the initiate and results steps, the proxy
// never stores it.
type SearchHandle struct {
	SearchID    int `json:"searchid"`
	WaitSeconds int `json:"wait_seconds"`
}

// RawRecord is one element of the upstream results array. Upstream field
// names are inconsistent, so it stays weakly typed until Transform. A nil
// RawRecord marks an array element that was not a JSON object.
type RawRecord map[string]any

// Lead is the normalized record returned to callers.
type Lead struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Company   string `json:"company"`
	City      string `json:"city"`
	Address   string `json:"address"`
	Country   string `json:"country"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// ValidationError carries the names of the offending request fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// ParseSearchParams validates the decoded request body for the search and
// full-search operations: niche, city and country must be present, strings,
// and at most MaxFieldLen characters each.
func ParseSearchParams(body map[string]any) (SearchParams, error) {
	var bad []string

	niche, ok := stringField(body, "niche")
	if !ok {
		bad = append(bad, "niche")
	}
	city, ok := stringField(body, "city")
	if !ok {
		bad = append(bad, "city")
	}
	country, ok := stringField(body, "country")
	if !ok {
		bad = append(bad, "country")
	}

	if len(bad) > 0 {
		return SearchParams{}, &ValidationError{Fields: bad}
	}
	return SearchParams{Niche: niche, City: city, Country: country}, nil
}

// ParseSearchID coerces the searchid value from a decoded request body into
// a positive integer. JSON numbers and numeric strings are both accepted.
func ParseSearchID(v any) (int, error) {
	switch id := v.(type) {
	case float64:
		if id > 0 && id == float64(int(id)) {
			return int(id), nil
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil && n > 0 {
			return n, nil
		}
	case json.Number:
		if n, err := id.Int64(); err == nil && n > 0 {
			return int(n), nil
		}
	case int:
		if id > 0 {
			return id, nil
		}
	}
	return 0, &ValidationError{Fields: []string{"searchid"}}
}

func stringField(body map[string]any, key string) (string, bool) {
	v, ok := body[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	// The limit is characters, not bytes; multibyte input must not be
	// penalized for its encoding.
	if s == "" || utf8.RuneCountInString(s) > MaxFieldLen {
		return "", false
	}
	return s, true
}

func (p SearchParams) String() string {
	return fmt.Sprintf("%s in %s, %s", p.Niche, p.City, p.Country)
}
