package lead

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseSearchParams(t *testing.T) {
	long := strings.Repeat("x", MaxFieldLen+1)

	tests := []struct {
		name    string
		body    map[string]any
		want    SearchParams
		wantBad []string
	}{
		{
			name: "valid",
			body: map[string]any{"niche": "dentist", "city": "Austin", "country": "US"},
			want: SearchParams{Niche: "dentist", City: "Austin", Country: "US"},
		},
		{
			name: "valid at max length",
			body: map[string]any{
				"niche":   strings.Repeat("a", MaxFieldLen),
				"city":    "Austin",
				"country": "US",
			},
			want: SearchParams{Niche: strings.Repeat("a", MaxFieldLen), City: "Austin", Country: "US"},
		},
		{
			name: "multibyte at max length",
			body: map[string]any{
				"niche":   "dentist",
				"city":    strings.Repeat("Ö", MaxFieldLen),
				"country": "DE",
			},
			want: SearchParams{Niche: "dentist", City: strings.Repeat("Ö", MaxFieldLen), Country: "DE"},
		},
		{
			name: "multibyte over max length",
			body: map[string]any{
				"niche":   "dentist",
				"city":    strings.Repeat("Ö", MaxFieldLen+1),
				"country": "DE",
			},
			wantBad: []string{"city"},
		},
		{
			name:    "missing niche",
			body:    map[string]any{"city": "Austin", "country": "US"},
			wantBad: []string{"niche"},
		},
		{
			name:    "all missing",
			body:    map[string]any{},
			wantBad: []string{"niche", "city", "country"},
		},
		{
			name:    "non-string field",
			body:    map[string]any{"niche": float64(42), "city": "Austin", "country": "US"},
			wantBad: []string{"niche"},
		},
		{
			name:    "too long field",
			body:    map[string]any{"niche": "dentist", "city": long, "country": "US"},
			wantBad: []string{"city"},
		},
		{
			name:    "empty string field",
			body:    map[string]any{"niche": "dentist", "city": "  ", "country": "US"},
			wantBad: []string{"city"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchParams(tt.body)
			if len(tt.wantBad) > 0 {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("ParseSearchParams() error = %v, want ValidationError", err)
				}
				if len(vErr.Fields) != len(tt.wantBad) {
					t.Fatalf("fields = %v, want %v", vErr.Fields, tt.wantBad)
				}
				for i, f := range vErr.Fields {
					if f != tt.wantBad[i] {
						t.Errorf("fields[%d] = %q, want %q", i, f, tt.wantBad[i])
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSearchParams() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSearchParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSearchID(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int
		wantErr bool
	}{
		{"json number", float64(123), 123, false},
		{"numeric string", "123", 123, false},
		{"padded string", " 42 ", 42, false},
		{"json.Number", json.Number("7"), 7, false},
		{"int", 9, 9, false},
		{"zero", float64(0), 0, true},
		{"negative", float64(-5), 0, true},
		{"fractional", float64(1.5), 0, true},
		{"non-numeric string", "abc", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchID(tt.in)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("ParseSearchID(%v) error = %v, want ValidationError", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSearchID(%v) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSearchID(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
