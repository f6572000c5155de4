package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlexTime_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"rfc3339", `"2025-06-01T12:00:00Z"`, timePtr(2025, 6, 1, 12, 0, 0)},
		{"bare date", `"2025-06-01"`, timePtr(2025, 6, 1, 0, 0, 0)},
		{"space separator", `"2025-06-01 12:30:00"`, timePtr(2025, 6, 1, 12, 30, 0)},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"garbage", `"last tuesday"`, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var f FlexTime
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			got := f.Time()
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Time() = %v, want absent", got)
			case tt.want != nil && got == nil:
				t.Errorf("Time() = nil, want %v", tt.want)
			case tt.want != nil && !got.Equal(*tt.want):
				t.Errorf("Time() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlexTime_InsideStruct(t *testing.T) {
	t.Parallel()

	var req LogMileageRequest
	payload := `{"mileage": 46000, "date": "not a date", "notes": "x"}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Mileage != 46000 {
		t.Errorf("Mileage = %d", req.Mileage)
	}
	if req.Date.Time() != nil {
		t.Error("malformed date should decode as absent, not fail the request")
	}
}

func timePtr(y int, mo time.Month, d, h, mi, s int) *time.Time {
	t := time.Date(y, mo, d, h, mi, s, 0, time.UTC)
	return &t
}
