package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	got := New(2025, 2, 29)
	if want := New(2025, 3, 1); got != want {
		t.Errorf("New(2025, 2, 29) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-01-02", New(2025, 1, 2), false},
		{"2025-7-1", New(2025, 7, 1), false},
		{"01/02/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, 12, 9)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if string(data) != `"2024-12-09"` {
		t.Errorf("Marshal() = %s, want %q", data, `"2024-12-09"`)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("Unmarshal() = %v, want %v", back, d)
	}
}

func TestOf(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2025, 3, 4, 23, 59, 0, 0, loc)
	if got, want := Of(at), New(2025, 3, 4); got != want {
		t.Errorf("Of(%v) = %v, want %v", at, got, want)
	}
}
