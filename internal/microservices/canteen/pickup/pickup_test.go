package pickup

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestNormalizeRollsPastTimesToTomorrow(t *testing.T) {
	now := at(15, 0)

	got, ok := Normalize("01:00", "PM", now)
	if !ok {
		t.Fatal("expected pickup time")
	}
	want := time.Date(2026, 3, 11, 13, 0, 0, 0, time.UTC)
	if !got.At.Equal(want) {
		t.Fatalf("at = %v, want %v", got.At, want)
	}
	if got.Display != "01:00 PM" {
		t.Fatalf("display = %q, want 01:00 PM", got.Display)
	}
}

func TestNormalizeKeepsLaterTimesToday(t *testing.T) {
	now := at(15, 0)

	got, ok := Normalize("06:00", "PM", now)
	if !ok {
		t.Fatal("expected pickup time")
	}
	want := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	if !got.At.Equal(want) {
		t.Fatalf("at = %v, want %v", got.At, want)
	}
	if got.Display != "06:00 PM" {
		t.Fatalf("display = %q", got.Display)
	}
}

func TestNormalizeTwelveHourConversion(t *testing.T) {
	now := at(0, 0)
	tests := []struct {
		clock, designator string
		wantHour          int
		wantDisplay       string
	}{
		{"12:30", "AM", 0, "12:30 AM"},
		{"12:30", "PM", 12, "12:30 PM"},
		{"9:05", "am", 9, "09:05 AM"},
		{"9:05", "pm", 21, "09:05 PM"},
		{" 11:59 ", " PM ", 23, "11:59 PM"},
		{"13:00", "AM", 13, "01:00 PM"},
		{"0:45", "AM", 0, "12:45 AM"},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.clock, tt.designator, now)
		if !ok {
			t.Fatalf("Normalize(%q, %q) failed", tt.clock, tt.designator)
		}
		if got.At.Hour() != tt.wantHour {
			t.Fatalf("Normalize(%q, %q) hour = %d, want %d", tt.clock, tt.designator, got.At.Hour(), tt.wantHour)
		}
		if got.Display != tt.wantDisplay {
			t.Fatalf("Normalize(%q, %q) display = %q, want %q", tt.clock, tt.designator, got.Display, tt.wantDisplay)
		}
	}
}

func TestNormalizeExactlyNowIsToday(t *testing.T) {
	now := at(13, 0)
	got, ok := Normalize("01:00", "PM", now)
	if !ok {
		t.Fatal("expected pickup time")
	}
	if !got.At.Equal(now) {
		t.Fatalf("at = %v, want %v", got.At, now)
	}
}

func TestNormalizeRejectsMalformedInput(t *testing.T) {
	now := at(10, 0)
	tests := []struct{ clock, designator string }{
		{"", "PM"},
		{"10:00", ""},
		{"ten:00", "AM"},
		{"10:xx", "AM"},
		{"10", "AM"},
		{"10:00:00", "AM"},
		{"10:00", "XM"},
		{"10:75", "AM"},
		{"25:00", "AM"},
		{"13:00", "PM"},
	}
	for _, tt := range tests {
		if got, ok := Normalize(tt.clock, tt.designator, now); ok {
			t.Fatalf("Normalize(%q, %q) = %+v, want failure", tt.clock, tt.designator, got)
		}
	}
}

func TestNormalizeUsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)

	got, ok := Normalize("08:15", "AM", now)
	if !ok {
		t.Fatal("expected pickup time")
	}
	want := time.Date(2026, 3, 11, 8, 15, 0, 0, loc)
	if !got.At.Equal(want) {
		t.Fatalf("at = %v, want %v", got.At, want)
	}
	if got.ISO() != "2026-03-11T08:15:00+05:30" {
		t.Fatalf("iso = %q", got.ISO())
	}
}
