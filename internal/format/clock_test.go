package format

import (
	"testing"
	"time"
)

func TestClockTime(t *testing.T) {
	tests := []struct {
		hour, min int
		want      string
	}{
		{9, 5, "09:05"},
		{23, 0, "23:00"},
		{0, 0, "00:00"},
	}
	for _, tt := range tests {
		ts := time.Date(2026, 3, 1, tt.hour, tt.min, 42, 0, time.UTC)
		if got := ClockTime(ts); got != tt.want {
			t.Errorf("ClockTime(%02d:%02d) = %q, want %q", tt.hour, tt.min, got, tt.want)
		}
	}
}

func TestTime12(t *testing.T) {
	tests := []struct {
		hour, min int
		want      string
	}{
		{0, 7, "12:07 AM"},
		{9, 5, "9:05 AM"},
		{12, 0, "12:00 PM"},
		{23, 59, "11:59 PM"},
	}
	for _, tt := range tests {
		ts := time.Date(2026, 3, 1, tt.hour, tt.min, 0, 0, time.UTC)
		if got := Time12(ts); got != tt.want {
			t.Errorf("Time12(%02d:%02d) = %q, want %q", tt.hour, tt.min, got, tt.want)
		}
	}
}

func TestDateTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"today", time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), "8:30 AM"},
		{"yesterday across month", time.Date(2026, 2, 28, 21, 15, 0, 0, time.UTC), "Yesterday, 9:15 PM"},
		{"older", time.Date(2026, 2, 20, 14, 5, 0, 0, time.UTC), "2/20/2026 2:05 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateTime(tt.at, now); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
