package store

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-15", want: "2024-01-15"},
		{in: "2024-01-15T23:30:00Z", want: "2024-01-15"},
		{in: "2024-01-15T23:30:00-05:00", want: "2024-01-16"},
		{in: "15/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDay(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDay(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got.Format(time.DateOnly) != tc.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tc.in, got.Format(time.DateOnly), tc.want)
		}
		if got.Location() != time.UTC || got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("ParseDay(%q) not normalized to UTC midnight: %v", tc.in, got)
		}
	}
}

func TestDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 1, 16, 2, 0, 0, 0, ist)

	got := Day(in)
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
}
