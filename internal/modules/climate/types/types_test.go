package types

import (
	"testing"
	"time"
)

func TestYearBefore(t *testing.T) {
	tests := []struct {
		end  string
		want string
	}{
		{end: "2017-08-23", want: "2016-08-23"},
		// 2016 is a leap year, so 365 days back lands one day later
		{end: "2016-08-23", want: "2015-08-24"},
		{end: "2017-01-01", want: "2016-01-02"},
	}
	for _, tt := range tests {
		end, err := time.Parse(DateLayout, tt.end)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.end, err)
		}
		if got := YearBefore(end).Format(DateLayout); got != tt.want {
			t.Errorf("YearBefore(%s) = %s; want %s", tt.end, got, tt.want)
		}
	}
}

func TestDateRange_HasEnd(t *testing.T) {
	start := time.Date(2016, time.August, 23, 0, 0, 0, 0, time.UTC)
	if (DateRange{Start: start}).HasEnd() {
		t.Error("open range reports an end")
	}
	if !(DateRange{Start: start, End: start}).HasEnd() {
		t.Error("closed range reports no end")
	}
}
