package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"climate-api/internal/modules/climate/types"
)

// pathDateLayout is MMDDYYYY.
const pathDateLayout = "01022006"

// parsePathDate accepts exactly eight digits forming a real calendar date.
func parsePathDate(name, s string) (time.Time, error) {
	if len(s) != len(pathDateLayout) || !allDigits(s) {
		return time.Time{}, fmt.Errorf("invalid '%s' %q (expected MMDDYYYY)", name, s)
	}
	t, err := time.Parse(pathDateLayout, s)
	if err != nil || t.Year() < 1 {
		return time.Time{}, fmt.Errorf("invalid '%s' %q (not a calendar date in MMDDYYYY)", name, s)
	}
	return t, nil
}

func parseDateRange(r *http.Request) (types.DateRange, error) {
	start, err := parsePathDate("start", r.PathValue("start"))
	if err != nil {
		return types.DateRange{}, err
	}
	dr := types.DateRange{Start: start}

	if s := r.PathValue("end"); s != "" {
		end, err := parsePathDate("end", s)
		if err != nil {
			return types.DateRange{}, err
		}
		if start.After(end) {
			return types.DateRange{}, errors.New("'start' must be <= 'end'")
		}
		dr.End = end
	}
	return dr, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// round2 rounds to two decimal places using the exact binary value of v, so
// a true tie goes to the even digit and 0.125 becomes 0.12.
func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(*v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return &r
}
