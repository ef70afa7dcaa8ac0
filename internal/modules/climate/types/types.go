package types

import "time"

// DateLayout is the ISO 8601 calendar date format used by the dataset.
const DateLayout = time.DateOnly

// YearWindow is the fixed look-back used for "the last twelve months".
// It is a plain 365-day subtraction and ignores leap years.
const YearWindow = 365

type Measurement struct {
	StationID     string   `json:"station"`
	Date          string   `json:"date"`
	Precipitation *float64 `json:"prcp"`
	Temperature   float64  `json:"tobs"`
}

type Station struct {
	ID        string   `json:"station"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

type PrecipitationPoint struct {
	Date          string
	Precipitation *float64
}

// PrecipitationWindow is the trailing-year precipitation series ending at the
// most recent date in the dataset. Start and End are empty when there is no data.
type PrecipitationWindow struct {
	Start  string
	End    string
	Points []PrecipitationPoint
}

// StationTemperatures holds the trailing-year temperature observations of one station.
type StationTemperatures struct {
	StationID string
	Start     string
	End       string
	Temps     []float64
}

// TemperatureStats holds aggregates over tobs; fields are nil when no row matched.
type TemperatureStats struct {
	Min *float64
	Max *float64
	Avg *float64
}

// DateRange is an inclusive date filter; a zero End means open-ended.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) HasEnd() bool {
	return !r.End.IsZero()
}

// YearBefore returns the lower bound of the trailing window ending at t.
func YearBefore(t time.Time) time.Time {
	return t.AddDate(0, 0, -YearWindow)
}
