package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"climate-api/internal/modules/climate/types"
)

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-station-ids.sql
var getStationIDsSQL string

//go:embed sql/get-station.sql
var getStationSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-station-latest-date.sql
var getStationLatestDateSQL string

//go:embed sql/get-station-tobs-since.sql
var getStationTobsSinceSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-range.sql
var getTemperatureStatsRangeSQL string

// ErrNotFound is returned when a lookup by identifier matches nothing.
var ErrNotFound = errors.New("not found")

type ClimateRepository interface {
	PrecipitationLastYear(ctx context.Context) (types.PrecipitationWindow, error)
	StationIDs(ctx context.Context) ([]string, error)
	Station(ctx context.Context, id string) (types.Station, error)
	MostActiveStationTemperatures(ctx context.Context) (types.StationTemperatures, error)
	TemperatureStats(ctx context.Context, r types.DateRange) (types.TemperatureStats, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

// withConn runs fn on a connection reserved from the pool for the duration of
// the call and hands it back on every return path.
func (r *repositoryImpl) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release connection", "error", err)
		}
	}()
	return fn(conn)
}

func (r *repositoryImpl) PrecipitationLastYear(ctx context.Context) (types.PrecipitationWindow, error) {
	var out types.PrecipitationWindow
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		end, ok, err := latestDate(ctx, conn, getLatestDateSQL)
		if err != nil {
			return fmt.Errorf("latest measurement date: %w", err)
		}
		if !ok {
			return nil
		}
		start := types.YearBefore(end)

		rows, err := conn.QueryContext(ctx, getPrecipitationSinceSQL, start.Format(types.DateLayout))
		if err != nil {
			return fmt.Errorf("query precipitation: %w", err)
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close precipitation rows", "error", err)
			}
		}()

		points := []types.PrecipitationPoint{}
		for rows.Next() {
			var (
				p    types.PrecipitationPoint
				prcp sql.NullFloat64
			)
			if err := rows.Scan(&p.Date, &prcp); err != nil {
				return err
			}
			p.Precipitation = nullableFloat(prcp)
			points = append(points, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		out = types.PrecipitationWindow{
			Start:  start.Format(types.DateLayout),
			End:    end.Format(types.DateLayout),
			Points: points,
		}
		return nil
	})
	return out, err
}

func (r *repositoryImpl) StationIDs(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getStationIDsSQL)
		if err != nil {
			return fmt.Errorf("query stations: %w", err)
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close stations rows", "error", err)
			}
		}()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			out = append(out, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) Station(ctx context.Context, id string) (types.Station, error) {
	var st types.Station
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var (
			name                sql.NullString
			lat, lon, elevation sql.NullFloat64
		)
		err := conn.QueryRowContext(ctx, getStationSQL, id).Scan(&st.ID, &name, &lat, &lon, &elevation)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("station %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("query station %q: %w", id, err)
		}
		st.Name = name.String
		st.Latitude = nullableFloat(lat)
		st.Longitude = nullableFloat(lon)
		st.Elevation = nullableFloat(elevation)
		return nil
	})
	if err != nil {
		return types.Station{}, err
	}
	return st, nil
}

func (r *repositoryImpl) MostActiveStationTemperatures(ctx context.Context) (types.StationTemperatures, error) {
	out := types.StationTemperatures{Temps: []float64{}}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var stationID string
		err := conn.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&stationID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("most active station: %w", err)
		}
		out.StationID = stationID

		end, ok, err := latestDate(ctx, conn, getStationLatestDateSQL, stationID)
		if err != nil {
			return fmt.Errorf("latest date for %s: %w", stationID, err)
		}
		if !ok {
			return nil
		}
		start := types.YearBefore(end)
		out.Start = start.Format(types.DateLayout)
		out.End = end.Format(types.DateLayout)

		rows, err := conn.QueryContext(ctx, getStationTobsSinceSQL, stationID, out.Start)
		if err != nil {
			return fmt.Errorf("query temperatures for %s: %w", stationID, err)
		}
		defer func() {
			if err := rows.Close(); err != nil {
				slog.Error("close temperature rows", "error", err)
			}
		}()
		for rows.Next() {
			var tobs float64
			if err := rows.Scan(&tobs); err != nil {
				return err
			}
			out.Temps = append(out.Temps, tobs)
		}
		return rows.Err()
	})
	if err != nil {
		return types.StationTemperatures{}, err
	}
	return out, nil
}

func (r *repositoryImpl) TemperatureStats(ctx context.Context, dr types.DateRange) (types.TemperatureStats, error) {
	var out types.TemperatureStats
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		var row *sql.Row
		if dr.HasEnd() {
			row = conn.QueryRowContext(ctx, getTemperatureStatsRangeSQL,
				dr.Start.Format(types.DateLayout), dr.End.Format(types.DateLayout))
		} else {
			row = conn.QueryRowContext(ctx, getTemperatureStatsFromSQL, dr.Start.Format(types.DateLayout))
		}
		var tmin, tmax, tavg sql.NullFloat64
		if err := row.Scan(&tmin, &tmax, &tavg); err != nil {
			return fmt.Errorf("query temperature stats: %w", err)
		}
		out = types.TemperatureStats{
			Min: nullableFloat(tmin),
			Max: nullableFloat(tmax),
			Avg: nullableFloat(tavg),
		}
		return nil
	})
	return out, err
}

// latestDate runs a single-value MAX(date) query. ok is false when the
// aggregate is NULL, i.e. no rows matched.
func latestDate(ctx context.Context, conn *sql.Conn, query string, args ...any) (t time.Time, ok bool, err error) {
	var s sql.NullString
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&s); err != nil {
		return time.Time{}, false, err
	}
	if !s.Valid || s.String == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(types.DateLayout, s.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse date %q: %w", s.String, err)
	}
	return t, true, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
