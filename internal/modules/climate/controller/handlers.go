package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"climate-api/internal/modules/climate/repository"
	"climate-api/internal/modules/climate/views"
	"climate-api/internal/utils"
)

type stationsResponse struct {
	Stations []string `json:"stations"`
}

type tobsResponse struct {
	Temps []float64 `json:"temps"`
}

type temperatureStatsResponse struct {
	TMin *float64 `json:"tmin"`
	TMax *float64 `json:"tmax"`
	TAvg *float64 `json:"tavg"`
}

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, views.DefaultIndexData()); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	window, err := c.repository.PrecipitationLastYear(r.Context())
	if err != nil {
		slog.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}

	// later rows overwrite earlier ones sharing a date
	byDate := make(map[string]*float64, len(window.Points))
	for _, p := range window.Points {
		byDate[p.Date] = p.Precipitation
	}
	utils.WriteJSON(w, http.StatusOK, byDate)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	ids, err := c.repository.StationIDs(r.Context())
	if err != nil {
		slog.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, stationsResponse{Stations: ids})
}

func (c *climateControllerImpl) handleStation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing station id")
		return
	}

	st, err := c.repository.Station(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "unknown station "+id)
		return
	}
	if err != nil {
		slog.Error("station: query failed", "station_id", id, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load station")
		return
	}
	utils.WriteJSON(w, http.StatusOK, st)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	temps, err := c.repository.MostActiveStationTemperatures(r.Context())
	if err != nil {
		slog.Error("tobs: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	slog.Debug("tobs window",
		"station_id", temps.StationID,
		"start", temps.Start,
		"end", temps.End,
		"count", len(temps.Temps),
	)

	values := temps.Temps
	if values == nil {
		values = []float64{}
	}
	utils.WriteJSON(w, http.StatusOK, tobsResponse{Temps: values})
}

func (c *climateControllerImpl) handleTemperatureStats(w http.ResponseWriter, r *http.Request) {
	dr, err := parseDateRange(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := c.repository.TemperatureStats(r.Context(), dr)
	if err != nil {
		slog.Error("temperature stats: query failed", "start", dr.Start, "end", dr.End, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature statistics")
		return
	}

	utils.WriteJSON(w, http.StatusOK, temperatureStatsResponse{
		TMin: stats.Min,
		TMax: stats.Max,
		TAvg: round2(stats.Avg),
	})
}
