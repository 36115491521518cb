package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"reeflog.org/internal/mpa"
)

const maxForecastDays = 10

func (a *API) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.conditions == nil {
		writeError(w, r, http.StatusServiceUnavailable, "geocoding is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	places, err := a.conditions.Geocode(r.Context(), query, 8)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "geocoding lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": places})
}

func (a *API) handleConditions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.conditions == nil {
		writeError(w, r, http.StatusServiceUnavailable, "conditions are not configured")
		return
	}

	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat is required")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lon is required")
		return
	}

	start := time.Now().UTC()
	if raw := q.Get("date"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	days := 1
	if raw := q.Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			writeError(w, r, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		if days > maxForecastDays {
			days = maxForecastDays
		}
	}
	end := start.AddDate(0, 0, days-1)

	timezone := q.Get("timezone")
	if timezone == "" {
		timezone = "auto"
	}

	report, err := a.conditions.Conditions(r.Context(), lat, lon, start, end, timezone)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "conditions lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleMPAAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.mpa == nil {
		writeError(w, r, http.StatusServiceUnavailable, "protected-area lookup is not configured")
		return
	}

	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, r, http.StatusBadRequest, "lat must be between -90 and 90")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, r, http.StatusBadRequest, "lon must be between -180 and 180")
		return
	}

	areas, err := a.mpa.Locate(r.Context(), lon, lat)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "protected-area lookup failed")
		return
	}
	if areas == nil {
		areas = []mpa.Area{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    len(areas) > 0,
		"count": len(areas),
		"areas": areas,
	})
}
