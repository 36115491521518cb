package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"reeflog.org/internal/audit"
	"reeflog.org/internal/auth"
	"reeflog.org/internal/divelog"
)

func (a *API) handleDives(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listDives(w, r)
	case http.MethodPost:
		a.createDive(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listDives(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	records, err := a.dives.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "listing failed")
		return
	}
	if records == nil {
		records = []divelog.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) createDive(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var fields divelog.Fields
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	record, err := a.dives.Create(r.Context(), userID, fields)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "create failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "dive.create", map[string]any{
		"record_id": record.ID,
	})

	writeJSON(w, http.StatusCreated, record)
}

func (a *API) handleDiveByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/dives/")
	recordID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || recordID < 1 {
		writeError(w, r, http.StatusNotFound, "record not found")
		return
	}

	if err := a.dives.Delete(r.Context(), userID, recordID); err != nil {
		if errors.Is(err, divelog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "record not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "delete failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "dive.delete", map[string]any{
		"record_id": recordID,
	})

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
