package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"carrierwatch/internal/auth"
	"carrierwatch/internal/metrics"
	"carrierwatch/internal/register"
)

// RegisterRegisterHandlers registers the register endpoints:
//
//	GET  /api/register?date=MM/DD/YYYY
//	GET  /api/register/pdf?date=MM/DD/YYYY
//	POST /api/register/refresh?source={html-register|pdf-register}&date=...
//	GET  /api/sources
//
// The read endpoints stay open; refresh mutates the cache and requires
// register write permission when auth is configured.
func RegisterRegisterHandlers(mux *http.ServeMux, svc *register.Service, authSvc *auth.Service) {
	mux.HandleFunc("/api/register", handleRegister(svc, register.SourceHTML))
	mux.HandleFunc("/api/register/pdf", handleRegister(svc, register.SourcePDF))
	mux.Handle("/api/register/refresh", requireWrite(authSvc, "register", handleRefresh(svc)))
	mux.HandleFunc("/api/sources", handleSources)
}

func requestDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), nil
	}
	return register.ParseRequestDate(raw)
}

func handleRegister(svc *register.Service, kind register.SourceKind) http.HandlerFunc {
	labelsPath := "/api/register"
	if kind == register.SourcePDF {
		labelsPath = "/api/register/pdf"
	}
	source := string(kind)

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		defer func() {
			dur := time.Since(start).Seconds()
			metrics.RequestDurationSeconds.WithLabelValues(source, labelsPath).Observe(dur)
		}()
		metrics.RequestsTotal.WithLabelValues(source).Inc()

		date, err := requestDate(r)
		if err != nil {
			metrics.RequestErrorsTotal.WithLabelValues(source, labelsPath, "400").Inc()
			writeError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}

		var resp *register.RegisterResponse
		if kind == register.SourcePDF {
			resp, err = svc.GetRegisterPDF(r.Context(), date)
		} else {
			resp, err = svc.GetRegister(r.Context(), date)
		}
		if err != nil {
			writeRegisterError(w, source, labelsPath, err)
			return
		}

		metrics.RegisterEntriesExtracted.WithLabelValues(source).Set(float64(resp.Count))
		writeJSON(w, http.StatusOK, resp)
	}
}

// writeRegisterError maps service failures onto the three response classes:
// a malformed upstream page is the caller's 400, a missing day's entries is a
// 404, and anything else (timeouts, non-2xx, decode failures) is a 500.
func writeRegisterError(w http.ResponseWriter, source, labelsPath string, err error) {
	switch {
	case errors.Is(err, register.ErrInvalidResponse):
		log.Printf("register %s: invalid response: %v", source, err)
		metrics.RequestErrorsTotal.WithLabelValues(source, labelsPath, "400").Inc()
		writeError(w, http.StatusBadRequest, "invalid response", err.Error())
	case errors.Is(err, register.ErrNoEntries):
		log.Printf("register %s: no entries: %v", source, err)
		metrics.RequestErrorsTotal.WithLabelValues(source, labelsPath, "404").Inc()
		writeError(w, http.StatusNotFound, "no entries found", "")
	default:
		log.Printf("register %s: fetch failed: %v", source, err)
		metrics.RequestErrorsTotal.WithLabelValues(source, labelsPath, "500").Inc()
		writeError(w, http.StatusInternalServerError, "fetch failed", err.Error())
	}
}

func handleRefresh(svc *register.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		kind := register.SourceKind(strings.ToLower(r.URL.Query().Get("source")))
		if kind == "" {
			kind = register.SourceHTML
		}
		if _, ok := register.GetSource(kind); !ok {
			writeError(w, http.StatusNotFound, "unknown source", string(kind))
			return
		}

		date, err := requestDate(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}

		resp, err := svc.ForceRefresh(r.Context(), kind, date)
		if err != nil {
			writeRegisterError(w, string(kind), "/api/register/refresh", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "refreshed",
			"source":  string(kind),
			"date":    resp.Date,
			"count":   resp.Count,
			"entries": resp.Entries,
		})
	}
}

func handleSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Sources []register.SourceDescriptor `json:"sources"`
	}{Sources: register.Sources()})
}
