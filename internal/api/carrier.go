package api

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"carrierwatch/internal/carrier"
	"carrierwatch/internal/metrics"
)

var identRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// RegisterCarrierHandlers registers the carrier profile endpoints:
//
//	GET /api/carrier/{dotNumber}
//	GET /api/safety/{dotNumber}
//	GET /api/insurance/{docketNumber}
func RegisterCarrierHandlers(mux *http.ServeMux, client *carrier.Client) {
	mux.HandleFunc("/api/carrier/", handleCarrierLookup("/api/carrier/", func(r *http.Request, id string) (any, error) {
		return client.GetSnapshot(r.Context(), id)
	}))
	mux.HandleFunc("/api/safety/", handleCarrierLookup("/api/safety/", func(r *http.Request, id string) (any, error) {
		return client.GetSafetyProfile(r.Context(), id)
	}))
	mux.HandleFunc("/api/insurance/", handleCarrierLookup("/api/insurance/", func(r *http.Request, id string) (any, error) {
		policies, err := client.GetPolicies(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return struct {
			DocketNumber string           `json:"docketNumber"`
			Count        int              `json:"count"`
			Policies     []carrier.Policy `json:"policies"`
		}{DocketNumber: id, Count: len(policies), Policies: policies}, nil
	}))
}

func handleCarrierLookup(prefix string, lookup func(*http.Request, string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
		if id == "" || !identRe.MatchString(id) {
			http.Error(w, "invalid identifier", http.StatusBadRequest)
			return
		}

		defer func() {
			dur := time.Since(start).Seconds()
			metrics.RequestDurationSeconds.WithLabelValues("carrier", prefix).Observe(dur)
		}()
		metrics.RequestsTotal.WithLabelValues("carrier").Inc()

		result, err := lookup(r, id)
		if err != nil {
			if errors.Is(err, carrier.ErrNotFound) {
				metrics.RequestErrorsTotal.WithLabelValues("carrier", prefix, "404").Inc()
				http.Error(w, "record not found", http.StatusNotFound)
				return
			}
			log.Printf("carrier lookup %s%s failed: %v", prefix, id, err)
			metrics.RequestErrorsTotal.WithLabelValues("carrier", prefix, "500").Inc()
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
