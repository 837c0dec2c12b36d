package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"carrierwatch/internal/auth"
	"carrierwatch/internal/register"
	"carrierwatch/internal/storage"
)

type saveEntriesRequest struct {
	Entries   []register.RegisterEntry `json:"entries"`
	FetchDate string                   `json:"fetchDate"`
}

// RegisterEntriesHandlers registers the persistence gateway endpoints:
//
//	POST /api/entries                       save a batch of entries
//	GET  /api/entries?dateFrom=&dateTo=     list saved entries by fetch date
//
// Listing stays open; saving requires entries write permission when auth is
// configured.
func RegisterEntriesHandlers(mux *http.ServeMux, st storage.Storage, authSvc *auth.Service) {
	save := requireWrite(authSvc, "entries", handleSaveEntries(st))
	list := handleListEntries(st)

	mux.HandleFunc("/api/entries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			save.ServeHTTP(w, r)
		case http.MethodGet:
			list(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func handleSaveEntries(st storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusServiceUnavailable, "storage unavailable", "")
			return
		}

		var req saveEntriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
		if len(req.Entries) == 0 {
			writeError(w, http.StatusBadRequest, "no entries to save", "")
			return
		}

		fetchDate := req.FetchDate
		if fetchDate == "" {
			fetchDate = time.Now().Format("2006-01-02")
		} else if t, err := register.ParseRequestDate(fetchDate); err == nil {
			fetchDate = t.Format("2006-01-02")
		} else {
			writeError(w, http.StatusBadRequest, "invalid fetchDate", err.Error())
			return
		}

		rows := make([]storage.Entry, 0, len(req.Entries))
		for _, e := range req.Entries {
			rows = append(rows, storage.Entry{
				Number:    e.Number,
				Title:     e.Title,
				Decided:   e.Decided,
				Category:  e.Category,
				FetchDate: fetchDate,
			})
		}

		if err := st.SaveEntries(r.Context(), rows); err != nil {
			log.Printf("save entries failed: %v", err)
			writeError(w, http.StatusInternalServerError, "save failed", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   len(rows),
		})
	}
}

func handleListEntries(st storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusServiceUnavailable, "storage unavailable", "")
			return
		}

		normalize := func(raw string) (string, error) {
			if raw == "" {
				return "", nil
			}
			t, err := register.ParseRequestDate(raw)
			if err != nil {
				return "", err
			}
			return t.Format("2006-01-02"), nil
		}

		dateFrom, err := normalize(r.URL.Query().Get("dateFrom"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dateFrom", err.Error())
			return
		}
		dateTo, err := normalize(r.URL.Query().Get("dateTo"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dateTo", err.Error())
			return
		}

		rows, err := st.ListEntries(r.Context(), dateFrom, dateTo)
		if err != nil {
			log.Printf("list entries failed: %v", err)
			writeError(w, http.StatusInternalServerError, "list failed", err.Error())
			return
		}

		entries := make([]register.RegisterEntry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, register.RegisterEntry{
				Number:   row.Number,
				Title:    row.Title,
				Decided:  row.Decided,
				Category: row.Category,
			})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   len(entries),
			"entries": entries,
		})
	}
}
