package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carrierwatch/internal/api/swagger"
	"carrierwatch/internal/auth"
	"carrierwatch/internal/carrier"
	migrate "carrierwatch/internal/migrate"
	"carrierwatch/internal/notification"
	"carrierwatch/internal/register"
	"carrierwatch/internal/storage"
	"carrierwatch/internal/ui"
)

// NewMux constructs the HTTP mux, wiring in the register service, carrier
// lookups, metrics, and health endpoints.
func NewMux() *http.ServeMux {
	// Optional auto-migration: run `goose up` on startup when enabled.
	autoMig := os.Getenv("CARRIERWATCH_AUTO_MIGRATE")
	driver := os.Getenv("CARRIERWATCH_DB_DRIVER")
	dsn := os.Getenv("CARRIERWATCH_DB_DSN")
	if autoMig == "1" || strings.ToLower(autoMig) == "true" || strings.ToLower(autoMig) == "yes" {
		ctx := context.Background()
		if driver == "" {
			driver = "sqlite"
		}
		if dsn == "" {
			dsn = "carrierwatch.db"
		}
		if err := migrate.Up(ctx, driver, dsn); err != nil {
			log.Printf("auto-migration failed: %v", err)
		}
	}

	// Construct the register service, preferring a real storage backend when
	// available. The in-memory backend is preloaded with the source
	// descriptors so the UI and worker know which sources exist.
	ctxSvc := context.Background()
	var st storage.Storage
	var err error
	if driver == "memory" {
		var sList []storage.Source
		for _, sd := range register.Sources() {
			sList = append(sList, storage.Source{
				Key:   sd.Key,
				Name:  sd.Name,
				Kind:  string(sd.Kind),
				URL:   sd.URL,
				Notes: sd.Notes,
			})
		}
		st = storage.NewMemoryWithSources(sList)
	} else {
		st, err = storage.Open(ctxSvc, storage.Config{Driver: driver, DSN: dsn})
	}

	var svc *register.Service
	fetcher := register.NewFetcher()
	cfg := register.DefaultCategoryConfig()
	if err != nil {
		log.Printf("storage.Open failed (driver=%s dsn=%s): %v; running without persistence", driver, dsn, err)
		st = nil
		svc = register.NewService(fetcher, cfg)
	} else {
		log.Printf("register service using storage backend driver=%s", driver)
		svc = register.NewServiceWithStorage(fetcher, cfg, st)
	}

	// Auth is optional; it needs account storage and an explicit opt-in.
	var authSvc *auth.Service
	if st != nil && authEnabled() {
		if accounts, ok := st.(storage.AccountStore); ok {
			authSvc, err = auth.NewService(accounts)
			if err != nil {
				log.Printf("auth init failed: %v; continuing without auth", err)
				authSvc = nil
			}
		} else {
			log.Printf("auth enabled but driver %q has no account storage; continuing without auth", driver)
		}
	}

	mux := http.NewServeMux()

	// Metrics endpoint.
	mux.Handle("/metrics", promhttp.Handler())

	// Health / readiness / liveness.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if err := st.Ping(r.Context()); err != nil {
			log.Printf("readyz: db ping failed: %v", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})

	// Register API.
	RegisterRegisterHandlers(mux, svc, authSvc)

	// Carrier profile lookups.
	RegisterCarrierHandlers(mux, carrier.NewClient(carrier.DefaultEndpoints()))

	// Persistence gateway.
	RegisterEntriesHandlers(mux, st, authSvc)

	// Auth-gated settings.
	if authSvc != nil {
		registerAuthRoutes(mux, authSvc)
		registerNotificationRoutes(mux, authSvc, notification.NewService(st.(storage.AccountStore)))
	}

	// API documentation.
	mux.Handle("/swagger/", http.StripPrefix("/swagger", swagger.Handler()))

	// Web UI.
	mux.Handle("/ui/", http.StripPrefix("/ui/", ui.Handler()))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/ui/", http.StatusFound)
	})

	return mux
}

func authEnabled() bool {
	v := strings.ToLower(os.Getenv("CARRIERWATCH_AUTH_ENABLED"))
	return v == "1" || v == "true" || v == "yes"
}
