package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carrierwatch/internal/carrier"
)

const carrierSnapshotPage = `
<html><body>
<table>
<tr><th>Legal Name:</th><td>SMITH TRUCKING CO</td></tr>
<tr><th>USDOT Number:</th><td>1234567</td></tr>
<tr><th>Operating Status:</th><td>AUTHORIZED FOR Property</td></tr>
</table>
</body></html>
`

// testCarrierServer serves canned upstream pages and returns a client wired
// against them. The email page 404s, which must degrade to an empty Email
// rather than failing the snapshot.
func testCarrierServer(t *testing.T) *carrier.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/snapshot":
			switch r.URL.Query().Get("id") {
			case "1234567":
				w.Write([]byte(carrierSnapshotPage))
			default:
				w.Write([]byte("<html><body>Record Not Found</body></html>"))
			}
		case "/insurance":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"insurerName":"Acme Insurance Co","policyNumber":"POL-1"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return carrier.NewClient(carrier.Endpoints{
		SnapshotURL:  srv.URL + "/snapshot?id=%s",
		EmailURL:     srv.URL + "/email?id=%s",
		SafetyURL:    srv.URL + "/safety?id=%s",
		InsuranceURL: srv.URL + "/insurance?id=%s",
	})
}

func newCarrierMux(t *testing.T) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterCarrierHandlers(mux, testCarrierServer(t))
	return mux
}

func TestCarrierEndpoint(t *testing.T) {
	mux := newCarrierMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/carrier/1234567", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snap carrier.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.LegalName != "SMITH TRUCKING CO" {
		t.Errorf("unexpected legal name %q", snap.LegalName)
	}
	if snap.DOTNumber != "1234567" {
		t.Errorf("unexpected dot number %q", snap.DOTNumber)
	}
	if snap.Email != "" {
		t.Errorf("expected empty email when the email page is unavailable, got %q", snap.Email)
	}
}

func TestCarrierEndpoint_NotFound(t *testing.T) {
	mux := newCarrierMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/carrier/9999999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCarrierEndpoint_InvalidIdentifier(t *testing.T) {
	mux := newCarrierMux(t)

	for _, path := range []string{"/api/carrier/", "/api/carrier/12%2034"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestSafetyEndpoint_NotFound(t *testing.T) {
	mux := newCarrierMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/safety/1234567", nil))

	// The stub server has no safety page, and a 404 upstream maps to 404 here.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInsuranceEndpoint(t *testing.T) {
	mux := newCarrierMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/MC-100000", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DocketNumber string           `json:"docketNumber"`
		Count        int              `json:"count"`
		Policies     []carrier.Policy `json:"policies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DocketNumber != "MC-100000" || resp.Count != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Policies[0].InsurerName != "Acme Insurance Co" {
		t.Errorf("unexpected policy %+v", resp.Policies[0])
	}
}
