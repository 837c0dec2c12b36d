package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carrierwatch/internal/auth"
	"carrierwatch/internal/register"
	"carrierwatch/internal/storage"
)

// newAuthedMux builds a mux with auth configured and returns raw tokens for
// an editor and a viewer account.
func newAuthedMux(t *testing.T) (*http.ServeMux, string, string) {
	t.Helper()
	ctx := context.Background()

	st := storage.NewMemory()
	authSvc, err := auth.NewService(st)
	if err != nil {
		t.Fatalf("auth.NewService failed: %v", err)
	}

	editor, err := authSvc.Register(ctx, "editor", "pw", "editor")
	if err != nil {
		t.Fatalf("register editor failed: %v", err)
	}
	_, editorTok, err := authSvc.CreateToken(ctx, editor.ID, "test", "editor", nil)
	if err != nil {
		t.Fatalf("create editor token failed: %v", err)
	}

	viewer, err := authSvc.Register(ctx, "viewer", "pw", "viewer")
	if err != nil {
		t.Fatalf("register viewer failed: %v", err)
	}
	_, viewerTok, err := authSvc.CreateToken(ctx, viewer.ID, "test", "viewer", nil)
	if err != nil {
		t.Fatalf("create viewer token failed: %v", err)
	}

	mux := http.NewServeMux()
	svc := register.NewService(&stubFetcher{html: handlerRegisterHTML}, register.DefaultCategoryConfig())
	RegisterRegisterHandlers(mux, svc, authSvc)
	RegisterEntriesHandlers(mux, st, authSvc)
	return mux, editorTok, viewerTok
}

const saveEntriesBody = `{"entries":[{"number":"MC-1","title":"Alpha"}],"fetchDate":"01/02/2024"}`

func TestSaveEntries_AuthRequired(t *testing.T) {
	mux, _, _ := newAuthedMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(saveEntriesBody)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated save, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSaveEntries_ViewerForbidden(t *testing.T) {
	mux, _, viewerTok := newAuthedMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(saveEntriesBody))
	req.Header.Set("Authorization", "Bearer "+viewerTok)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer save, got %d", rec.Code)
	}
}

func TestSaveEntries_EditorAllowed(t *testing.T) {
	mux, editorTok, _ := newAuthedMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(saveEntriesBody))
	req.Header.Set("Authorization", "Bearer "+editorTok)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for editor save, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRefresh_AuthRequired(t *testing.T) {
	mux, editorTok, _ := newAuthedMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register/refresh", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated refresh, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/register/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+editorTok)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for editor refresh, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReadEndpoints_StayOpen(t *testing.T) {
	mux, _, _ := newAuthedMux(t)

	for _, path := range []string{"/api/register?date=01/02/2024", "/api/entries", "/api/sources"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 without credentials, got %d", path, rec.Code)
		}
	}
}
