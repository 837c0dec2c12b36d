package register

import (
	"context"
	"errors"
	"testing"
	"time"

	"carrierwatch/internal/storage"
)

const validRegisterHTML = `<body><p>FMCSA REGISTER</p><p>CERTIFICATE</p>
<p>MC-100000 Smith Trucking Co 01/02/2024</p>
<p>MC-100001 Jones Transport Inc 01/02/2024</p></body>`

type stubFetcher struct {
	html      string
	htmlErr   error
	pdf       []byte
	pdfErr    error
	htmlCalls int
	pdfCalls  int
}

func (s *stubFetcher) FetchRegisterHTML(ctx context.Context, date time.Time) (string, error) {
	s.htmlCalls++
	return s.html, s.htmlErr
}

func (s *stubFetcher) FetchRegisterPDF(ctx context.Context, date time.Time) ([]byte, error) {
	s.pdfCalls++
	return s.pdf, s.pdfErr
}

func TestGetRegister(t *testing.T) {
	f := &stubFetcher{html: validRegisterHTML}
	svc := NewService(f, DefaultCategoryConfig())

	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	resp, err := svc.GetRegister(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Count != 2 {
		t.Errorf("expected count 2, got %d", resp.Count)
	}
	if resp.Date != "01/02/2024" {
		t.Errorf("expected date 01/02/2024, got %q", resp.Date)
	}
	if resp.LastUpdated.IsZero() {
		t.Error("expected lastUpdated to be set")
	}
	if resp.Entries[0].Number != "MC-100000" {
		t.Errorf("unexpected first entry: %+v", resp.Entries[0])
	}
}

func TestGetRegister_MissingMarker(t *testing.T) {
	f := &stubFetcher{html: "<body><p>Scheduled maintenance, check back later</p></body>"}
	svc := NewService(f, DefaultCategoryConfig())

	_, err := svc.GetRegister(context.Background(), time.Now())
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestGetRegister_NoEntries(t *testing.T) {
	f := &stubFetcher{html: "<body><p>FMCSA REGISTER</p><p>nothing published</p></body>"}
	svc := NewService(f, DefaultCategoryConfig())

	_, err := svc.GetRegister(context.Background(), time.Now())
	if !errors.Is(err, ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
}

func TestGetRegister_TransportError(t *testing.T) {
	wantErr := errors.New("connection refused")
	f := &stubFetcher{htmlErr: wantErr}
	svc := NewService(f, DefaultCategoryConfig())

	_, err := svc.GetRegister(context.Background(), time.Now())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
	if errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrNoEntries) {
		t.Error("transport error must not match the content sentinels")
	}
}

func TestGetRegister_CacheHit(t *testing.T) {
	f := &stubFetcher{html: validRegisterHTML}
	st := storage.NewMemory()
	svc := NewServiceWithStorage(f, DefaultCategoryConfig(), st)

	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if _, err := svc.GetRegister(ctx, date); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if f.htmlCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", f.htmlCalls)
	}

	resp, err := svc.GetRegister(ctx, date)
	if err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if f.htmlCalls != 1 {
		t.Errorf("expected cache hit, upstream called %d times", f.htmlCalls)
	}
	if resp.Count != 2 {
		t.Errorf("cached response lost entries: count=%d", resp.Count)
	}

	// A different date misses the cache.
	if _, err := svc.GetRegister(ctx, date.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("second date fetch failed: %v", err)
	}
	if f.htmlCalls != 2 {
		t.Errorf("expected second upstream call for new date, got %d", f.htmlCalls)
	}
}

func TestForceRefresh_BypassesCache(t *testing.T) {
	f := &stubFetcher{html: validRegisterHTML}
	st := storage.NewMemory()
	svc := NewServiceWithStorage(f, DefaultCategoryConfig(), st)

	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if _, err := svc.GetRegister(ctx, date); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := svc.ForceRefresh(ctx, SourceHTML, date); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if f.htmlCalls != 2 {
		t.Errorf("expected refresh to hit upstream, got %d calls", f.htmlCalls)
	}
}

func TestGetRegister_PersistsEntries(t *testing.T) {
	f := &stubFetcher{html: validRegisterHTML}
	st := storage.NewMemory()
	svc := NewServiceWithStorage(f, DefaultCategoryConfig(), st)

	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	if _, err := svc.GetRegister(context.Background(), date); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	rows, err := st.ListEntries(context.Background(), "2024-01-02", "2024-01-02")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(rows))
	}
	if rows[0].FetchDate != "2024-01-02" {
		t.Errorf("expected ISO fetch date, got %q", rows[0].FetchDate)
	}
}

func TestGetRegisterPDF_TransportError(t *testing.T) {
	wantErr := errors.New("404 not found")
	f := &stubFetcher{pdfErr: wantErr}
	svc := NewService(f, DefaultCategoryConfig())

	_, err := svc.GetRegisterPDF(context.Background(), time.Now())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}
}
