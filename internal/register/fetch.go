package register

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// browserHeaders impersonate a desktop browser; the register endpoints reject
// requests without them.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
}

// RegisterFetcher is the outbound dependency the service talks to. The HTTP
// implementation lives in Fetcher; tests substitute their own.
type RegisterFetcher interface {
	FetchRegisterHTML(ctx context.Context, date time.Time) (string, error)
	FetchRegisterPDF(ctx context.Context, date time.Time) ([]byte, error)
}

// Fetcher issues the outbound register requests. Timeouts are fixed per
// endpoint with no retry; a timeout surfaces as a plain transport error.
type Fetcher struct {
	html *resty.Client
	pdf  *resty.Client

	htmlURL string
	pdfURL  string
}

// NewFetcher builds a Fetcher against the configured register sources.
func NewFetcher() *Fetcher {
	f := &Fetcher{
		html: resty.New().SetTimeout(60 * time.Second).SetHeaders(browserHeaders),
		pdf:  resty.New().SetTimeout(30 * time.Second).SetHeaders(browserHeaders),
	}
	if s, ok := GetSource(SourceHTML); ok {
		f.htmlURL = s.URL
	}
	if s, ok := GetSource(SourcePDF); ok {
		f.pdfURL = s.URL
	}
	return f
}

// FetchRegisterHTML submits the register search form for the given date and
// returns the raw page markup.
func (f *Fetcher) FetchRegisterHTML(ctx context.Context, date time.Time) (string, error) {
	if f.htmlURL == "" {
		return "", fmt.Errorf("no HTML register source configured")
	}

	resp, err := f.html.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"pd_date":  FormatDateForRegister(date),
			"pv_vpath": "LIVIEW",
		}).
		Post(f.htmlURL)
	if err != nil {
		return "", fmt.Errorf("fetch register page: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("register page returned status %d", resp.StatusCode())
	}
	return resp.String(), nil
}

// FetchRegisterPDF downloads the register PDF published at the
// date-templated URL and returns its raw bytes.
func (f *Fetcher) FetchRegisterPDF(ctx context.Context, date time.Time) ([]byte, error) {
	if f.pdfURL == "" {
		return nil, fmt.Errorf("no PDF register source configured")
	}

	url := fmt.Sprintf(f.pdfURL, FormatDateForPDFURL(date.Format("2006-01-02")))
	resp, err := f.pdf.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download register pdf: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("register pdf returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
