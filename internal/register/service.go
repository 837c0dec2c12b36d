package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrierwatch/internal/storage"
)

// registerMarker is the signature text every genuine register page carries.
// Its absence means the agency served something else (an error page, a
// maintenance notice), which is a different failure than a transport error.
const registerMarker = "FMCSA REGISTER"

var (
	// ErrInvalidResponse reports a content-shape failure: the fetch
	// succeeded but the page is not a register.
	ErrInvalidResponse = errors.New("invalid response: FMCSA REGISTER marker not found")

	// ErrNoEntries reports that extraction produced zero entries. The
	// register publishes something every business day, so an empty result
	// is treated as a caller-visible failure rather than a valid answer.
	ErrNoEntries = errors.New("no entries found")
)

// Service coordinates fetching, extraction, and caching of register entries.
type Service struct {
	fetcher RegisterFetcher
	cfg     CategoryConfig
	store   storage.Storage // may be nil for fetch-only mode
}

// NewService returns a fetch-only Service with no storage caching.
func NewService(f RegisterFetcher, cfg CategoryConfig) *Service {
	return &Service{fetcher: f, cfg: cfg}
}

// NewServiceWithStorage returns a Service that caches responses and persists
// extracted entries through the given storage backend.
func NewServiceWithStorage(f RegisterFetcher, cfg CategoryConfig, st storage.Storage) *Service {
	return &Service{fetcher: f, cfg: cfg, store: st}
}

// GetRegister returns the register for a date from the HTML rendition,
// consulting the snapshot cache first.
func (s *Service) GetRegister(ctx context.Context, date time.Time) (*RegisterResponse, error) {
	return s.getCached(ctx, SourceHTML, date, s.fetchHTML)
}

// GetRegisterPDF returns the register for a date from the PDF rendition,
// consulting the snapshot cache first.
func (s *Service) GetRegisterPDF(ctx context.Context, date time.Time) (*RegisterResponse, error) {
	return s.getCached(ctx, SourcePDF, date, s.fetchPDF)
}

// ForceRefresh bypasses the cache, fetches the given rendition, and writes
// the result back.
func (s *Service) ForceRefresh(ctx context.Context, kind SourceKind, date time.Time) (*RegisterResponse, error) {
	loader := s.fetchHTML
	if kind == SourcePDF {
		loader = s.fetchPDF
	}
	resp, err := loader(ctx, date)
	if err != nil {
		return nil, err
	}
	s.writeBack(ctx, kind, date, resp)
	return resp, nil
}

func (s *Service) getCached(
	ctx context.Context,
	kind SourceKind,
	date time.Time,
	loader func(context.Context, time.Time) (*RegisterResponse, error),
) (*RegisterResponse, error) {
	iso := date.Format("2006-01-02")

	if s.store != nil {
		snap, err := s.store.GetRegisterSnapshot(ctx, string(kind), iso)
		if err == nil && snap != nil && len(snap.Payload) > 0 {
			var resp RegisterResponse
			if err := json.Unmarshal(snap.Payload, &resp); err == nil {
				return &resp, nil
			}
			// Undecodable snapshot: fall through and re-fetch.
		}
	}

	resp, err := loader(ctx, date)
	if err != nil {
		return nil, err
	}
	s.writeBack(ctx, kind, date, resp)
	return resp, nil
}

func (s *Service) fetchHTML(ctx context.Context, date time.Time) (*RegisterResponse, error) {
	markup, err := s.fetcher.FetchRegisterHTML(ctx, date)
	if err != nil {
		return nil, err
	}

	text, err := HTMLToText(markup)
	if err != nil {
		return nil, fmt.Errorf("flatten register page: %w", err)
	}

	if !strings.Contains(strings.ToUpper(text), registerMarker) {
		return nil, ErrInvalidResponse
	}

	entries := Dedupe(ExtractFromHTML(text, s.cfg))
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return s.buildResponse(date, entries), nil
}

func (s *Service) fetchPDF(ctx context.Context, date time.Time) (*RegisterResponse, error) {
	data, err := s.fetcher.FetchRegisterPDF(ctx, date)
	if err != nil {
		return nil, err
	}

	text, err := PDFToText(data)
	if err != nil {
		return nil, fmt.Errorf("flatten register pdf: %w", err)
	}

	entries := Dedupe(ExtractFromPDF(text, s.cfg))
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return s.buildResponse(date, entries), nil
}

func (s *Service) buildResponse(date time.Time, entries []RegisterEntry) *RegisterResponse {
	return &RegisterResponse{
		Success:     true,
		Count:       len(entries),
		Date:        date.Format("01/02/2006"),
		LastUpdated: time.Now().UTC(),
		Entries:     entries,
	}
}

// writeBack persists the snapshot and the individual entries. Both writes are
// best effort; a storage hiccup must not fail a request that already has its
// answer.
func (s *Service) writeBack(ctx context.Context, kind SourceKind, date time.Time, resp *RegisterResponse) {
	if s.store == nil || resp == nil {
		return
	}
	iso := date.Format("2006-01-02")

	if payload, err := json.Marshal(resp); err == nil {
		_ = s.store.SaveRegisterSnapshot(ctx, storage.RegisterSnapshot{
			Source:    string(kind),
			Date:      iso,
			Payload:   payload,
			FetchedAt: resp.LastUpdated,
		})
	}

	rows := make([]storage.Entry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		rows = append(rows, storage.Entry{
			Number:    e.Number,
			Title:     e.Title,
			Decided:   e.Decided,
			Category:  e.Category,
			FetchDate: iso,
		})
	}
	_ = s.store.SaveEntries(ctx, rows)
}
