package carrier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// ErrNotFound reports that the agency has no record for the requested
// identifier.
var ErrNotFound = errors.New("carrier record not found")

var profileHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Endpoints holds the upstream URLs the client talks to. Each takes one
// fmt verb for the carrier identifier.
type Endpoints struct {
	SnapshotURL  string
	EmailURL     string
	SafetyURL    string
	InsuranceURL string
}

// DefaultEndpoints returns the production agency URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SnapshotURL:  "https://safer.fmcsa.dot.gov/query.asp?searchtype=ANY&query_type=queryCarrierSnapshot&query_param=USDOT&query_string=%s",
		EmailURL:     "https://ai.fmcsa.dot.gov/SMS/Carrier/%s/CarrierRegistration.aspx",
		SafetyURL:    "https://ai.fmcsa.dot.gov/SMS/Carrier/%s/Overview.aspx",
		InsuranceURL: "https://mobile.fmcsa.dot.gov/qc/services/carriers/%s/authority?webKey=",
	}
}

// Client fetches carrier profile pages and the insurance API. Each endpoint
// has its own fixed timeout and no retry.
type Client struct {
	endpoints Endpoints
	snapshot  *resty.Client
	safety    *resty.Client
	insurance *resty.Client
}

func NewClient(endpoints Endpoints) *Client {
	return &Client{
		endpoints: endpoints,
		snapshot:  resty.New().SetTimeout(15 * time.Second).SetHeaders(profileHeaders),
		safety:    resty.New().SetTimeout(30 * time.Second).SetHeaders(profileHeaders),
		insurance: resty.New().SetTimeout(30 * time.Second).SetHeaders(profileHeaders),
	}
}

// GetSnapshot fetches and parses a carrier's company snapshot. The dependent
// email lookup runs only after the snapshot fetch succeeds; its failure
// degrades to an empty Email field rather than failing the whole request.
func (c *Client) GetSnapshot(ctx context.Context, dotNumber string) (*Snapshot, error) {
	resp, err := c.snapshot.R().SetContext(ctx).Get(fmt.Sprintf(c.endpoints.SnapshotURL, dotNumber))
	if err != nil {
		return nil, fmt.Errorf("fetch carrier snapshot: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("carrier snapshot returned status %d", resp.StatusCode())
	}

	markup := resp.String()
	if strings.Contains(markup, "Record Not Found") || strings.Contains(markup, "Record Inactive") {
		return nil, ErrNotFound
	}

	snap, err := ParseSnapshot(markup)
	if err != nil {
		return nil, err
	}
	snap.DOTNumber = dotNumber

	if email, err := c.fetchEmail(ctx, dotNumber); err != nil {
		log.Printf("carrier %s: email lookup failed: %v", dotNumber, err)
	} else {
		snap.Email = email
	}

	return snap, nil
}

func (c *Client) fetchEmail(ctx context.Context, dotNumber string) (string, error) {
	resp, err := c.snapshot.R().SetContext(ctx).Get(fmt.Sprintf(c.endpoints.EmailURL, dotNumber))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("email page returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return "", err
	}
	return fieldAfterLabel(doc, "Email:"), nil
}

// GetSafetyProfile fetches and parses a carrier's safety page.
func (c *Client) GetSafetyProfile(ctx context.Context, dotNumber string) (*SafetyProfile, error) {
	resp, err := c.safety.R().SetContext(ctx).Get(fmt.Sprintf(c.endpoints.SafetyURL, dotNumber))
	if err != nil {
		return nil, fmt.Errorf("fetch safety page: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 404 {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("safety page returned status %d", resp.StatusCode())
	}

	p, err := ParseSafetyProfile(resp.String())
	if err != nil {
		return nil, err
	}
	p.DOTNumber = dotNumber
	return p, nil
}

// GetPolicies fetches a docket's insurance filings from the L&I API.
func (c *Client) GetPolicies(ctx context.Context, docket string) ([]Policy, error) {
	resp, err := c.insurance.R().SetContext(ctx).Get(fmt.Sprintf(c.endpoints.InsuranceURL, docket))
	if err != nil {
		return nil, fmt.Errorf("fetch insurance filings: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 404 {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insurance api returned status %d", resp.StatusCode())
	}

	return ParsePolicies(resp.Body())
}
