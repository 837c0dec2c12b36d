package register

import "time"

// RegisterEntry is one decision line extracted from the FMCSA register.
// Entries are immutable once extracted; identity is the (Number, Title) pair.
type RegisterEntry struct {
	Number   string `json:"number"`
	Title    string `json:"title"`
	Decided  string `json:"decided"`
	Category string `json:"category"`
}

// RegisterResponse matches the JSON schema consumed by the dashboard.
type RegisterResponse struct {
	Success     bool            `json:"success"`
	Count       int             `json:"count"`
	Date        string          `json:"date"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Entries     []RegisterEntry `json:"entries"`
}

// SourceKind identifies which register rendition the text came from. The two
// renditions carry the same records but diverge on edge-case policy (title
// length filtering, category tie-break), so extraction keeps them explicit.
type SourceKind string

const (
	SourceHTML SourceKind = "html"
	SourcePDF  SourceKind = "pdf"
)
