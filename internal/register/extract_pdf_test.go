package register

import (
	"strings"
	"testing"
)

const samplePDFText = `FMCSA REGISTER
CERTIFICATES, PERMITS & LICENSES
MC-100000 Smith Trucking Co
Decided 01/02/2024
MC-100001 Jones Transport Inc
Decided 01/02/2024
REVOCATIONS
MC-200000 Lapsed Carriers LLC
Decided 01/05/2024
NAME CHANGES
FF-300000 Renamed Forwarding Corp
Decided 01/06/2024
`

func TestExtractFromPDF_Sections(t *testing.T) {
	entries := ExtractFromPDF(samplePDFText, DefaultCategoryConfig())
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	want := []struct {
		number   string
		category string
	}{
		{"MC-100000", "CERTIFICATE"},
		{"MC-100001", "CERTIFICATE"},
		{"MC-200000", "REVOCATION"},
		{"FF-300000", "NAME CHANGE"},
	}
	for i, w := range want {
		if entries[i].Number != w.number {
			t.Errorf("entry %d: expected number %s, got %s", i, w.number, entries[i].Number)
		}
		if entries[i].Category != w.category {
			t.Errorf("entry %d: expected category %s, got %s", i, w.category, entries[i].Category)
		}
	}
}

func TestExtractFromPDF_MultilineTitle(t *testing.T) {
	text := "REVOCATIONS\nMC-400000 Two Line\nTrucking Co\nDecided 02/01/2024\n"
	entries := ExtractFromPDF(text, DefaultCategoryConfig())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Two Line Trucking Co Decided" {
		t.Errorf("unexpected title %q", entries[0].Title)
	}
	if entries[0].Decided != "02/01/2024" {
		t.Errorf("unexpected decided %q", entries[0].Decided)
	}
}

func TestExtractFromPDF_LongTitleDropped(t *testing.T) {
	// The PDF path drops titles of 500 characters or more; the HTML path
	// would retain the same record.
	longTitle := strings.Repeat("A", 600)
	text := "REVOCATIONS\nMC-500000 " + longTitle + " 03/01/2024\nMC-500001 Kept Carrier 03/01/2024\n"

	entries := ExtractFromPDF(text, DefaultCategoryConfig())
	if len(entries) != 1 {
		t.Fatalf("expected only the short-titled entry, got %d", len(entries))
	}
	if entries[0].Number != "MC-500001" {
		t.Errorf("expected MC-500001, got %s", entries[0].Number)
	}

	htmlEntries := ExtractFromHTML(text, DefaultCategoryConfig())
	if len(htmlEntries) != 2 {
		t.Errorf("expected HTML path to retain both entries, got %d", len(htmlEntries))
	}
}

func TestExtractFromPDF_NoHeadersFallback(t *testing.T) {
	text := "MC-600000 Unsectioned Carrier 04/01/2024\nFF-600001 Another Carrier 04/02/2024\n"
	entries := ExtractFromPDF(text, DefaultCategoryConfig())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Category != CategoryMiscellaneous {
			t.Errorf("expected MISCELLANEOUS in fallback pass, got %q", e.Category)
		}
	}
}

func TestExtractFromPDF_EmptySectionYieldsNothing(t *testing.T) {
	text := "REVOCATIONS\nno dockets in this section\nWITHDRAWALS\nMC-700000 Final Carrier 05/01/2024\n"
	entries := ExtractFromPDF(text, DefaultCategoryConfig())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Category != "WITHDRAWAL" {
		t.Errorf("expected WITHDRAWAL, got %q", entries[0].Category)
	}
}
