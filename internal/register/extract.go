package register

import (
	"regexp"
	"strings"
)

// entryRe matches a docket number, a non-greedy title run, and a decided date.
// The single-line variant serves the HTML rendition; the multi-line variant
// serves the PDF rendition, where titles wrap across lines.
var (
	entryRe          = regexp.MustCompile(`((?:MC|FF|MX)-\d+)(.+?)(\d{2}/\d{2}/\d{4})`)
	entryMultilineRe = regexp.MustCompile(`(?s)((?:MC|FF|MX)-\d+)(.+?)(\d{2}/\d{2}/\d{4})`)
)

// Extract runs the extraction grammar appropriate for the source kind over
// flattened plain text. Zero matches is a valid empty result, not an error;
// callers decide whether an empty day is worth reporting.
func Extract(kind SourceKind, text string, cfg CategoryConfig) []RegisterEntry {
	if kind == SourcePDF {
		return ExtractFromPDF(text, cfg)
	}
	return ExtractFromHTML(text, cfg)
}

// normalizeTitle collapses internal whitespace runs and trims the ends.
// Dedup equality is exact string equality after this normalization.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
