package register

import "strings"

// ExtractFromHTML extracts register entries from the flattened text of the
// rendered HTML register page.
//
// The category heuristic inspects the cfg.Lookback characters immediately
// preceding each match, upper-cased, and tests the keyword table in order.
// Every keyword present in the window overwrites the previous assignment, so
// the last keyword in table order wins regardless of which occurrence sits
// closest to the match. Titles of any length are accepted here; only the PDF
// path filters on title length.
func ExtractFromHTML(text string, cfg CategoryConfig) []RegisterEntry {
	var entries []RegisterEntry

	for _, idx := range entryRe.FindAllStringSubmatchIndex(text, -1) {
		number := text[idx[2]:idx[3]]
		title := normalizeTitle(text[idx[4]:idx[5]])
		decided := text[idx[6]:idx[7]]

		start := idx[0] - cfg.Lookback
		if start < 0 {
			start = 0
		}
		window := strings.ToUpper(text[start:idx[0]])

		category := CategoryMiscellaneous
		for _, kw := range cfg.Keywords {
			if strings.Contains(window, kw.Keyword) {
				category = kw.Category
			}
		}

		entries = append(entries, RegisterEntry{
			Number:   number,
			Title:    title,
			Decided:  decided,
			Category: category,
		})
	}

	return entries
}
