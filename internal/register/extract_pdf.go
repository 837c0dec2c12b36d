package register

import (
	"sort"
	"strings"
)

type pdfSection struct {
	category string
	body     string
}

// ExtractFromPDF extracts register entries from the flattened text of the PDF
// register. The text is split into contiguous sections by the configured
// header list; every record in a section takes the section's category rather
// than re-deriving one per record. Records whose normalized title is empty or
// at least cfg.MaxTitleLen characters long are silently dropped, which the
// HTML path does not do.
//
// When none of the headers appear at all, the whole text is scanned in a
// single unsectioned pass and every match is labeled MISCELLANEOUS.
func ExtractFromPDF(text string, cfg CategoryConfig) []RegisterEntry {
	sections := splitSections(text, cfg.Sections)
	if len(sections) == 0 {
		sections = []pdfSection{{category: CategoryMiscellaneous, body: text}}
	}

	var entries []RegisterEntry
	for _, sec := range sections {
		for _, m := range entryMultilineRe.FindAllStringSubmatch(sec.body, -1) {
			title := normalizeTitle(m[2])
			if len(title) == 0 || len(title) >= cfg.MaxTitleLen {
				continue
			}
			entries = append(entries, RegisterEntry{
				Number:   m[1],
				Title:    title,
				Decided:  m[3],
				Category: sec.category,
			})
		}
	}
	return entries
}

// splitSections locates each configured header's first occurrence and carves
// the text into spans running from one header to the start of the next, with
// the last span running to the end of the text.
func splitSections(text string, headers []SectionHeader) []pdfSection {
	type mark struct {
		pos      int
		length   int
		category string
	}

	var marks []mark
	for _, h := range headers {
		if pos := strings.Index(text, h.Header); pos >= 0 {
			marks = append(marks, mark{pos: pos, length: len(h.Header), category: h.Category})
		}
	}
	if len(marks) == 0 {
		return nil
	}

	sort.Slice(marks, func(i, j int) bool { return marks[i].pos < marks[j].pos })

	sections := make([]pdfSection, 0, len(marks))
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].pos
		}
		sections = append(sections, pdfSection{
			category: m.category,
			body:     text[m.pos+m.length : end],
		})
	}
	return sections
}
