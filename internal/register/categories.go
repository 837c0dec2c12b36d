package register

// CategoryMiscellaneous is assigned when no keyword or section header applies.
const CategoryMiscellaneous = "MISCELLANEOUS"

// CategoryKeyword maps a keyword found near a docket match to a category.
type CategoryKeyword struct {
	Keyword  string
	Category string
}

// SectionHeader maps a PDF section header string to the category assigned to
// every record inside that section.
type SectionHeader struct {
	Header   string
	Category string
}

// CategoryConfig is the extraction grammar's configuration: the keyword table
// used by the HTML lookback heuristic and the ordered section header list used
// to split the PDF rendition. It is passed into the extraction functions so an
// agency format change is a configuration edit, not a logic edit.
type CategoryConfig struct {
	// Keywords is scanned in order against the lookback window. The last
	// keyword in this order found anywhere in the window wins, not the
	// occurrence nearest the match. That tie-break is inherited behavior
	// and deliberately preserved.
	Keywords []CategoryKeyword

	// Sections is the ordered header list for the PDF rendition.
	Sections []SectionHeader

	// Lookback is how many characters before a match the HTML path inspects.
	Lookback int

	// MaxTitleLen bounds accepted titles on the PDF path. Titles of length
	// zero or >= MaxTitleLen are dropped there; the HTML path applies no
	// such bound.
	MaxTitleLen int
}

// DefaultCategoryConfig returns the grammar for the current FMCSA register
// layout.
func DefaultCategoryConfig() CategoryConfig {
	return CategoryConfig{
		Keywords: []CategoryKeyword{
			{Keyword: "CERTIFICATE", Category: "CERTIFICATE"},
			{Keyword: "PERMIT", Category: "PERMIT"},
			{Keyword: "LICENSE", Category: "LICENSE"},
			{Keyword: "NAME CHANGE", Category: "NAME CHANGE"},
			{Keyword: "TRANSFER", Category: "TRANSFER"},
			{Keyword: "DISMISSAL", Category: "DISMISSAL"},
			{Keyword: "DENIAL", Category: "DENIAL"},
			{Keyword: "REVOCATION", Category: "REVOCATION"},
			{Keyword: "REINSTATEMENT", Category: "REINSTATEMENT"},
			{Keyword: "WITHDRAWAL", Category: "WITHDRAWAL"},
		},
		Sections: []SectionHeader{
			{Header: "CERTIFICATES, PERMITS & LICENSES", Category: "CERTIFICATE"},
			{Header: "NAME CHANGES", Category: "NAME CHANGE"},
			{Header: "TRANSFERS", Category: "TRANSFER"},
			{Header: "DISMISSALS", Category: "DISMISSAL"},
			{Header: "DENIALS", Category: "DENIAL"},
			{Header: "REVOCATIONS", Category: "REVOCATION"},
			{Header: "REINSTATEMENTS", Category: "REINSTATEMENT"},
			{Header: "WITHDRAWALS", Category: "WITHDRAWAL"},
		},
		Lookback:    500,
		MaxTitleLen: 500,
	}
}
