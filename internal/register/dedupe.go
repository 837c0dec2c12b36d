package register

type entryKey struct {
	number string
	title  string
}

// Dedupe removes entries whose (Number, Title) pair duplicates an earlier one,
// preserving first-seen order. Equality is exact string equality after the
// extractor's whitespace normalization; there is no fuzzy matching. Running
// Dedupe on already-deduplicated input returns the same sequence.
func Dedupe(entries []RegisterEntry) []RegisterEntry {
	seen := make(map[entryKey]struct{}, len(entries))
	out := make([]RegisterEntry, 0, len(entries))
	for _, e := range entries {
		k := entryKey{number: e.Number, title: e.Title}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
