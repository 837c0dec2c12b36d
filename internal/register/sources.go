package register

import (
	"encoding/json"
	"os"
)

// SourceDescriptor describes one upstream rendition of the register.
type SourceDescriptor struct {
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Kind  SourceKind `json:"kind"`
	URL   string     `json:"url"`
	Notes string     `json:"notes,omitempty"`
}

const sourcesEnv = "CARRIERWATCH_SOURCES_JSON"

func defaultSources() []SourceDescriptor {
	return []SourceDescriptor{
		{
			Key:   "html-register",
			Name:  "FMCSA Register (HTML)",
			Kind:  SourceHTML,
			URL:   "https://li-public.fmcsa.dot.gov/LIVIEW/pkg_REGISTER.prc_reg_detail",
			Notes: "Form POST with the register date in DD-MMM-YY form",
		},
		{
			Key:   "pdf-register",
			Name:  "FMCSA Register (PDF)",
			Kind:  SourcePDF,
			URL:   "https://li-public.fmcsa.dot.gov/lihtml/rptspdf/LI_REGISTER%s.PDF",
			Notes: "GET; %s is the register date as YYYYMMDD",
		},
	}
}

// Sources returns the configured register sources, overridable through the
// CARRIERWATCH_SOURCES_JSON environment variable.
func Sources() []SourceDescriptor {
	raw := os.Getenv(sourcesEnv)
	if raw == "" {
		return defaultSources()
	}
	var out []SourceDescriptor
	if err := json.Unmarshal([]byte(raw), &out); err != nil || len(out) == 0 {
		return defaultSources()
	}
	return out
}

// GetSource looks up a source by kind.
func GetSource(kind SourceKind) (SourceDescriptor, bool) {
	for _, s := range Sources() {
		if s.Kind == kind {
			return s, true
		}
	}
	return SourceDescriptor{}, false
}
