package carrier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// basicNames is the fixed BASIC category order published by the agency.
// Scores are matched to these names by position.
var basicNames = []string{
	"Unsafe Driving",
	"Hours-of-Service Compliance",
	"Driver Fitness",
	"Controlled Substances/Alcohol",
	"Vehicle Maintenance",
	"Hazardous Materials Compliance",
	"Crash Indicator",
}

// oosTypes are the out-of-service rate row labels in source order.
var oosTypes = map[string]bool{
	"Vehicle": true,
	"Driver":  true,
	"Hazmat":  true,
}

var scoreCellRe = regexp.MustCompile(`^\d+(\.\d+)?%?$`)

// ParseSafetyProfile extracts the safety rating, BASIC scores, and
// out-of-service rates from a carrier's safety page.
func ParseSafetyProfile(markup string) (*SafetyProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse safety page: %w", err)
	}

	p := &SafetyProfile{
		Rating:     fieldAfterLabel(doc, "Safety Rating:"),
		RatingDate: fieldAfterLabel(doc, "Rating Date:"),
	}

	// Score cells are zipped against the fixed name list in page order.
	// The page is trusted to list them in the published order.
	var scores []string
	doc.Find("table[summary='BASIC Measures'] td").Each(func(_ int, cell *goquery.Selection) {
		if v := strings.TrimSpace(cell.Text()); scoreCellRe.MatchString(v) {
			scores = append(scores, v)
		}
	})
	for i, score := range scores {
		if i >= len(basicNames) {
			break
		}
		p.Basics = append(p.Basics, BasicScore{Name: basicNames[i], Score: score})
	}

	doc.Find("table[summary='Out of Service'] tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, normalizeSpace(cell.Text()))
		})
		if len(cells) < 3 || !oosTypes[cells[0]] {
			return
		}
		p.OutOfService = append(p.OutOfService, OOSRate{
			Type:            cells[0],
			OOSPercent:      cells[len(cells)-2],
			NationalAverage: cells[len(cells)-1],
		})
	})

	return p, nil
}
