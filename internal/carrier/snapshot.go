package carrier

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseSnapshot extracts the company snapshot from the SAFER profile page.
// Every field is a label-driven lookup: find the cell carrying the label,
// read the adjacent cell. Missing labels leave empty fields.
func ParseSnapshot(markup string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot page: %w", err)
	}

	s := &Snapshot{
		LegalName:        fieldAfterLabel(doc, "Legal Name:"),
		DBAName:          fieldAfterLabel(doc, "DBA Name:"),
		DOTNumber:        fieldAfterLabel(doc, "USDOT Number:"),
		DocketNumbers:    fieldAfterLabel(doc, "MC/MX/FF Number(s):"),
		EntityType:       fieldAfterLabel(doc, "Entity Type:"),
		OperatingStatus:  fieldAfterLabel(doc, "Operating Status:"),
		OutOfServiceDate: fieldAfterLabel(doc, "Out of Service Date:"),
		PhysicalAddress:  addressAfterLabel(doc, "Physical Address:"),
		MailingAddress:   addressAfterLabel(doc, "Mailing Address:"),
		Phone:            fieldAfterLabel(doc, "Phone:"),
		StateCarrierID:   fieldAfterLabel(doc, "State Carrier ID Number:"),
		DUNSNumber:       fieldAfterLabel(doc, "DUNS Number:"),
		PowerUnits:       fieldAfterLabel(doc, "Power Units:"),
		Drivers:          fieldAfterLabel(doc, "Drivers:"),
		MCS150FormDate:   fieldAfterLabel(doc, "MCS-150 Form Date:"),
		MCS150Mileage:    fieldAfterLabel(doc, "MCS-150 Mileage (Year):"),
		OperationTypes:   checkedValues(doc, "Operation Classification"),
		CarrierOperation: checkedValues(doc, "Carrier Operation"),
		CargoCarried:     checkedValues(doc, "Cargo Carried"),
	}
	return s, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fieldAfterLabel returns the text of the cell adjacent to the first cell
// whose text contains the label.
func fieldAfterLabel(doc *goquery.Document, label string) string {
	var out string
	doc.Find("th, td").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(normalizeSpace(sel.Text()), label) {
			return true
		}
		next := sel.Next()
		if next.Length() == 0 {
			return true
		}
		out = normalizeSpace(next.Text())
		return false
	})
	return out
}

// addressAfterLabel reads the cell after an address label and joins its
// line-break-separated fragments with ", " — addresses span street and
// city/state lines split by <br> in the source.
func addressAfterLabel(doc *goquery.Document, label string) string {
	var out string
	doc.Find("th, td").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(normalizeSpace(sel.Text()), label) {
			return true
		}
		next := sel.Next()
		if next.Length() == 0 {
			return true
		}

		var parts []string
		next.Contents().Each(func(_ int, c *goquery.Selection) {
			for _, n := range c.Nodes {
				if n.Type == html.TextNode {
					if frag := normalizeSpace(n.Data); frag != "" {
						parts = append(parts, frag)
					}
				}
			}
		})
		out = strings.Join(parts, ", ")
		return false
	})
	return out
}

// checkedValues scans the named checkbox table for cells holding the literal
// mark "X" and collects each following cell's text.
func checkedValues(doc *goquery.Document, tableSummary string) []string {
	var out []string
	sel := fmt.Sprintf("table[summary='%s'] td", tableSummary)
	doc.Find(sel).Each(func(_ int, cell *goquery.Selection) {
		if strings.TrimSpace(cell.Text()) != "X" {
			return
		}
		if v := normalizeSpace(cell.Next().Text()); v != "" {
			out = append(out, v)
		}
	})
	return out
}
