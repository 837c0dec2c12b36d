package carrier

import "testing"

const sampleSafetyHTML = `
<html><body>
<table>
<tr><th>Safety Rating:</th><td>Satisfactory</td></tr>
<tr><th>Rating Date:</th><td>03/12/2023</td></tr>
</table>
<table summary="BASIC Measures">
<tr><th>BASIC</th><th>Measure</th></tr>
<tr><td>Unsafe Driving</td><td>12.4%</td></tr>
<tr><td>Hours-of-Service Compliance</td><td>33%</td></tr>
<tr><td>Driver Fitness</td><td>0</td></tr>
<tr><td>Controlled Substances/Alcohol</td><td>1.2</td></tr>
</table>
<table summary="Out of Service">
<tr><th>Type</th><th>Inspections</th><th>OOS %</th><th>National Average</th></tr>
<tr><td>Vehicle</td><td>40</td><td>15.0%</td><td>22.26%</td></tr>
<tr><td>Driver</td><td>61</td><td>1.6%</td><td>6.67%</td></tr>
<tr><td>Hazmat</td><td>0</td><td>0%</td><td>4.44%</td></tr>
</table>
</body></html>
`

func TestParseSafetyProfile(t *testing.T) {
	p, err := ParseSafetyProfile(sampleSafetyHTML)
	if err != nil {
		t.Fatalf("ParseSafetyProfile failed: %v", err)
	}

	if p.Rating != "Satisfactory" {
		t.Errorf("unexpected rating %q", p.Rating)
	}
	if p.RatingDate != "03/12/2023" {
		t.Errorf("unexpected rating date %q", p.RatingDate)
	}

	if len(p.Basics) != 4 {
		t.Fatalf("expected 4 basic scores, got %d", len(p.Basics))
	}
	// Score cells are zipped against the fixed name order.
	if p.Basics[0].Name != "Unsafe Driving" || p.Basics[0].Score != "12.4%" {
		t.Errorf("unexpected first basic %+v", p.Basics[0])
	}
	if p.Basics[1].Name != "Hours-of-Service Compliance" || p.Basics[1].Score != "33%" {
		t.Errorf("unexpected second basic %+v", p.Basics[1])
	}
	if p.Basics[2].Score != "0" {
		t.Errorf("unexpected third basic %+v", p.Basics[2])
	}

	if len(p.OutOfService) != 3 {
		t.Fatalf("expected 3 OOS rows, got %d", len(p.OutOfService))
	}
	v := p.OutOfService[0]
	if v.Type != "Vehicle" || v.OOSPercent != "15.0%" || v.NationalAverage != "22.26%" {
		t.Errorf("unexpected vehicle row %+v", v)
	}
	h := p.OutOfService[2]
	if h.Type != "Hazmat" || h.OOSPercent != "0%" {
		t.Errorf("unexpected hazmat row %+v", h)
	}
}

func TestParseSafetyProfile_Empty(t *testing.T) {
	p, err := ParseSafetyProfile("<html><body><p>no tables</p></body></html>")
	if err != nil {
		t.Fatalf("ParseSafetyProfile failed: %v", err)
	}
	if p.Rating != "" || len(p.Basics) != 0 || len(p.OutOfService) != 0 {
		t.Errorf("expected empty profile, got %+v", p)
	}
}
