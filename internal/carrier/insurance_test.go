package carrier

import "testing"

func TestParsePolicies_BareArray(t *testing.T) {
	payload := []byte(`[
		{"insurerName":"Acme Insurance Co","policyNumber":"POL-1","coverageType":"BIPD","effectiveDate":"01/01/2024","status":"Active","maxCoverageAmount":1000000},
		{"insurer_name":"Beta Underwriters","policy_number":"POL-2","cancellationDate":"02/01/2024"}
	]`)

	policies, err := ParsePolicies(payload)
	if err != nil {
		t.Fatalf("ParsePolicies failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(policies))
	}

	p := policies[0]
	if p.InsurerName != "Acme Insurance Co" {
		t.Errorf("unexpected insurer %q", p.InsurerName)
	}
	if p.PolicyNumber != "POL-1" {
		t.Errorf("unexpected policy number %q", p.PolicyNumber)
	}
	if p.CoverageTo != "1000000" {
		t.Errorf("expected numeric coverage rendered as string, got %q", p.CoverageTo)
	}
	if p.Status != "Active" {
		t.Errorf("unexpected status %q", p.Status)
	}

	// Alternate attribute spellings coalesce into the same fields.
	q := policies[1]
	if q.InsurerName != "Beta Underwriters" {
		t.Errorf("snake_case insurer not coalesced: %q", q.InsurerName)
	}
	if q.PolicyNumber != "POL-2" {
		t.Errorf("snake_case policy number not coalesced: %q", q.PolicyNumber)
	}
	if q.CancelEffDate != "02/01/2024" {
		t.Errorf("cancellationDate not coalesced: %q", q.CancelEffDate)
	}
}

func TestParsePolicies_WrappedArray(t *testing.T) {
	payload := []byte(`{"content":"ignored","data":[{"insurerName":"Wrapped Ins Co"}]}`)

	policies, err := ParsePolicies(payload)
	if err != nil {
		t.Fatalf("ParsePolicies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].InsurerName != "Wrapped Ins Co" {
		t.Fatalf("unexpected policies %+v", policies)
	}
}

func TestParsePolicies_UnknownShape(t *testing.T) {
	if _, err := ParsePolicies([]byte(`{"unexpected":"shape"}`)); err == nil {
		t.Fatal("expected error for payload with no collection key")
	}
	if _, err := ParsePolicies([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestParsePolicies_EmptyArray(t *testing.T) {
	policies, err := ParsePolicies([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParsePolicies failed: %v", err)
	}
	if len(policies) != 0 {
		t.Fatalf("expected no policies, got %d", len(policies))
	}
}
