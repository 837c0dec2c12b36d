package carrier

import (
	"encoding/json"
	"fmt"
)

// ParsePolicies normalizes the L&I insurance JSON payload. The payload is
// either a bare array of filings or an object wrapping one under a
// collection key; individual attribute names vary by filing age, so each
// target field coalesces the known spellings.
func ParsePolicies(payload []byte) ([]Policy, error) {
	records, err := policyRecords(payload)
	if err != nil {
		return nil, err
	}

	policies := make([]Policy, 0, len(records))
	for _, rec := range records {
		policies = append(policies, Policy{
			DocketNumber:  firstString(rec, "docketNumber", "docket_number", "docket"),
			InsurerName:   firstString(rec, "insurerName", "insurer_name", "nameCompany", "underwriter"),
			PolicyNumber:  firstString(rec, "policyNumber", "policy_number", "policyNo"),
			FormCode:      firstString(rec, "formCode", "form_code", "form"),
			CoverageType:  firstString(rec, "coverageType", "coverage_type", "insuranceType"),
			CoverageFrom:  firstString(rec, "coverageFrom", "coverage_from", "minCoverageAmount"),
			CoverageTo:    firstString(rec, "coverageTo", "coverage_to", "maxCoverageAmount"),
			EffectiveDate: firstString(rec, "effectiveDate", "effective_date", "effDate"),
			CancelEffDate: firstString(rec, "cancelEffDate", "cancel_eff_date", "cancellationDate"),
			Status:        firstString(rec, "status", "policyStatus"),
		})
	}
	return policies, nil
}

func policyRecords(payload []byte) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal(payload, &arr); err == nil {
		return arr, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		return nil, fmt.Errorf("decode insurance payload: %w", err)
	}
	for _, key := range []string{"data", "policies", "records", "items"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, fmt.Errorf("decode insurance %s array: %w", key, err)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("insurance payload has no recognized collection key")
}

// firstString returns the first non-empty value among the candidate keys,
// rendering numbers as their JSON literal.
func firstString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			b, _ := json.Marshal(t)
			return string(b)
		case bool:
			if t {
				return "true"
			}
			return "false"
		}
	}
	return ""
}
