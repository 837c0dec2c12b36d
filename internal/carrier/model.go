package carrier

// Snapshot is a flat record of label/value pairs scraped from the SAFER
// company snapshot page. Every field is an optional string; a label missing
// from the page leaves its field empty rather than raising an error.
type Snapshot struct {
	DOTNumber        string   `json:"dotNumber"`
	LegalName        string   `json:"legalName"`
	DBAName          string   `json:"dbaName"`
	DocketNumbers    string   `json:"docketNumbers"`
	EntityType       string   `json:"entityType"`
	OperatingStatus  string   `json:"operatingStatus"`
	OutOfServiceDate string   `json:"outOfServiceDate"`
	PhysicalAddress  string   `json:"physicalAddress"`
	MailingAddress   string   `json:"mailingAddress"`
	Phone            string   `json:"phone"`
	StateCarrierID   string   `json:"stateCarrierId"`
	DUNSNumber       string   `json:"dunsNumber"`
	PowerUnits       string   `json:"powerUnits"`
	Drivers          string   `json:"drivers"`
	MCS150FormDate   string   `json:"mcs150FormDate"`
	MCS150Mileage    string   `json:"mcs150Mileage"`
	Email            string   `json:"email"`
	OperationTypes   []string `json:"operationTypes"`
	CarrierOperation []string `json:"carrierOperation"`
	CargoCarried     []string `json:"cargoCarried"`
}

// BasicScore is one named BASIC category with its extracted score cell.
type BasicScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// OOSRate is one out-of-service rate row.
type OOSRate struct {
	Type            string `json:"type"`
	OOSPercent      string `json:"oosPercent"`
	NationalAverage string `json:"nationalAverage"`
}

// SafetyProfile is a carrier's safety rating plus its BASIC scores and
// out-of-service rates. Correspondence between the fixed BASIC name list and
// the extracted score cells is positional and assumed, not verified.
type SafetyProfile struct {
	DOTNumber    string       `json:"dotNumber"`
	Rating       string       `json:"rating"`
	RatingDate   string       `json:"ratingDate"`
	Basics       []BasicScore `json:"basics"`
	OutOfService []OOSRate    `json:"outOfService"`
}

// Policy is one insurance filing normalized from the L&I JSON payload.
// The upstream API spells several attributes multiple ways depending on the
// filing's age; each target field coalesces the known spellings.
type Policy struct {
	DocketNumber   string `json:"docketNumber"`
	InsurerName    string `json:"insurerName"`
	PolicyNumber   string `json:"policyNumber"`
	FormCode       string `json:"formCode"`
	CoverageType   string `json:"coverageType"`
	CoverageFrom   string `json:"coverageFrom"`
	CoverageTo     string `json:"coverageTo"`
	EffectiveDate  string `json:"effectiveDate"`
	CancelEffDate  string `json:"cancelEffDate"`
	Status         string `json:"status"`
}
