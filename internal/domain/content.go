package domain

// Static reference content, loaded from the content directory and never
// mutated at runtime.

type Rule struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type RuleView struct {
	Rule
	Checked bool `json:"checked"`
}

type SOP struct {
	ID             string   `json:"id" yaml:"id"`
	Platform       string   `json:"platform" yaml:"platform"`
	Icon           string   `json:"icon,omitempty" yaml:"icon"`
	LoginURL       string   `json:"loginUrl,omitempty" yaml:"loginUrl"`
	HostApp        string   `json:"hostApp,omitempty" yaml:"hostApp"`
	CredentialNote string   `json:"credentialNote,omitempty" yaml:"credentialNote"`
	Tips           []string `json:"tips,omitempty" yaml:"tips"`
	CheckOrder     []string `json:"checkOrder,omitempty" yaml:"checkOrder"`
}

type PolicyRule struct {
	Range  string `json:"range" yaml:"range"`
	Charge int    `json:"charge" yaml:"charge"`
	Refund int    `json:"refund" yaml:"refund"`
}

type CancellationPolicy struct {
	Note   string       `json:"note,omitempty" yaml:"note"`
	Policy []PolicyRule `json:"policy" yaml:"policy"`
}

type RefundRequest struct {
	Platform   string `json:"platform" validate:"required"`
	DaysBefore *int   `json:"days_before" validate:"required"`
}

type RefundResult struct {
	Platform      string `json:"platform"`
	DaysBefore    int    `json:"days_before"`
	RefundPercent int    `json:"refund_percent"`
	ChargePercent int    `json:"charge_percent"`
	MatchedRange  string `json:"matched_range,omitempty"`
}
