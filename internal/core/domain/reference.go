package domain

// Reference tables are hand-authored results of the offline study. They are
// display data the core serves verbatim and never recomputes.

type ModelMetrics struct {
	Model     string  `json:"model" yaml:"model"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1Score   float64 `json:"f1_score" yaml:"f1_score"`
}

type PersonaProfile struct {
	Cluster       int     `json:"cluster" yaml:"cluster"`
	Label         string  `json:"label" yaml:"label"`
	AvgSpend      float64 `json:"avg_spend_aed" yaml:"avg_spend_aed"`
	TotalSpend    float64 `json:"total_spend_aed" yaml:"total_spend_aed"`
	MembershipWTP float64 `json:"willing_pay_membership" yaml:"willing_pay_membership"`
	Priority      string  `json:"priority" yaml:"priority"`
}

type SpendingDriver struct {
	Driver      string  `json:"driver" yaml:"driver"`
	Coefficient float64 `json:"coefficient_aed" yaml:"coefficient_aed"`
}

type BundleRule struct {
	Name       string   `json:"name" yaml:"name"`
	Items      []string `json:"items" yaml:"items"`
	Lift       float64  `json:"lift" yaml:"lift"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
}

type ReferenceTables struct {
	Models   []ModelMetrics   `json:"models" yaml:"models"`
	Personas []PersonaProfile `json:"personas" yaml:"personas"`
	Drivers  []SpendingDriver `json:"drivers" yaml:"drivers"`
	Bundles  []BundleRule     `json:"bundles" yaml:"bundles"`
}
