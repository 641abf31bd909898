package domain

// Centroid is a fixed cluster center in raw (avg spend, total spend,
// membership WTP) space.
type Centroid struct {
	Index         int     `json:"index"`
	Label         string  `json:"label"`
	AvgSpend      float64 `json:"avg_spend_aed"`
	TotalSpend    float64 `json:"total_spend_aed"`
	MembershipWTP float64 `json:"willing_pay_membership"`
}

// Centroids are the four persona centers from the offline segmentation run.
// Immutable for the lifetime of the process; matching is done in raw units,
// never standardized.
var Centroids = [4]Centroid{
	{Index: 0, Label: "Cluster 0 (Budget-Conscious)", AvgSpend: 24.12, TotalSpend: 54.36, MembershipWTP: 46.10},
	{Index: 1, Label: "Cluster 1 (Casual Regular)", AvgSpend: 41.85, TotalSpend: 97.42, MembershipWTP: 118.55},
	{Index: 2, Label: "Cluster 2 (Comfort Seeker)", AvgSpend: 58.07, TotalSpend: 131.60, MembershipWTP: 214.89},
	{Index: 3, Label: "Cluster 3 (Premium Enthusiast)", AvgSpend: 69.30, TotalSpend: 168.79, MembershipWTP: 367.73},
}

// PersonaMatch is the result of a nearest-centroid lookup.
type PersonaMatch struct {
	Label    string   `json:"label"`
	Centroid Centroid `json:"centroid"`
	Distance float64  `json:"distance"`
}
