package domain

// Canonical column names of the survey export. Both CSV and XLSX sources
// must carry exactly this header set.
const (
	ColAgeGroup         = "Age_Group"
	ColGender           = "Gender"
	ColIncome           = "Income"
	ColEmployment       = "Employment"
	ColEducation        = "Education"
	ColCafeFrequency    = "Cafe_Frequency"
	ColReadingFrequency = "Reading_Frequency"
	ColVisitReason      = "Visit_Reason"
	ColAvgSpend         = "Avg_Spend_AED"
	ColTotalSpend       = "Total_Spend_AED"
	ColMembershipWTP    = "Willing_Pay_Membership"
	ColVisitLikelihood  = "Visit_Likelihood"
)

// Visit likelihood labels that count as a positive training example.
const (
	LikelihoodDefinitely = "Definitely will visit"
	LikelihoodProbably   = "Probably will visit"
)

// Income brackets of the survey, lowest to highest.
const (
	IncomeUnder5k  = "Less than 5,000"
	Income5to10k   = "5,000 - 10,000"
	Income10to20k  = "10,001 - 20,000"
	Income20to35k  = "20,001 - 35,000"
	Income35to50k  = "35,001 - 50,000"
	Income50to75k  = "50,001 - 75,000"
	IncomeAbove75k = "Above 75,000"
)

// Visit reason tags used by the spend estimator.
const (
	ReasonCoffeeQuality = "Coffee quality"
	ReasonFoodQuality   = "Food quality"
	ReasonWorkStudy     = "Work/study"
	ReasonReadingSpace  = "Reading space"
	ReasonSocializing   = "Socializing"
)

// SurveyRecord is one respondent row. Numeric fields are non-negative;
// VisitLikelihood is required for training rows.
type SurveyRecord struct {
	AgeGroup         string  `json:"age_group"`
	Gender           string  `json:"gender"`
	Income           string  `json:"income"`
	Employment       string  `json:"employment"`
	Education        string  `json:"education"`
	CafeFrequency    string  `json:"cafe_frequency"`
	ReadingFrequency string  `json:"reading_frequency"`
	VisitReason      string  `json:"visit_reason"`
	AvgSpend         float64 `json:"avg_spend_aed"`
	TotalSpend       float64 `json:"total_spend_aed"`
	MembershipWTP    float64 `json:"willing_pay_membership"`
	VisitLikelihood  string  `json:"visit_likelihood,omitempty"`
}

// PositiveLabel reports whether the record counts as a "will visit" example.
func (r SurveyRecord) PositiveLabel() bool {
	return r.VisitLikelihood == LikelihoodDefinitely || r.VisitLikelihood == LikelihoodProbably
}

// SurveyDataset is an ordered, immutable-after-load collection of records.
type SurveyDataset struct {
	Records []SurveyRecord
	// Source names the resolver that produced the dataset, e.g. "primary_file",
	// "remote", "synthetic".
	Source string
}

func (d *SurveyDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// SyntheticDataset is the last-resort dataset when every real source fails:
// ten identical placeholder respondents, enough for every downstream
// component to keep producing answers.
func SyntheticDataset() *SurveyDataset {
	record := SurveyRecord{
		AgeGroup:         "25-34",
		Gender:           "Male",
		Income:           Income50to75k,
		Employment:       "Full-time employed",
		Education:        "Bachelor's degree",
		CafeFrequency:    "Once a week",
		ReadingFrequency: "Regular reader (3-5 times per week)",
		VisitReason:      "Coffee/beverages quality",
		AvgSpend:         60,
		TotalSpend:       120,
		MembershipWTP:    100,
		VisitLikelihood:  LikelihoodDefinitely,
	}

	records := make([]SurveyRecord, 10)
	for i := range records {
		records[i] = record
	}
	return &SurveyDataset{Records: records, Source: "synthetic"}
}
