package entity

import (
	"encoding/json"
	"math"
)

// RiskCategory buckets a credit risk score.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low"
	RiskMedium RiskCategory = "Medium"
	RiskHigh   RiskCategory = "High"
)

// Decision is the final outcome of a pipeline run.
type Decision string

const (
	DecisionApproved    Decision = "Approved"
	DecisionConditional Decision = "Conditional"
	DecisionRejected    Decision = "Rejected"
)

// Stability grades employment stability.
type Stability string

const (
	StabilityExcellent Stability = "Excellent"
	StabilityGood      Stability = "Good"
	StabilityFair      Stability = "Fair"
	StabilityPoor      Stability = "Poor"
)

// MarginTier grades the collateral safety margin, evaluated on LTV.
type MarginTier string

const (
	MarginExcellent    MarginTier = "Excellent"
	MarginGood         MarginTier = "Good"
	MarginAcceptable   MarginTier = "Acceptable"
	MarginMarginal     MarginTier = "Marginal"
	MarginInsufficient MarginTier = "Insufficient"
	MarginInadequate   MarginTier = "Inadequate"
)

// CreditVerdict is the write-once output of the credit scoring stage.
type CreditVerdict struct {
	RiskCategory      RiskCategory `json:"risk_category"`
	RiskScore         float64      `json:"risk_score"`
	DebtToIncomeRatio float64      `json:"debt_to_income_ratio"`
	LoanToIncomeRatio float64      `json:"loan_to_income_ratio"`
	CreditScore       float64      `json:"credit_score"`
	Approved          bool         `json:"approved"`
	Reasoning         string       `json:"reasoning"`
}

// EmploymentVerdict is the write-once output of the employment
// verification stage. Verification outcomes are explicit booleans; the
// reasoning text is generated afterwards purely for display and is
// never re-parsed.
type EmploymentVerdict struct {
	EmploymentVerified  bool      `json:"employment_verified"`
	CompanyVerified     bool      `json:"company_verified"`
	Stability           Stability `json:"employment_stability"`
	ProfileFound        bool      `json:"profile_found"`
	ProfileCompleteness string    `json:"profile_completeness,omitempty"`
	HistoryConsistent   bool      `json:"history_consistent"`
	Credentials         string    `json:"credentials,omitempty"`
	RiskFlag            bool      `json:"risk_flag"`
	Reasoning           string    `json:"reasoning"`
}

// CollateralVerdict is the write-once output of the collateral stage.
// LTVRatio is +Inf when no collateral is pledged; that is a policy
// value, not an error.
type CollateralVerdict struct {
	Adequate   bool       `json:"collateral_adequate"`
	LTVRatio   float64    `json:"ltv_ratio"`
	Coverage   float64    `json:"collateral_coverage"`
	MarginTier MarginTier `json:"margin_tier"`
	Approved   bool       `json:"approved"`
	Reasoning  string     `json:"reasoning"`
}

// MarshalJSON encodes unbounded ratios as null: encoding/json rejects
// infinities, and null round-trips back to the +Inf policy value.
func (v CollateralVerdict) MarshalJSON() ([]byte, error) {
	type alias CollateralVerdict
	out := struct {
		alias
		LTVRatio *float64 `json:"ltv_ratio"`
		Coverage *float64 `json:"collateral_coverage"`
	}{alias: alias(v)}
	if !math.IsInf(v.LTVRatio, 0) {
		out.LTVRatio = &v.LTVRatio
	}
	if !math.IsInf(v.Coverage, 0) {
		out.Coverage = &v.Coverage
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores null ratios to +Inf.
func (v *CollateralVerdict) UnmarshalJSON(data []byte) error {
	type alias CollateralVerdict
	in := struct {
		*alias
		LTVRatio *float64 `json:"ltv_ratio"`
		Coverage *float64 `json:"collateral_coverage"`
	}{alias: (*alias)(v)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	v.LTVRatio = math.Inf(1)
	if in.LTVRatio != nil {
		v.LTVRatio = *in.LTVRatio
	}
	v.Coverage = math.Inf(1)
	if in.Coverage != nil {
		v.Coverage = *in.Coverage
	}
	return nil
}

// ReviewResult is the cross-stage consistency review output.
type ReviewResult struct {
	ConsistencySummary string   `json:"consistency_summary"`
	Issues             []string `json:"issues"`
	Recommendations    []string `json:"recommendations"`
	Assessment         string   `json:"assessment"`
	Confidence         float64  `json:"confidence"`
}

// DecisionResult is the synthesized final decision.
type DecisionResult struct {
	Decision   Decision `json:"decision"`
	RiskScore  float64  `json:"risk_score"`
	Reasoning  string   `json:"reasoning"`
	Conditions []string `json:"conditions,omitempty"`
	Confidence float64  `json:"confidence"`
}

// FavorableCount returns how many of the three stage verdicts count as
// approvals: credit approved, employment free of risk flags, collateral
// approved. Both the reviewer and the synthesizer key off this number.
func FavorableCount(credit CreditVerdict, employment EmploymentVerdict, collateral CollateralVerdict) int {
	n := 0
	if credit.Approved {
		n++
	}
	if !employment.RiskFlag {
		n++
	}
	if collateral.Approved {
		n++
	}
	return n
}
