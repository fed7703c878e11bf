// Package decision aggregates the stage verdicts and the consistency
// review into the final weighted decision with generated conditions.
package decision

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/lendcore/loanverify/internal/narrative"
	"go.uber.org/zap"
)

// Aggregation weights of the overall risk score.
const (
	creditWeight     = 0.45
	employmentWeight = 0.25
	collateralWeight = 0.30
)

const reasoningSystemPrompt = "You are a senior loan officer writing the final decision rationale. In 3-4 sentences state the decision, the key factors behind it, and what would need to change for conditional or rejected applications. Be professional, specific, and factual."

// Synthesizer produces the final decision from all prior stage output.
type Synthesizer struct {
	narrator narrative.Generator
	logger   *zap.Logger
}

// NewSynthesizer creates a decision synthesizer.
func NewSynthesizer(narrator narrative.Generator, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{narrator: narrator, logger: logger}
}

// Decide synthesizes the final decision. Like the scorers it is total:
// narrative generation falls back to deterministic text.
func (s *Synthesizer) Decide(
	ctx context.Context,
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	review entity.ReviewResult,
) entity.DecisionResult {
	risk := overallRisk(credit, employment, collateral)
	outcome := decide(risk, entity.FavorableCount(credit, employment, collateral))

	result := entity.DecisionResult{
		Decision:   outcome,
		RiskScore:  round3(risk),
		Conditions: conditions(outcome, credit, employment, collateral, review),
		Confidence: confidence(outcome, credit, employment, collateral, review),
	}
	result.Reasoning = s.reasoning(ctx, app, credit, employment, collateral, review, result)

	s.logger.Info("Decision synthesized",
		zap.String("applicant", app.Name),
		zap.String("decision", string(outcome)),
		zap.Float64("overall_risk", result.RiskScore))

	return result
}

// overallRisk is the weighted combination of the three stage risks,
// clamped to [0,1].
func overallRisk(credit entity.CreditVerdict, employment entity.EmploymentVerdict, collateral entity.CollateralVerdict) float64 {
	employmentRisk := 0.0
	if employment.RiskFlag {
		employmentRisk += 0.5
	}
	if !employment.EmploymentVerified {
		employmentRisk += 0.3
	}
	if employment.Stability == entity.StabilityPoor {
		employmentRisk += 0.2
	}
	if employmentRisk > 1.0 {
		employmentRisk = 1.0
	}

	collateralRisk := clamp01(collateral.LTVRatio / 0.80)
	if !collateral.Adequate && collateralRisk < 0.7 {
		collateralRisk = 0.7
	}

	risk := credit.RiskScore*creditWeight +
		employmentRisk*employmentWeight +
		collateralRisk*collateralWeight
	return clamp01(risk)
}

// decide applies the decision matrix in order; the first match wins.
func decide(risk float64, favorable int) entity.Decision {
	switch {
	case risk < 0.30 && favorable == 3:
		return entity.DecisionApproved
	case risk < 0.50 && favorable >= 2:
		return entity.DecisionConditional
	case risk < 0.60 && favorable >= 1:
		return entity.DecisionConditional
	default:
		return entity.DecisionRejected
	}
}

// conditions generates the condition list for conditional approvals.
// Besides the fixed per-rule conditions, the first two review
// recommendations are carried over when they read as actionable.
func conditions(
	outcome entity.Decision,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	review entity.ReviewResult,
) []string {
	if outcome != entity.DecisionConditional {
		return nil
	}

	var conds []string
	if !credit.Approved || credit.RiskScore > 0.4 {
		conds = append(conds,
			"Provide co-signer with good credit standing",
			"Submit detailed credit report from all three bureaus")
	}
	if employment.RiskFlag || !employment.EmploymentVerified {
		conds = append(conds,
			"Provide three recent pay stubs",
			"Submit employment verification letter from HR")
	}
	if employment.Stability == entity.StabilityFair || employment.Stability == entity.StabilityPoor {
		conds = append(conds, "Provide proof of income continuity for 6 months")
	}
	if !collateral.Approved || collateral.LTVRatio > 0.75 {
		conds = append(conds,
			"Increase down payment to achieve LTV of 75% or less",
			"Provide professional collateral appraisal")
	}
	if credit.DebtToIncomeRatio > 0.4 {
		conds = append(conds, "Reduce existing debt obligations")
	}

	limit := len(review.Recommendations)
	if limit > 2 {
		limit = 2
	}
	for _, rec := range review.Recommendations[:limit] {
		if actionable(rec) {
			conds = append(conds, rec)
		}
	}

	if len(conds) == 0 {
		conds = []string{"Standard loan conditions apply"}
	}
	return conds
}

// actionable reports whether a recommendation reads as a concrete ask
// rather than an observation.
func actionable(rec string) bool {
	return strings.Contains(rec, "Request") ||
		strings.Contains(rec, "Consider") ||
		strings.Contains(strings.ToLower(rec), "require")
}

// confidence derives decision confidence from the review confidence,
// boosted for clear-cut outcomes and capped for conditional ones.
func confidence(
	outcome entity.Decision,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	review entity.ReviewResult,
) float64 {
	c := review.Confidence

	switch outcome {
	case entity.DecisionApproved:
		if entity.FavorableCount(credit, employment, collateral) == 3 {
			c += 0.15
			if c > 1.0 {
				c = 1.0
			}
		}
	case entity.DecisionRejected:
		if !credit.Approved && employment.RiskFlag && !collateral.Approved {
			c += 0.15
			if c > 1.0 {
				c = 1.0
			}
		}
	case entity.DecisionConditional:
		if c > 0.85 {
			c = 0.85
		}
	}

	return round3(clamp01(c))
}

func (s *Synthesizer) reasoning(
	ctx context.Context,
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	review entity.ReviewResult,
	result entity.DecisionResult,
) string {
	prompt := reasoningPrompt(app, credit, employment, collateral, review, result)
	if text, err := s.narrator.Generate(ctx, reasoningSystemPrompt, prompt); err == nil {
		return text
	}
	return fallbackReasoning(app, credit, employment, collateral, result)
}

func reasoningPrompt(
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	review entity.ReviewResult,
	result entity.DecisionResult,
) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applicant: %s\n", app.Name)
	fmt.Fprintf(&b, "Loan Amount Requested: $%.2f\n", app.LoanAmount)
	fmt.Fprintf(&b, "Annual Income: $%.2f\n\n", app.Income)
	fmt.Fprintf(&b, "Credit: %s (%.3f), credit score %.1f/10, DTI %.1f%%, approved=%t\n",
		credit.RiskCategory, credit.RiskScore, credit.CreditScore, credit.DebtToIncomeRatio*100, credit.Approved)
	fmt.Fprintf(&b, "Employment: verified=%t, company %s (verified=%t), %.1f years, stability %s\n",
		employment.EmploymentVerified, app.CompanyName, employment.CompanyVerified, app.EmploymentYears, employment.Stability)
	fmt.Fprintf(&b, "Collateral: adequate=%t, margin tier %s\n\n", collateral.Adequate, collateral.MarginTier)
	fmt.Fprintf(&b, "Overall risk score: %.3f\n", result.RiskScore)
	fmt.Fprintf(&b, "Review summary: %s\n\n", review.Assessment)
	fmt.Fprintf(&b, "FINAL DECISION: %s\n", strings.ToUpper(string(result.Decision)))
	return b.String()
}

// fallbackReasoning is the deterministic narrative, branching on the
// decision with the key figures embedded.
func fallbackReasoning(
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	result entity.DecisionResult,
) string {
	band := "High"
	switch {
	case result.RiskScore < 0.3:
		band = "Low"
	case result.RiskScore < 0.6:
		band = "Medium"
	}

	lines := []string{
		fmt.Sprintf("LOAN DECISION: %s", strings.ToUpper(string(result.Decision))),
		fmt.Sprintf("Overall Risk Score: %.3f (%s Risk)", result.RiskScore, band),
		"",
	}

	switch result.Decision {
	case entity.DecisionApproved:
		lines = append(lines, fmt.Sprintf(
			"Loan application for %s has been APPROVED for $%.2f. "+
				"The applicant demonstrates strong creditworthiness with a %s risk profile "+
				"(credit score: %.1f/10), %s employment stability at %s, and adequate collateral coverage. "+
				"All key verification checks passed successfully, indicating a low-risk lending opportunity.",
			app.Name, app.LoanAmount,
			strings.ToLower(string(credit.RiskCategory)),
			credit.CreditScore,
			strings.ToLower(string(employment.Stability)), app.CompanyName))

	case entity.DecisionConditional:
		lines = append(lines, fmt.Sprintf(
			"Loan application for %s has received CONDITIONAL APPROVAL for $%.2f. "+
				"While the application shows promise with %s credit risk and %s employment stability, "+
				"certain conditions must be met to proceed.",
			app.Name, app.LoanAmount,
			strings.ToLower(string(credit.RiskCategory)),
			strings.ToLower(string(employment.Stability))))

		var concerns []string
		if !credit.Approved {
			concerns = append(concerns, "credit risk mitigation")
		}
		if employment.RiskFlag {
			concerns = append(concerns, "employment verification")
		}
		if !collateral.Approved {
			concerns = append(concerns, "collateral enhancement")
		}
		if len(concerns) > 0 {
			lines = append(lines, fmt.Sprintf("Primary areas requiring attention: %s.", strings.Join(concerns, ", ")))
		}
		lines = append(lines, "Upon satisfaction of the specified conditions, the loan can proceed to final approval.")

	default:
		lines = append(lines, fmt.Sprintf(
			"Loan application for %s has been REJECTED. "+
				"The application presents high risk (score: %.3f) with significant concerns identified "+
				"across multiple verification areas.",
			app.Name, result.RiskScore))

		var issues []string
		if !credit.Approved {
			issues = append(issues, fmt.Sprintf("%s credit risk", credit.RiskCategory))
		}
		if employment.RiskFlag {
			issues = append(issues, "employment verification concerns")
		}
		if !collateral.Approved {
			issues = append(issues, "insufficient collateral")
		}
		if len(issues) > 0 {
			lines = append(lines, fmt.Sprintf("Key issues: %s.", strings.Join(issues, ", ")))
		}
		lines = append(lines, "We recommend the applicant address these concerns and reapply when their financial situation improves.")
	}

	return strings.Join(lines, "\n")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
