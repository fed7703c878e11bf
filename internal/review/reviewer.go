// Package review cross-checks the three scoring verdicts and produces
// a confidence-weighted assessment of the run as a whole.
package review

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/lendcore/loanverify/internal/narrative"
	"go.uber.org/zap"
)

const assessmentSystemPrompt = "You are a senior loan underwriting expert reviewing a loan application. Provide a concise overall assessment in 2-3 sentences, objective about both strengths and weaknesses."

// Reviewer cross-checks scorer outputs for consistency and surfaces
// issues and recommendations.
type Reviewer struct {
	narrator narrative.Generator
	logger   *zap.Logger
}

// NewReviewer creates a consistency reviewer.
func NewReviewer(narrator narrative.Generator, logger *zap.Logger) *Reviewer {
	return &Reviewer{narrator: narrator, logger: logger}
}

// Review evaluates the three verdicts against each other. It cannot
// fail: narrative generation falls back to deterministic text.
func (r *Reviewer) Review(
	ctx context.Context,
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
) entity.ReviewResult {
	issues := identifyIssues(app, credit, employment, collateral)
	result := entity.ReviewResult{
		ConsistencySummary: consistencySummary(credit, employment, collateral),
		Issues:             issues,
		Recommendations:    recommendations(app, credit, employment, collateral),
		Confidence:         confidence(credit, employment, collateral, len(issues)),
	}
	result.Assessment = r.assessment(ctx, app, credit, employment, collateral, issues)

	r.logger.Debug("Consistency review completed",
		zap.String("applicant", app.Name),
		zap.Int("issues", len(issues)),
		zap.Float64("confidence", result.Confidence))

	return result
}

func consistencySummary(credit entity.CreditVerdict, employment entity.EmploymentVerdict, collateral entity.CollateralVerdict) string {
	favorable := entity.FavorableCount(credit, employment, collateral)

	var checks []string
	switch favorable {
	case 3:
		checks = append(checks, "All verification checks passed - consistent positive assessment")
	case 0:
		checks = append(checks, "All verification checks failed - consistent negative assessment")
	default:
		checks = append(checks, "Mixed verification results - requires careful review")
	}

	if credit.RiskCategory == entity.RiskHigh && employment.RiskFlag {
		checks = append(checks, "Both credit and employment show high risk signals")
	}
	if credit.RiskCategory == entity.RiskLow && collateral.Adequate {
		checks = append(checks, "Strong credit profile backed by adequate collateral")
	}

	return strings.Join(checks, "\n")
}

// identifyIssues walks the fixed issue checklist in order. The list is
// never empty: with nothing triggered a single no-issues entry is
// emitted.
func identifyIssues(app entity.Application, credit entity.CreditVerdict, employment entity.EmploymentVerdict, collateral entity.CollateralVerdict) []string {
	var issues []string

	if credit.RiskScore > 0.6 {
		issues = append(issues, fmt.Sprintf("High credit risk score (%.2f)", credit.RiskScore))
	}
	if credit.DebtToIncomeRatio > 0.5 {
		issues = append(issues, fmt.Sprintf("High debt-to-income ratio (%.1f%%)", credit.DebtToIncomeRatio*100))
	}
	if app.RepaymentScore < 6.0 {
		issues = append(issues, fmt.Sprintf("Poor repayment history (score: %.1f/10)", app.RepaymentScore))
	}
	if employment.RiskFlag {
		issues = append(issues, "Employment verification concerns detected")
	}
	if !employment.EmploymentVerified {
		issues = append(issues, "Employment could not be verified")
	}
	if !employment.CompanyVerified {
		issues = append(issues, "Company legitimacy could not be verified")
	}
	if app.EmploymentYears < 1.0 {
		issues = append(issues, fmt.Sprintf("Short employment duration (%.1f years)", app.EmploymentYears))
	}
	if !collateral.Adequate {
		issues = append(issues, "Insufficient collateral coverage")
	}
	if collateral.LTVRatio > 0.80 {
		issues = append(issues, fmt.Sprintf("High LTV ratio (%s)", formatLTV(collateral.LTVRatio)))
	}
	if app.LoanAmount > app.Income*2 {
		issues = append(issues, "Loan amount significantly exceeds annual income")
	}

	if len(issues) == 0 {
		issues = append(issues, "No significant issues identified")
	}
	return issues
}

func recommendations(app entity.Application, credit entity.CreditVerdict, employment entity.EmploymentVerdict, collateral entity.CollateralVerdict) []string {
	var recs []string

	if credit.RiskScore > 0.6 {
		recs = append(recs, "Consider requiring a co-signer or guarantor")
	}
	if collateral.LTVRatio > 0.80 {
		recs = append(recs, "Request additional collateral or reduce loan amount")
	}
	if employment.RiskFlag {
		recs = append(recs, "Request recent pay stubs and employment verification letter")
	}
	if app.EmploymentYears < 2.0 {
		recs = append(recs, "Monitor employment stability closely; consider probationary period")
	}
	if credit.DebtToIncomeRatio > 0.4 {
		recs = append(recs, "Review detailed debt obligations and repayment capacity")
	}

	if credit.Approved && employment.EmploymentVerified && collateral.Approved {
		recs = append(recs, "Strong candidate for standard approval terms")
	}
	if credit.RiskCategory == entity.RiskLow && collateral.Coverage > 1.5 {
		recs = append(recs, "Consider offering preferential interest rates")
	}

	if len(recs) == 0 {
		recs = append(recs, "Proceed with standard underwriting protocols")
	}
	return recs
}

// confidence starts at 1.0 and is docked for each unfavorable verdict
// and for the issue count, with a bounded bonus for a clean run.
func confidence(credit entity.CreditVerdict, employment entity.EmploymentVerdict, collateral entity.CollateralVerdict, issueCount int) float64 {
	c := 1.0
	if !credit.Approved {
		c -= 0.15
	}
	if employment.RiskFlag {
		c -= 0.15
	}
	if !employment.EmploymentVerified {
		c -= 0.10
	}
	if !collateral.Approved {
		c -= 0.15
	}

	penalty := 0.05 * float64(issueCount)
	if penalty > 0.25 {
		penalty = 0.25
	}
	c -= penalty

	if entity.FavorableCount(credit, employment, collateral) == 3 {
		c += 0.10
		if c > 1.0 {
			c = 1.0
		}
	}

	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return math.Round(c*1000) / 1000
}

func (r *Reviewer) assessment(
	ctx context.Context,
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	issues []string,
) string {
	prompt := assessmentPrompt(app, credit, employment, collateral, issues)
	if text, err := r.narrator.Generate(ctx, assessmentSystemPrompt, prompt); err == nil {
		return text
	}
	return fallbackAssessment(entity.FavorableCount(credit, employment, collateral))
}

func assessmentPrompt(
	app entity.Application,
	credit entity.CreditVerdict,
	employment entity.EmploymentVerdict,
	collateral entity.CollateralVerdict,
	issues []string,
) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applicant: %s\n", app.Name)
	fmt.Fprintf(&b, "Loan Amount: $%.2f\n", app.LoanAmount)
	fmt.Fprintf(&b, "Income: $%.2f\n\n", app.Income)
	fmt.Fprintf(&b, "Credit: category=%s score=%.3f credit_score=%.1f/10 approved=%t\n",
		credit.RiskCategory, credit.RiskScore, credit.CreditScore, credit.Approved)
	fmt.Fprintf(&b, "Employment: verified=%t company=%s years=%.1f stability=%s\n",
		employment.EmploymentVerified, app.CompanyName, app.EmploymentYears, employment.Stability)
	fmt.Fprintf(&b, "Collateral: adequate=%t ltv=%s coverage=%s\n\n",
		collateral.Adequate, formatLTV(collateral.LTVRatio), formatLTV(collateral.Coverage))
	b.WriteString("Identified issues:\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	return b.String()
}

// fallbackAssessment is the deterministic narrative, keyed on how many
// of the three verdicts are favorable.
func fallbackAssessment(favorable int) string {
	switch favorable {
	case 3:
		return "All verification checks passed successfully. The applicant demonstrates strong creditworthiness, stable employment, and adequate collateral. Recommended for approval."
	case 2:
		return "Most verification checks passed with some concerns noted. The application shows acceptable risk levels but may benefit from additional conditions or documentation."
	case 1:
		return "Multiple verification concerns identified. The application presents elevated risk and would likely require significant conditions or may not meet approval criteria."
	default:
		return "Significant concerns across all verification areas. The application presents high risk and does not meet standard approval criteria. Rejection recommended."
	}
}

func formatLTV(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}
