// Package scoring implements the three independent risk-scoring
// stages. Each scorer is a pure function of the Application value and
// is total over validated input: there is no failure path.
package scoring

import (
	"fmt"
	"strings"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"go.uber.org/zap"
)

// Risk category boundaries. A score on a boundary belongs to the
// higher tier.
const (
	lowRiskThreshold    = 0.3
	mediumRiskThreshold = 0.6
)

// Normalization ceilings for the credit risk components.
const (
	dtiCeiling           = 0.5
	ltiCeiling           = 2.0
	existingLoansCeiling = 4.0
	avgLoanBalance       = 10000.0
	monthlyPaymentRate   = 0.05
)

// Component weights of the credit risk score.
const (
	dtiWeight       = 0.25
	ltiWeight       = 0.25
	loansWeight     = 0.20
	repaymentWeight = 0.30
)

// CreditScorer computes debt ratios and a bounded risk score from
// application financials.
type CreditScorer struct {
	logger *zap.Logger
}

// NewCreditScorer creates a credit scorer.
func NewCreditScorer(logger *zap.Logger) *CreditScorer {
	return &CreditScorer{logger: logger}
}

// Score evaluates credit risk for the application.
func (s *CreditScorer) Score(app entity.Application) entity.CreditVerdict {
	dti := s.debtToIncome(app)
	lti := app.LoanAmount / app.Income

	risk := s.riskScore(app, dti, lti)
	category := riskCategory(risk)
	creditScore := s.creditScore(app)
	approved := risk < mediumRiskThreshold

	verdict := entity.CreditVerdict{
		RiskCategory:      category,
		RiskScore:         round3(risk),
		DebtToIncomeRatio: round3(dti),
		LoanToIncomeRatio: round3(lti),
		CreditScore:       round2(creditScore),
		Approved:          approved,
	}
	verdict.Reasoning = s.reasoning(app, verdict)

	s.logger.Debug("Credit scoring completed",
		zap.String("applicant", app.Name),
		zap.String("category", string(category)),
		zap.Float64("risk_score", verdict.RiskScore))

	return verdict
}

// debtToIncome estimates the monthly debt service against monthly
// income. Existing loans are assumed to average $10,000 with a 5%
// monthly payment.
func (s *CreditScorer) debtToIncome(app entity.Application) float64 {
	monthlyDebt := float64(app.ExistingLoans) * avgLoanBalance * monthlyPaymentRate
	monthlyIncome := app.Income / 12
	return monthlyDebt / monthlyIncome
}

// riskScore combines the four normalized risk components into [0,1].
func (s *CreditScorer) riskScore(app entity.Application, dti, lti float64) float64 {
	dtiRisk := clamp01(dti / dtiCeiling)
	ltiRisk := clamp01(lti / ltiCeiling)
	loansRisk := clamp01(float64(app.ExistingLoans) / existingLoansCeiling)
	repaymentRisk := 1.0 - app.RepaymentScore/10.0

	score := dtiRisk*dtiWeight +
		ltiRisk*ltiWeight +
		loansRisk*loansWeight +
		repaymentRisk*repaymentWeight

	return clamp01(score)
}

// creditScore normalizes the repayment history onto a 0-10 scale with
// a penalty for existing loans and a bonus for income headroom.
func (s *CreditScorer) creditScore(app entity.Application) float64 {
	penalty := min64(float64(app.ExistingLoans)*0.5, 3.0)
	bonus := min64((app.Income/app.LoanAmount)*0.2, 1.0)
	return clamp(app.RepaymentScore-penalty+bonus, 0, 10)
}

func riskCategory(score float64) entity.RiskCategory {
	switch {
	case score < lowRiskThreshold:
		return entity.RiskLow
	case score < mediumRiskThreshold:
		return entity.RiskMedium
	default:
		return entity.RiskHigh
	}
}

func (s *CreditScorer) reasoning(app entity.Application, v entity.CreditVerdict) string {
	lines := []string{
		fmt.Sprintf("Credit Assessment for %s:", app.Name),
		fmt.Sprintf("- Credit Score: %.2f/10", v.CreditScore),
		fmt.Sprintf("- Overall Risk: %s (%.3f)", v.RiskCategory, v.RiskScore),
		fmt.Sprintf("- Debt-to-Income Ratio: %.1f%%", v.DebtToIncomeRatio*100),
		fmt.Sprintf("- Loan-to-Income Ratio: %.2fx", v.LoanToIncomeRatio),
		fmt.Sprintf("- Existing Loans: %d", app.ExistingLoans),
		fmt.Sprintf("- Repayment History Score: %.1f/10", app.RepaymentScore),
		"",
	}

	switch {
	case v.DebtToIncomeRatio < 0.3:
		lines = append(lines, "Excellent debt-to-income ratio.")
	case v.DebtToIncomeRatio < 0.5:
		lines = append(lines, "Moderate debt-to-income ratio.")
	default:
		lines = append(lines, "High debt-to-income ratio is concerning.")
	}

	switch {
	case v.LoanToIncomeRatio < 1.0:
		lines = append(lines, "Loan amount is reasonable relative to income.")
	case v.LoanToIncomeRatio < 2.0:
		lines = append(lines, "Loan amount is significant relative to income.")
	default:
		lines = append(lines, "Loan amount is very high relative to income.")
	}

	switch {
	case app.RepaymentScore >= 8.0:
		lines = append(lines, "Excellent repayment history.")
	case app.RepaymentScore >= 6.0:
		lines = append(lines, "Acceptable repayment history.")
	default:
		lines = append(lines, "Poor repayment history.")
	}

	switch {
	case app.ExistingLoans == 0:
		lines = append(lines, "No existing loan burden.")
	case app.ExistingLoans <= 2:
		lines = append(lines, "Some existing loan obligations.")
	default:
		lines = append(lines, "Multiple existing loans.")
	}

	return strings.Join(lines, "\n")
}
