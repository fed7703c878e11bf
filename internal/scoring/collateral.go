package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"go.uber.org/zap"
)

// maxLTVRatio is the standard lending ceiling: a loan may use at most
// 80% of the collateral value. The minimum coverage is its reciprocal.
const maxLTVRatio = 0.80

// CollateralAssessor computes loan-to-value and coverage ratios and an
// adequacy verdict.
type CollateralAssessor struct {
	logger *zap.Logger
}

// NewCollateralAssessor creates a collateral assessor.
func NewCollateralAssessor(logger *zap.Logger) *CollateralAssessor {
	return &CollateralAssessor{logger: logger}
}

// Assess evaluates collateral adequacy. Zero collateral is a policy
// case, not an error: LTV becomes +Inf and the margin tier Inadequate.
func (a *CollateralAssessor) Assess(app entity.Application) entity.CollateralVerdict {
	ltv := ltvRatio(app.LoanAmount, app.CollateralValue)
	coverage := coverageRatio(app.CollateralValue, app.LoanAmount)

	// Inclusive on both boundaries: LTV exactly 0.80 with coverage
	// exactly 1.25 is adequate.
	adequate := ltv <= maxLTVRatio && coverage >= 1.0/maxLTVRatio

	verdict := entity.CollateralVerdict{
		Adequate:   adequate,
		LTVRatio:   roundRatio(ltv),
		Coverage:   roundRatio(coverage),
		MarginTier: marginTier(ltv),
		Approved:   adequate,
	}
	verdict.Reasoning = a.reasoning(app, verdict)

	a.logger.Debug("Collateral assessment completed",
		zap.String("applicant", app.Name),
		zap.Bool("adequate", adequate),
		zap.Float64("ltv", verdict.LTVRatio))

	return verdict
}

func ltvRatio(loanAmount, collateralValue float64) float64 {
	if collateralValue <= 0 {
		return math.Inf(1)
	}
	return loanAmount / collateralValue
}

func coverageRatio(collateralValue, loanAmount float64) float64 {
	if loanAmount <= 0 {
		return math.Inf(1)
	}
	return collateralValue / loanAmount
}

// roundRatio rounds for display but leaves infinities untouched.
func roundRatio(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	return round3(v)
}

func marginTier(ltv float64) entity.MarginTier {
	switch {
	case ltv <= 0.60:
		return entity.MarginExcellent
	case ltv <= 0.70:
		return entity.MarginGood
	case ltv <= 0.80:
		return entity.MarginAcceptable
	case ltv <= 0.90:
		return entity.MarginMarginal
	case ltv <= 1.00:
		return entity.MarginInsufficient
	default:
		return entity.MarginInadequate
	}
}

func (a *CollateralAssessor) reasoning(app entity.Application, v entity.CollateralVerdict) string {
	status := "Inadequate"
	if v.Adequate {
		status = "Adequate"
	}

	lines := []string{
		fmt.Sprintf("Collateral Assessment for %s:", app.Name),
		fmt.Sprintf("- Loan Amount: $%.2f", app.LoanAmount),
		fmt.Sprintf("- Collateral Value: $%.2f", app.CollateralValue),
		fmt.Sprintf("- LTV Ratio: %s", formatRatio(v.LTVRatio)),
		fmt.Sprintf("- Coverage: %s", formatRatio(v.Coverage)),
		fmt.Sprintf("- Margin Tier: %s", v.MarginTier),
		fmt.Sprintf("- Status: %s", status),
		"",
	}

	if app.CollateralValue > 0 {
		maxLoan := app.CollateralValue * maxLTVRatio
		lines = append(lines, fmt.Sprintf("Maximum recommendable loan: $%.2f at %.0f%% LTV.", maxLoan, maxLTVRatio*100))
		if app.LoanAmount <= maxLoan {
			lines = append(lines, fmt.Sprintf("Safety margin: $%.2f.", maxLoan-app.LoanAmount))
		} else {
			lines = append(lines, fmt.Sprintf("Shortfall: $%.2f above the recommended limit.", app.LoanAmount-maxLoan))
		}
	} else {
		lines = append(lines, "No collateral pledged.")
	}

	if v.Adequate {
		lines = append(lines, "Collateral provides adequate security for the requested loan.")
	} else {
		lines = append(lines, "Additional collateral or a lower loan amount is required.")
	}

	return strings.Join(lines, "\n")
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}
