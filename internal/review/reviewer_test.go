package review

import (
	"context"
	"testing"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/lendcore/loanverify/internal/narrative"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func favorableVerdicts() (entity.CreditVerdict, entity.EmploymentVerdict, entity.CollateralVerdict) {
	credit := entity.CreditVerdict{
		RiskCategory:      entity.RiskLow,
		RiskScore:         0.1,
		DebtToIncomeRatio: 0.2,
		CreditScore:       9.0,
		Approved:          true,
	}
	employment := entity.EmploymentVerdict{
		EmploymentVerified: true,
		CompanyVerified:    true,
		Stability:          entity.StabilityExcellent,
		RiskFlag:           false,
	}
	collateral := entity.CollateralVerdict{
		Adequate:   true,
		LTVRatio:   0.5,
		Coverage:   2.0,
		MarginTier: entity.MarginExcellent,
		Approved:   true,
	}
	return credit, employment, collateral
}

func unfavorableVerdicts() (entity.CreditVerdict, entity.EmploymentVerdict, entity.CollateralVerdict) {
	credit := entity.CreditVerdict{
		RiskCategory:      entity.RiskHigh,
		RiskScore:         0.8,
		DebtToIncomeRatio: 0.6,
		CreditScore:       2.0,
		Approved:          false,
	}
	employment := entity.EmploymentVerdict{
		EmploymentVerified: false,
		CompanyVerified:    false,
		Stability:          entity.StabilityPoor,
		RiskFlag:           true,
	}
	collateral := entity.CollateralVerdict{
		Adequate:   false,
		LTVRatio:   1.2,
		Coverage:   0.83,
		MarginTier: entity.MarginInadequate,
		Approved:   false,
	}
	return credit, employment, collateral
}

func TestReviewer_Review_AllFavorable(t *testing.T) {
	reviewer := NewReviewer(narrative.Disabled{}, zap.NewNop())
	credit, employment, collateral := favorableVerdicts()

	result := reviewer.Review(context.Background(), entity.Application{
		Name:            "Alice Johnson",
		Income:          120000,
		LoanAmount:      50000,
		RepaymentScore:  9.0,
		EmploymentYears: 6,
		CompanyName:     "Microsoft",
	}, credit, employment, collateral)

	assert.Contains(t, result.ConsistencySummary, "All verification checks passed")
	assert.Contains(t, result.ConsistencySummary, "Strong credit profile backed by adequate collateral")
	assert.Equal(t, []string{"No significant issues identified"}, result.Issues)
	assert.Contains(t, result.Recommendations, "Strong candidate for standard approval terms")
	assert.Contains(t, result.Recommendations, "Consider offering preferential interest rates")
	assert.Equal(t, 1.0, result.Confidence)
	assert.Contains(t, result.Assessment, "Recommended for approval")
}

func TestReviewer_Review_AllUnfavorable(t *testing.T) {
	reviewer := NewReviewer(narrative.Disabled{}, zap.NewNop())
	credit, employment, collateral := unfavorableVerdicts()

	result := reviewer.Review(context.Background(), entity.Application{
		Name:            "Carol Smith",
		Income:          40000,
		LoanAmount:      120000,
		RepaymentScore:  2.0,
		EmploymentYears: 0.4,
		CompanyName:     "Xyz Holdings",
	}, credit, employment, collateral)

	assert.Contains(t, result.ConsistencySummary, "All verification checks failed")
	assert.Contains(t, result.ConsistencySummary, "Both credit and employment show high risk signals")
	// Every rule on the checklist fires.
	assert.Len(t, result.Issues, 10)
	// Four unfavorable verdict deductions plus the capped issue
	// penalty.
	assert.Equal(t, 0.2, result.Confidence)
	assert.Contains(t, result.Assessment, "Rejection recommended")
}

func TestReviewer_Review_Mixed(t *testing.T) {
	reviewer := NewReviewer(narrative.Disabled{}, zap.NewNop())
	credit, employment, collateral := favorableVerdicts()
	employment.RiskFlag = true
	employment.EmploymentVerified = false

	result := reviewer.Review(context.Background(), entity.Application{
		Name:            "Bob Martin",
		Income:          60000,
		LoanAmount:      40000,
		RepaymentScore:  7.0,
		EmploymentYears: 3,
		CompanyName:     "Tech Startup Inc",
	}, credit, employment, collateral)

	assert.Contains(t, result.ConsistencySummary, "Mixed verification results")
	assert.Contains(t, result.Issues, "Employment verification concerns detected")
	assert.Contains(t, result.Issues, "Employment could not be verified")
	assert.Contains(t, result.Recommendations, "Request recent pay stubs and employment verification letter")
	// 1.0 - 0.15 (risk flag) - 0.10 (unverified) - 0.10 (two issues).
	assert.Equal(t, 0.65, result.Confidence)
}

func TestConfidence_Bounds(t *testing.T) {
	credit, employment, collateral := unfavorableVerdicts()

	// Even with an absurd issue count the penalty is capped and the
	// result stays within [0,1].
	c := confidence(credit, employment, collateral, 50)
	assert.GreaterOrEqual(t, c, 0.0)
	assert.LessOrEqual(t, c, 1.0)
	assert.Equal(t, 0.2, c)
}
