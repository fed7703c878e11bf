package scoring

import (
	"testing"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCreditScorer_Score(t *testing.T) {
	scorer := NewCreditScorer(zap.NewNop())

	tests := []struct {
		name         string
		app          entity.Application
		wantCategory entity.RiskCategory
		wantApproved bool
	}{
		{
			name: "strong applicant scores low risk",
			app: entity.Application{
				Name:           "Alice Johnson",
				Income:         120000,
				LoanAmount:     30000,
				ExistingLoans:  0,
				RepaymentScore: 9.0,
			},
			wantCategory: entity.RiskLow,
			wantApproved: true,
		},
		{
			name: "leveraged applicant scores medium risk",
			app: entity.Application{
				Name:           "Bob Martin",
				Income:         60000,
				LoanAmount:     60000,
				ExistingLoans:  2,
				RepaymentScore: 6.0,
			},
			wantCategory: entity.RiskMedium,
			wantApproved: true,
		},
		{
			name: "overextended applicant scores high risk",
			app: entity.Application{
				Name:           "Carol Smith",
				Income:         40000,
				LoanAmount:     120000,
				ExistingLoans:  5,
				RepaymentScore: 2.0,
			},
			wantCategory: entity.RiskHigh,
			wantApproved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := scorer.Score(tt.app)

			assert.Equal(t, tt.wantCategory, verdict.RiskCategory)
			assert.Equal(t, tt.wantApproved, verdict.Approved)
			assert.GreaterOrEqual(t, verdict.RiskScore, 0.0)
			assert.LessOrEqual(t, verdict.RiskScore, 1.0)
			assert.NotEmpty(t, verdict.Reasoning)
		})
	}
}

func TestCreditScorer_Score_ComponentValues(t *testing.T) {
	scorer := NewCreditScorer(zap.NewNop())

	verdict := scorer.Score(entity.Application{
		Name:           "Alice Johnson",
		Income:         120000,
		LoanAmount:     30000,
		ExistingLoans:  0,
		RepaymentScore: 9.0,
	})

	// No existing loans, so monthly debt service is zero.
	assert.Equal(t, 0.0, verdict.DebtToIncomeRatio)
	assert.Equal(t, 0.25, verdict.LoanToIncomeRatio)
	// 9.0 base, no loan penalty, income headroom bonus capped at the
	// 0.8 earned here.
	assert.Equal(t, 9.8, verdict.CreditScore)
	assert.Equal(t, 0.061, verdict.RiskScore)
}

func TestRiskCategory_Boundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected entity.RiskCategory
	}{
		{0.0, entity.RiskLow},
		{0.299, entity.RiskLow},
		{0.3, entity.RiskMedium},
		{0.599, entity.RiskMedium},
		{0.6, entity.RiskHigh},
		{1.0, entity.RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, riskCategory(tt.score), "score %v", tt.score)
	}
}

func TestCreditScorer_RiskScoreClamping(t *testing.T) {
	scorer := NewCreditScorer(zap.NewNop())

	// Every component saturated: the weighted sum still stays in [0,1].
	verdict := scorer.Score(entity.Application{
		Name:           "Maxed Out",
		Income:         10000,
		LoanAmount:     100000,
		ExistingLoans:  20,
		RepaymentScore: 0,
	})

	assert.Equal(t, 1.0, verdict.RiskScore)
	assert.Equal(t, entity.RiskHigh, verdict.RiskCategory)
	assert.False(t, verdict.Approved)
}

func TestCreditScorer_CreditScoreClamping(t *testing.T) {
	scorer := NewCreditScorer(zap.NewNop())

	high := scorer.Score(entity.Application{
		Name:           "Top Score",
		Income:         500000,
		LoanAmount:     10000,
		ExistingLoans:  0,
		RepaymentScore: 10,
	})
	assert.Equal(t, 10.0, high.CreditScore)

	low := scorer.Score(entity.Application{
		Name:           "Bottom Score",
		Income:         20000,
		LoanAmount:     100000,
		ExistingLoans:  10,
		RepaymentScore: 0,
	})
	assert.GreaterOrEqual(t, low.CreditScore, 0.0)
}
