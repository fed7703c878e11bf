package scoring

import (
	"math"
	"testing"

	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCollateralAssessor_Assess(t *testing.T) {
	assessor := NewCollateralAssessor(zap.NewNop())

	tests := []struct {
		name         string
		loan         float64
		collateral   float64
		wantAdequate bool
		wantTier     entity.MarginTier
	}{
		{
			name:         "comfortable margin",
			loan:         50000,
			collateral:   100000,
			wantAdequate: true,
			wantTier:     entity.MarginExcellent,
		},
		{
			name:         "good margin",
			loan:         65000,
			collateral:   100000,
			wantAdequate: true,
			wantTier:     entity.MarginGood,
		},
		{
			name:         "exactly at the LTV ceiling is adequate",
			loan:         80000,
			collateral:   100000,
			wantAdequate: true,
			wantTier:     entity.MarginAcceptable,
		},
		{
			name:         "just over the ceiling",
			loan:         85000,
			collateral:   100000,
			wantAdequate: false,
			wantTier:     entity.MarginMarginal,
		},
		{
			name:         "nearly fully leveraged",
			loan:         95000,
			collateral:   100000,
			wantAdequate: false,
			wantTier:     entity.MarginInsufficient,
		},
		{
			name:         "loan exceeds collateral",
			loan:         120000,
			collateral:   100000,
			wantAdequate: false,
			wantTier:     entity.MarginInadequate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := assessor.Assess(entity.Application{
				Name:            "Test Applicant",
				Income:          80000,
				LoanAmount:      tt.loan,
				CollateralValue: tt.collateral,
			})

			assert.Equal(t, tt.wantAdequate, verdict.Adequate)
			assert.Equal(t, tt.wantAdequate, verdict.Approved)
			assert.Equal(t, tt.wantTier, verdict.MarginTier)
			assert.NotEmpty(t, verdict.Reasoning)
		})
	}
}

func TestCollateralAssessor_BoundaryValues(t *testing.T) {
	assessor := NewCollateralAssessor(zap.NewNop())

	verdict := assessor.Assess(entity.Application{
		Name:            "Boundary Case",
		Income:          100000,
		LoanAmount:      80000,
		CollateralValue: 100000,
	})

	assert.Equal(t, 0.8, verdict.LTVRatio)
	assert.Equal(t, 1.25, verdict.Coverage)
	assert.True(t, verdict.Adequate)
}

func TestCollateralAssessor_NoCollateral(t *testing.T) {
	assessor := NewCollateralAssessor(zap.NewNop())

	verdict := assessor.Assess(entity.Application{
		Name:            "No Collateral",
		Income:          50000,
		LoanAmount:      20000,
		CollateralValue: 0,
	})

	// Zero collateral is a policy outcome, not an error: the LTV is
	// unbounded and the verdict inadequate.
	assert.True(t, math.IsInf(verdict.LTVRatio, 1))
	assert.Equal(t, 0.0, verdict.Coverage)
	assert.False(t, verdict.Adequate)
	assert.Equal(t, entity.MarginInadequate, verdict.MarginTier)
	assert.Contains(t, verdict.Reasoning, "No collateral pledged")
	assert.Contains(t, verdict.Reasoning, "unbounded")
}
