package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/lendcore/loanverify/internal/companyintel"
	"github.com/lendcore/loanverify/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func intPtr(n int) *int { return &n }

func TestEmploymentVerifier_Verify(t *testing.T) {
	verifier := NewEmploymentVerifier(nil, 0, zap.NewNop())

	tests := []struct {
		name            string
		app             entity.Application
		wantVerified    bool
		wantCompany     bool
		wantStability   entity.Stability
		wantRiskFlag    bool
		wantHistoryCons bool
	}{
		{
			name: "long tenure at well-known employer with profile",
			app: entity.Application{
				Name:              "Alice Johnson",
				CompanyName:       "Microsoft",
				EmploymentYears:   6,
				ProfileURL:        "https://linkedin.com/in/alicejohnson",
				JobTitle:          "Senior Engineer",
				PreviousEmployers: intPtr(2),
			},
			wantVerified:    true,
			wantCompany:     true,
			wantStability:   entity.StabilityExcellent,
			wantRiskFlag:    false,
			wantHistoryCons: true,
		},
		{
			name: "moderate tenure without profile",
			app: entity.Application{
				Name:            "Bob Martin",
				CompanyName:     "Tech Startup Inc",
				EmploymentYears: 3,
			},
			wantVerified:  true,
			wantCompany:   true,
			wantStability: entity.StabilityGood,
			wantRiskFlag:  false,
		},
		{
			name: "suspicious company name",
			app: entity.Application{
				Name:            "Carol Smith",
				CompanyName:     "Xyz Holdings",
				EmploymentYears: 2,
			},
			wantVerified:  true,
			wantCompany:   false,
			wantStability: entity.StabilityFair,
			wantRiskFlag:  true,
		},
		{
			name: "very short tenure",
			app: entity.Application{
				Name:            "Dan Lee",
				CompanyName:     "Acme Widgets",
				EmploymentYears: 0.4,
			},
			wantVerified:  false,
			wantCompany:   true,
			wantStability: entity.StabilityPoor,
			wantRiskFlag:  true,
		},
		{
			name: "short tenure with verified profile",
			app: entity.Application{
				Name:            "Eve Chen",
				CompanyName:     "Google",
				EmploymentYears: 1.5,
				ProfileURL:      "https://linkedin.com/in/evechen",
			},
			wantVerified:  true,
			wantCompany:   true,
			wantStability: entity.StabilityFair,
			wantRiskFlag:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := verifier.Verify(context.Background(), tt.app)

			assert.Equal(t, tt.wantVerified, verdict.EmploymentVerified, "employment verified")
			assert.Equal(t, tt.wantCompany, verdict.CompanyVerified, "company verified")
			assert.Equal(t, tt.wantStability, verdict.Stability)
			assert.Equal(t, tt.wantRiskFlag, verdict.RiskFlag, "risk flag")
			assert.Equal(t, tt.wantHistoryCons, verdict.HistoryConsistent)
			assert.NotEmpty(t, verdict.Reasoning)
		})
	}
}

func TestEmploymentVerifier_MalformedProfileURL(t *testing.T) {
	verifier := NewEmploymentVerifier(nil, 0, zap.NewNop())

	verdict := verifier.Verify(context.Background(), entity.Application{
		Name:            "Frank Moore",
		CompanyName:     "Amazon",
		EmploymentYears: 4,
		ProfileURL:      "https://example.com/frank",
	})

	// A malformed profile URL is reported as such, and the relaxed
	// half-year tenure gate does not apply; four years still clears
	// the full-year gate.
	assert.True(t, verdict.ProfileFound)
	assert.Equal(t, "Invalid profile URL format", verdict.ProfileCompleteness)
	assert.True(t, verdict.EmploymentVerified)
	assert.False(t, verdict.RiskFlag)
}

func TestEmploymentVerifier_ProfileCompleteness(t *testing.T) {
	verifier := NewEmploymentVerifier(nil, 0, zap.NewNop())

	verdict := verifier.Verify(context.Background(), entity.Application{
		Name:              "Grace Kim",
		CompanyName:       "Intel",
		EmploymentYears:   5,
		ProfileURL:        "https://linkedin.com/in/gracekim",
		JobTitle:          "Principal Architect",
		PreviousEmployers: intPtr(1),
		EmploymentType:    "Full-time",
		ProfessionalEmail: "grace.kim@intel.com",
	})

	assert.Contains(t, verdict.ProfileCompleteness, "Comprehensive")
	assert.Contains(t, verdict.Credentials, "Strong credentials")
}

type erroringVerifier struct{}

func (erroringVerifier) Verify(context.Context, string) (companyintel.Verification, error) {
	return companyintel.Verification{}, errors.New("search backend unavailable")
}

func TestEmploymentVerifier_CollaboratorFailureFallsBack(t *testing.T) {
	verifier := NewEmploymentVerifier(erroringVerifier{}, 0, zap.NewNop())

	verdict := verifier.Verify(context.Background(), entity.Application{
		Name:            "Henry Ford",
		CompanyName:     "Microsoft",
		EmploymentYears: 6,
		ProfileURL:      "https://linkedin.com/in/henryford",
	})

	// The collaborator failed, so the allow-list heuristic decides.
	assert.True(t, verdict.CompanyVerified)
	assert.True(t, verdict.EmploymentVerified)
}

type canonicalVerifier struct {
	result companyintel.Verification
}

func (v canonicalVerifier) Verify(context.Context, string) (companyintel.Verification, error) {
	return v.result, nil
}

func TestEmploymentVerifier_CollaboratorVerdictWins(t *testing.T) {
	verifier := NewEmploymentVerifier(canonicalVerifier{
		result: companyintel.Verification{
			Verified:   false,
			Confidence: companyintel.ConfidenceHigh,
			Reason:     "negative indicators found in search results",
		},
	}, 0, zap.NewNop())

	// The heuristic would trust this name, but the collaborator says
	// otherwise and takes precedence.
	verdict := verifier.Verify(context.Background(), entity.Application{
		Name:            "Iris West",
		CompanyName:     "Microsoft",
		EmploymentYears: 6,
		ProfileURL:      "https://linkedin.com/in/iriswest",
	})

	assert.False(t, verdict.CompanyVerified)
}

func TestTenureLegitimacy_Bands(t *testing.T) {
	tests := []struct {
		name         string
		years        float64
		profile      bool
		wantPositive bool
	}{
		{"established tenure no profile", 10, false, true},
		{"mid tenure no profile", 3.5, false, true},
		{"one year no profile", 1, false, true},
		{"under a year no profile", 0.5, false, false},
		{"established tenure with profile", 6, true, true},
		{"one year with profile", 1, true, true},
		{"under a year with profile", 0.9, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := tenureLegitimacy(tt.years, tt.profile)
			assert.Equal(t, tt.wantPositive, signal.positive)
			assert.NotEmpty(t, signal.message)
		})
	}
}

func TestStabilityGrade(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		verified bool
		prev     *int
		expected entity.Stability
	}{
		{"long tenure verified few employers", 6, true, intPtr(2), entity.StabilityExcellent},
		{"mid tenure verified", 4, true, intPtr(4), entity.StabilityGood},
		{"short tenure many employers", 2, false, intPtr(6), entity.StabilityFair},
		{"job hopper", 1, false, intPtr(9), entity.StabilityPoor},
		{"long tenure verified no history", 6, true, nil, entity.StabilityExcellent},
		{"mid tenure unverified no history", 3, false, nil, entity.StabilityFair},
		{"fresh hire no history", 0.5, false, nil, entity.StabilityPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stabilityGrade(tt.years, tt.verified, tt.prev))
		})
	}
}

func TestHistoryConsistency(t *testing.T) {
	assert.False(t, historyConsistency(10, nil), "unknown employer count is never consistent")
	assert.True(t, historyConsistency(3, intPtr(4)))
	assert.True(t, historyConsistency(6, intPtr(8)))
	assert.True(t, historyConsistency(0.5, intPtr(1)))
	assert.False(t, historyConsistency(1, intPtr(7)))
}
