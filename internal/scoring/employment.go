package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lendcore/loanverify/internal/companyintel"
	"github.com/lendcore/loanverify/internal/domain/entity"
	"go.uber.org/zap"
)

// seniorTitles mark a job title as a senior position for the
// credentials assessment.
var seniorTitles = []string{"senior", "lead", "principal", "director", "manager", "vp", "chief"}

// tenureSignal is the deterministic employment legitimacy signal for a
// tenure band. Positive is an explicit outcome; the message is display
// text and is never re-parsed.
type tenureSignal struct {
	positive bool
	message  string
}

// EmploymentVerifier computes an employment-stability and
// company-legitimacy verdict from employment attributes and an
// optional professional-profile check.
type EmploymentVerifier struct {
	companies companyintel.Verifier
	heuristic *companyintel.Heuristic
	timeout   time.Duration
	logger    *zap.Logger
}

// NewEmploymentVerifier creates an employment verifier. companies may
// be nil, in which case the allow-list heuristic is used directly.
func NewEmploymentVerifier(companies companyintel.Verifier, timeout time.Duration, logger *zap.Logger) *EmploymentVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmploymentVerifier{
		companies: companies,
		heuristic: companyintel.NewHeuristic(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Verify evaluates the employment attributes of the application. The
// collaborator call is bounded by the configured timeout and every
// failure falls back to the local heuristic, so Verify always returns
// a verdict.
func (v *EmploymentVerifier) Verify(ctx context.Context, app entity.Application) entity.EmploymentVerdict {
	profileFound := app.ProfileURL != ""
	wellFormed := profileURLWellFormed(app.ProfileURL)

	var completeness string
	historyConsistent := false
	if profileFound {
		completeness = v.profileCompleteness(app, wellFormed)
		historyConsistent = historyConsistency(app.EmploymentYears, app.PreviousEmployers)
	}

	signal := tenureLegitimacy(app.EmploymentYears, profileFound && wellFormed)
	companySignal, companyNote := v.companySignal(ctx, app.CompanyName)
	companyVerified := companySignal != companyintel.SignalNegative

	// A well-formed profile relaxes the tenure gate to half a year; a
	// missing or malformed one requires a full year.
	employmentVerified := false
	if profileFound && wellFormed {
		employmentVerified = app.EmploymentYears >= 0.5 && signal.positive
	} else {
		employmentVerified = app.EmploymentYears >= 1.0 && signal.positive
	}

	stability := stabilityGrade(app.EmploymentYears, companyVerified, app.PreviousEmployers)
	riskFlag := employmentRiskFlag(employmentVerified, companyVerified, app.EmploymentYears, profileFound)
	credentials := credentialsAssessment(app)

	verdict := entity.EmploymentVerdict{
		EmploymentVerified:  employmentVerified,
		CompanyVerified:     companyVerified,
		Stability:           stability,
		ProfileFound:        profileFound,
		ProfileCompleteness: completeness,
		HistoryConsistent:   historyConsistent,
		Credentials:         credentials,
		RiskFlag:            riskFlag,
	}
	verdict.Reasoning = v.reasoning(app, verdict, signal.message, companyNote)

	v.logger.Debug("Employment verification completed",
		zap.String("applicant", app.Name),
		zap.Bool("employment_verified", employmentVerified),
		zap.Bool("company_verified", companyVerified),
		zap.String("stability", string(stability)))

	return verdict
}

func profileURLWellFormed(url string) bool {
	return strings.Contains(strings.ToLower(url), "linkedin.com/in/")
}

// profileCompleteness scores the provided profile attributes: URL +40,
// job title +30, known prior-employer count +30, bucketed at 80 and 50.
func (v *EmploymentVerifier) profileCompleteness(app entity.Application, wellFormed bool) string {
	if !wellFormed {
		return "Invalid profile URL format"
	}

	score := 40
	details := []string{"profile URL provided"}
	if app.JobTitle != "" {
		score += 30
		details = append(details, "job title specified")
	}
	if app.PreviousEmployers != nil {
		score += 30
		details = append(details, "employment history available")
	}

	bucket := "Limited"
	switch {
	case score >= 80:
		bucket = "Comprehensive"
	case score >= 50:
		bucket = "Moderate"
	}
	return fmt.Sprintf("%s (%d%%) - %s", bucket, score, strings.Join(details, ", "))
}

// historyConsistency holds when the tenure and employer-count pattern
// looks stable. An unknown prior-employer count is never consistent.
func historyConsistency(years float64, previousEmployers *int) bool {
	if previousEmployers == nil {
		return false
	}
	prev := *previousEmployers
	switch {
	case years >= 2.0 && prev <= 5:
		return true
	case years >= 5.0:
		return true
	case prev <= 2:
		return true
	}
	return false
}

// tenureLegitimacy grades the tenure bands. Any tenure of a year or
// more is a positive signal; under a year the signal is cautionary.
// A well-formed profile only changes the message, the tenure bands
// decide the outcome.
func tenureLegitimacy(years float64, verifiedProfile bool) tenureSignal {
	if verifiedProfile {
		switch {
		case years >= 5:
			return tenureSignal{true, fmt.Sprintf("profile confirms %.1f years of tenure with a strong professional presence", years)}
		case years >= 2:
			return tenureSignal{true, fmt.Sprintf("profile confirms %.1f years of tenure with moderate activity", years)}
		case years >= 1:
			return tenureSignal{true, fmt.Sprintf("recent profile lists %.1f years of tenure with limited history", years)}
		default:
			return tenureSignal{false, fmt.Sprintf("profile found but employment of %.1f years is too recent for verification", years)}
		}
	}
	switch {
	case years >= 5:
		return tenureSignal{true, fmt.Sprintf("%.1f years of tenure indicates established employment", years)}
	case years >= 2:
		return tenureSignal{true, fmt.Sprintf("%.1f years of claimed tenure is a credible employment history", years)}
	case years >= 1:
		return tenureSignal{true, fmt.Sprintf("recent employment of %.1f years is plausible but thin", years)}
	default:
		return tenureSignal{false, fmt.Sprintf("very recent employment of %.1f years requires additional verification", years)}
	}
}

// companySignal resolves the company legitimacy signal, preferring the
// configured collaborator and falling back to the allow-list
// heuristic on any failure.
func (v *EmploymentVerifier) companySignal(ctx context.Context, companyName string) (companyintel.Signal, string) {
	if v.companies != nil {
		cctx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()

		verification, err := v.companies.Verify(cctx, companyName)
		if err == nil {
			return companyintel.SignalFromVerification(verification), verification.Reason
		}
		v.logger.Warn("Company verification collaborator failed, using heuristic",
			zap.String("company", companyName),
			zap.Error(err))
	}

	signal := v.heuristic.Signal(companyName)
	switch signal {
	case companyintel.SignalStrong:
		return signal, fmt.Sprintf("%s is a well-established company", companyName)
	case companyintel.SignalWeak:
		return signal, fmt.Sprintf("%s appears to be a legitimate business", companyName)
	default:
		return signal, fmt.Sprintf("company legitimacy of %s cannot be verified", companyName)
	}
}

// stabilityGrade applies the tiered stability table. A prior-employer
// count above 8 forces Poor regardless of tenure.
func stabilityGrade(years float64, companyVerified bool, previousEmployers *int) entity.Stability {
	if previousEmployers != nil {
		prev := *previousEmployers
		switch {
		case years >= 5 && companyVerified && prev <= 3:
			return entity.StabilityExcellent
		case years >= 3 && companyVerified && prev <= 5:
			return entity.StabilityGood
		case years >= 2 && prev <= 6:
			return entity.StabilityFair
		case prev > 8:
			return entity.StabilityPoor
		}
	}

	switch {
	case years >= 5 && companyVerified:
		return entity.StabilityExcellent
	case years >= 3 && companyVerified:
		return entity.StabilityGood
	case years >= 1:
		return entity.StabilityFair
	default:
		return entity.StabilityPoor
	}
}

// employmentRiskFlag clears outright for verified employment with a
// profile and at least half a year of tenure; otherwise it is raised
// by any failed verification or tenure under a year.
func employmentRiskFlag(employmentVerified, companyVerified bool, years float64, profileFound bool) bool {
	if profileFound && employmentVerified && years >= 0.5 {
		return false
	}
	if !employmentVerified || !companyVerified || years < 1 {
		return true
	}
	return false
}

// credentialsAssessment scores optional professional attributes into a
// descriptor string.
func credentialsAssessment(app entity.Application) string {
	score := 0
	var details []string

	if app.JobTitle != "" {
		title := strings.ToLower(app.JobTitle)
		senior := false
		for _, t := range seniorTitles {
			if strings.Contains(title, t) {
				senior = true
				break
			}
		}
		if senior {
			score += 30
			details = append(details, "senior position")
		} else {
			score += 20
			details = append(details, "professional role")
		}
	}

	switch strings.ToLower(app.EmploymentType) {
	case "":
	case "full-time":
		score += 30
		details = append(details, "full-time employment")
	case "part-time":
		score += 15
		details = append(details, "part-time employment")
	default:
		score += 10
		details = append(details, fmt.Sprintf("%s employment", app.EmploymentType))
	}

	if app.ProfessionalEmail != "" {
		domain := strings.NewReplacer(" ", "", ",", "", ".", "").Replace(strings.ToLower(app.CompanyName))
		email := strings.ToLower(app.ProfessionalEmail)
		prefix := domain
		if len(prefix) > 5 {
			prefix = prefix[:5]
		}
		if strings.Contains(email, prefix) || strings.Contains(email, "@") {
			score += 40
			details = append(details, "corporate email verified")
		} else {
			score += 20
			details = append(details, "email provided")
		}
	}

	switch {
	case score >= 70:
		return fmt.Sprintf("Strong credentials - %s", strings.Join(details, ", "))
	case score >= 40:
		return fmt.Sprintf("Adequate credentials - %s", strings.Join(details, ", "))
	case score > 0:
		return fmt.Sprintf("Basic credentials - %s", strings.Join(details, ", "))
	default:
		return "Limited credential information"
	}
}

func (v *EmploymentVerifier) reasoning(app entity.Application, verdict entity.EmploymentVerdict, tenureNote, companyNote string) string {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	lines := []string{
		fmt.Sprintf("Employment Verification for %s:", app.Name),
		fmt.Sprintf("- Company: %s", app.CompanyName),
		fmt.Sprintf("- Employment Duration: %.1f years", app.EmploymentYears),
		fmt.Sprintf("- Employment Verified: %s", yesNo(verdict.EmploymentVerified)),
		fmt.Sprintf("- Company Verified: %s", yesNo(verdict.CompanyVerified)),
		fmt.Sprintf("- Stability: %s", verdict.Stability),
		"",
	}

	if verdict.ProfileFound {
		lines = append(lines, fmt.Sprintf("- Profile Completeness: %s", verdict.ProfileCompleteness))
		lines = append(lines, fmt.Sprintf("- History Consistent: %s", yesNo(verdict.HistoryConsistent)))
	}
	lines = append(lines,
		fmt.Sprintf("- Credentials: %s", verdict.Credentials),
		fmt.Sprintf("- Tenure check: %s", tenureNote),
		fmt.Sprintf("- Company check: %s", companyNote),
		"",
	)

	switch {
	case verdict.EmploymentVerified && verdict.CompanyVerified &&
		(verdict.Stability == entity.StabilityExcellent || verdict.Stability == entity.StabilityGood):
		lines = append(lines, "Employment verification successful; the applicant demonstrates stable employment at a verified company.")
	case verdict.EmploymentVerified && verdict.CompanyVerified:
		lines = append(lines, "Employment verified but relatively recent; monitor for stability.")
	default:
		lines = append(lines, "Employment verification concerns detected; additional documentation may be required.")
	}

	return strings.Join(lines, "\n")
}
