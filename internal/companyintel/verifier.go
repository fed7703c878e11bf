package companyintel

import (
	"context"
	"fmt"
	"strings"
)

// Confidence levels reported by a company verification.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Evidence is one search result supporting a verification outcome.
type Evidence struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Verification is the outcome of a company legitimacy check.
type Verification struct {
	Verified   bool       `json:"verified"`
	Confidence string     `json:"confidence"`
	Reason     string     `json:"reason"`
	Evidence   []Evidence `json:"evidence,omitempty"`
}

// Verifier checks whether a company appears to be a legitimate
// business. Implementations may call external services and fail; every
// caller must hold a deterministic fallback.
type Verifier interface {
	Verify(ctx context.Context, companyName string) (Verification, error)
}

// Signal grades the legitimacy evidence for a company name.
type Signal int

const (
	SignalNegative Signal = iota
	SignalWeak
	SignalStrong
)

// wellKnownEmployers is the fixed allow-list of employer name
// substrings that yield a strong-positive signal without any lookup.
var wellKnownEmployers = []string{
	"google", "microsoft", "apple", "amazon", "meta", "facebook",
	"netflix", "tesla", "nvidia", "intel", "ibm", "oracle",
	"salesforce", "adobe", "cisco", "vmware", "dell", "hp",
	"goldman sachs", "jpmorgan", "morgan stanley", "citigroup",
	"bank of america", "wells fargo", "mastercard", "visa",
	"pfizer", "johnson & johnson", "merck", "abbott",
	"exxonmobil", "chevron", "boeing", "lockheed martin",
}

// suspiciousPrefixes disqualify a name from the weak-positive tier.
var suspiciousPrefixes = []string{"xyz", "unknown", "test"}

// Heuristic is the deterministic local verifier. It is the mandated
// fallback when no search collaborator is configured or the
// collaborator fails.
type Heuristic struct{}

// NewHeuristic returns the allow-list verifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Signal classifies a company name without any external lookup.
func (h *Heuristic) Signal(companyName string) Signal {
	name := strings.ToLower(strings.TrimSpace(companyName))
	for _, known := range wellKnownEmployers {
		if strings.Contains(name, known) {
			return SignalStrong
		}
	}
	for _, prefix := range suspiciousPrefixes {
		if strings.HasPrefix(name, prefix) {
			return SignalNegative
		}
	}
	if len(companyName) > 5 {
		return SignalWeak
	}
	return SignalNegative
}

// Verify implements Verifier on top of the allow-list heuristic. It
// never fails.
func (h *Heuristic) Verify(_ context.Context, companyName string) (Verification, error) {
	switch h.Signal(companyName) {
	case SignalStrong:
		return Verification{
			Verified:   true,
			Confidence: ConfidenceHigh,
			Reason:     fmt.Sprintf("%s is a well-established company", companyName),
		}, nil
	case SignalWeak:
		return Verification{
			Verified:   true,
			Confidence: ConfidenceMedium,
			Reason:     fmt.Sprintf("%s appears to be a legitimate business", companyName),
		}, nil
	default:
		return Verification{
			Verified:   false,
			Confidence: ConfidenceLow,
			Reason:     fmt.Sprintf("limited or no information found for %s", companyName),
		}, nil
	}
}

// SignalFromVerification maps a collaborator verification onto the
// three-valued legitimacy signal used by the employment stage.
func SignalFromVerification(v Verification) Signal {
	if !v.Verified {
		return SignalNegative
	}
	if v.Confidence == ConfidenceHigh {
		return SignalStrong
	}
	return SignalWeak
}
