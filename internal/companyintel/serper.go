package companyintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultSearchURL = "https://google.serper.dev/search"

// positiveKeywords count toward a legitimacy verdict when found in a
// result title or snippet.
var positiveKeywords = []string{
	"official", "website", "company", "corporation", "inc", "ltd",
	"registered", "founded", "headquarters", "employees", "ceo",
	"about us", "careers", "contact", "business",
}

// trustedDomains verify a company on sight when they appear among the
// result links.
var trustedDomains = []string{
	"wikipedia.org", "linkedin.com", "bloomberg.com",
	"forbes.com", "bbb.org", "sec.gov",
}

// SerperClient verifies companies through the Serper.dev search API.
type SerperClient struct {
	httpClient *http.Client
	apiKey     string
	searchURL  string
	logger     *zap.Logger
}

// SerperConfig holds the search client configuration.
type SerperConfig struct {
	APIKey    string
	SearchURL string
	Timeout   time.Duration
}

// NewSerperClient creates a search-backed verifier. The timeout bounds
// every Verify call so the pipeline never blocks on the collaborator.
func NewSerperClient(cfg SerperConfig, logger *zap.Logger) *SerperClient {
	url := cfg.SearchURL
	if url == "" {
		url = defaultSearchURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SerperClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		searchURL:  url,
		logger:     logger,
	}
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
}

// Verify searches for the company and scores the top results for
// legitimacy indicators.
func (c *SerperClient) Verify(ctx context.Context, companyName string) (Verification, error) {
	body, err := json.Marshal(serperRequest{
		Query: fmt.Sprintf("Is %s a legitimate registered company?", companyName),
		Num:   3,
	})
	if err != nil {
		return Verification{}, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return Verification{}, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Searching for company", zap.String("company", companyName))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verification{}, fmt.Errorf("company search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Verification{}, fmt.Errorf("company search returned status %d: %s", resp.StatusCode, payload)
	}

	var data serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Verification{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	return c.score(companyName, data), nil
}

// score turns raw search results into a Verification.
func (c *SerperClient) score(companyName string, data serperResponse) Verification {
	if len(data.Organic) == 0 {
		return Verification{
			Verified:   false,
			Confidence: ConfidenceLow,
			Reason:     "no search results found",
		}
	}

	var (
		evidence  []Evidence
		positives int
		negatives int
		trusted   bool
		official  bool
	)

	compact := strings.ReplaceAll(strings.ToLower(companyName), " ", "")
	negativePatterns := []string{
		strings.ToLower(companyName) + " scam",
		strings.ToLower(companyName) + " fraud",
		"is a scam", "is fraud", "is fake",
		"known scam", "fraudulent company",
	}

	limit := len(data.Organic)
	if limit > 3 {
		limit = 3
	}
	for _, result := range data.Organic[:limit] {
		evidence = append(evidence, Evidence{
			Title:   result.Title,
			Snippet: result.Snippet,
			Link:    result.Link,
		})

		content := strings.ToLower(result.Title + " " + result.Snippet)
		for _, kw := range positiveKeywords {
			if strings.Contains(content, kw) {
				positives++
			}
		}
		for _, pattern := range negativePatterns {
			if strings.Contains(content, pattern) {
				negatives++
			}
		}
		link := strings.ToLower(result.Link)
		if strings.Contains(link, compact) {
			official = true
		}
		for _, domain := range trustedDomains {
			if strings.Contains(link, domain) {
				trusted = true
			}
		}
	}

	switch {
	case negatives > 2:
		return Verification{
			Verified:   false,
			Confidence: ConfidenceHigh,
			Reason:     "negative indicators found in search results",
			Evidence:   evidence,
		}
	case official || trusted:
		return Verification{
			Verified:   true,
			Confidence: ConfidenceHigh,
			Reason:     "company appears legitimate based on search results",
			Evidence:   evidence,
		}
	case positives >= 7:
		return Verification{
			Verified:   true,
			Confidence: ConfidenceHigh,
			Reason:     "company appears legitimate based on search results",
			Evidence:   evidence,
		}
	case positives >= 4:
		return Verification{
			Verified:   true,
			Confidence: ConfidenceMedium,
			Reason:     "some positive indicators found",
			Evidence:   evidence,
		}
	default:
		return Verification{
			Verified:   false,
			Confidence: ConfidenceLow,
			Reason:     "insufficient verification information",
			Evidence:   evidence,
		}
	}
}

var _ Verifier = (*SerperClient)(nil)
