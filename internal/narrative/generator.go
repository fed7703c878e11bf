// Package narrative generates explanatory prose for review and
// decision stages. Generation is a capability selected at construction
// time: with an API key configured the OpenAI implementation is used,
// otherwise the disabled implementation, and every caller falls back to
// deterministic local text when Generate fails.
package narrative

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable signals that no narrative backend is configured.
var ErrUnavailable = errors.New("narrative generation unavailable")

// Generator produces display text from a structured prompt. The output
// is presentation only and must never be parsed for control flow.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Config holds narrative generation configuration.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// New selects the generator implementation from configuration.
func New(cfg Config, logger *zap.Logger) Generator {
	if cfg.APIKey == "" {
		logger.Warn("No narrative API key configured, using deterministic fallback text")
		return Disabled{}
	}
	return NewOpenAIGenerator(cfg, logger)
}

// Disabled is the no-backend generator. Generate always fails with
// ErrUnavailable so callers take their deterministic fallback path.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
