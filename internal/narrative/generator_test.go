package narrative

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_SelectsImplementation(t *testing.T) {
	logger := zap.NewNop()

	gen := New(Config{}, logger)
	assert.IsType(t, Disabled{}, gen)

	gen = New(Config{APIKey: "sk-test"}, logger)
	assert.IsType(t, &OpenAIGenerator{}, gen)
}

func TestDisabled_Generate(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "system", "prompt")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewOpenAIGenerator_Defaults(t *testing.T) {
	gen := NewOpenAIGenerator(Config{APIKey: "sk-test"}, zap.NewNop())

	assert.Equal(t, "gpt-4o-mini", gen.model)
	assert.Equal(t, 15*time.Second, gen.timeout)
}
