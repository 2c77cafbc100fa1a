package llmport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(ProviderError, "chat request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "ProviderError")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFailureKindStrings(t *testing.T) {
	assert.Equal(t, "ProviderError", ProviderError.String())
	assert.Equal(t, "ResponseParseError", ResponseParseError.String())
	assert.Equal(t, "MissingChoices", MissingChoices.String())
}
