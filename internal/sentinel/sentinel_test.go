package sentinel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesThroughWrapping(t *testing.T) {
	t.Parallel()

	const sentinelErr = Error("something went wrong")

	wrapped := fmt.Errorf("outer context: %w", sentinelErr)
	assert.True(t, errors.Is(wrapped, sentinelErr))

	doubleWrapped := fmt.Errorf("more context: %w", wrapped)
	assert.True(t, errors.Is(doubleWrapped, sentinelErr))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	const sentinelErr = Error("the message")
	assert.Equal(t, "the message", sentinelErr.Error())
}

func TestDistinctSentinelsDoNotMatch(t *testing.T) {
	t.Parallel()

	const a = Error("a")
	const b = Error("b")
	assert.False(t, errors.Is(a, b))
}
