package errkind

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(ContainerStartup, "start postgres", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "ContainerStartup")
	assert.Contains(t, err.Error(), "start postgres")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAndIs(t *testing.T) {
	cause := errors.New("lock wait timeout")
	wrapped := fmt.Errorf("extract tables: %w", New(TransientDB, "query", cause))

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, TransientDB, got.Kind)

	assert.True(t, Is(wrapped, TransientDB))
	assert.False(t, Is(wrapped, PermanentDB))
}

func TestAsOnPlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}
