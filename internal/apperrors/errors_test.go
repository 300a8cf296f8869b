package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("%w: line 2", ErrPartialWrite)
	err := NewAppError(500, "failed to execute line batch", cause)

	assert.True(t, errors.Is(err, ErrPartialWrite))
	assert.Equal(t, "failed to execute line batch: journal entry partially written: line 2", err.Error())
}

func TestAppError_NilCause(t *testing.T) {
	err := NewAppError(500, "failed to begin transaction", nil)
	assert.Equal(t, "failed to begin transaction", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
