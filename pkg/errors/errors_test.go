package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	cloned := Clone(ErrNoStudent, "no student 2016001")
	wrapped := fmt.Errorf("aggregate: %w", cloned)

	assert.True(t, Is(wrapped, ErrNoStudent))
	assert.False(t, Is(wrapped, ErrNoClass))
	assert.False(t, Is(nil, ErrNoStudent))
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestCloneKeepsOriginalUntouched(t *testing.T) {
	clone := Clone(ErrNoClass, "no class CS101")
	assert.Equal(t, "no class CS101", clone.Message)
	assert.Equal(t, "class section not found", ErrNoClass.Message)
	assert.Nil(t, Clone(nil, "x"))
}
