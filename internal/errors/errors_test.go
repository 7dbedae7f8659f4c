package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrLinkInactive))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("lookup: %w", ErrLinkNotFound)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestDomainErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("approve: %w", ErrUpstream)
	assert.True(t, errors.Is(wrapped, ErrUpstream))
	assert.False(t, errors.Is(wrapped, ErrLinkInactive))
}
