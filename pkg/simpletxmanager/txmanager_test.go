package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure_WalksWrapChain(t *testing.T) {
	errExec := errors.New("storage: exec query error")
	errInternal := errors.New("usecase: internal error")

	wrapped := fmt.Errorf("%w: failed to get appointments: %w", errInternal,
		fmt.Errorf("%w: GetWithFilter - execute query: %w", errExec, &pq.Error{Code: "40001"}))

	assert.True(t, isSerializationFailure(wrapped))
	assert.True(t, isSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("boom")))
	assert.False(t, isSerializationFailure(nil))
}
