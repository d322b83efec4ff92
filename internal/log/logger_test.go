// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestRequestIDFromContextMissing(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "", RequestIDFromContext(nil)) //nolint:staticcheck // nil context tolerated by design
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("recorder")
	// Child loggers must be independently usable without reconfiguration.
	assert.NotPanics(t, func() {
		logger.Debug().Msg("component logger works")
	})
}
