package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background())

	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, TraceIDLength*2, "trace ID should be a 32-character hex string")
	assert.Regexp(t, "^[0-9a-f]+$", traceID)
}

func TestSetTraceIDGeneratesUniqueIDs(t *testing.T) {
	first := GetTraceID(SetTraceID(context.Background()))
	second := GetTraceID(SetTraceID(context.Background()))

	assert.NotEqual(t, first, second)
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}
