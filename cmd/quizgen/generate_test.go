package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationContext_NoDeadlineByDefault(t *testing.T) {
	ctx, cancel := generationContext(context.Background(), 0)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok, "a run with retries and fallbacks must not inherit the per-call timeout")

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestGenerationContext_ExplicitDeadline(t *testing.T) {
	ctx, cancel := generationContext(context.Background(), time.Minute)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestGenerateCmd_TimeoutFlagDefaultsToZero(t *testing.T) {
	flag := generateCmd.Flags().Lookup("timeout")
	require.NotNil(t, flag)
	assert.Equal(t, "0s", flag.DefValue)
}
