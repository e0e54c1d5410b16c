package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()

	id, err := j.Record(ctx, Run{
		Mode:       "discover",
		Source:     "badge",
		Discovered: 7,
		Warnings:   1,
		Duration:   1500 * time.Millisecond,
		StartedAt:  time.Unix(1000, 0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = j.Record(ctx, Run{
		Mode:      "sync",
		Source:    "all",
		Added:     2,
		StartedAt: time.Unix(2000, 0),
	})
	require.NoError(t, err)

	runs, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "sync", runs[0].Mode)
	assert.Equal(t, 2, runs[0].Added)
	assert.Equal(t, "discover", runs[1].Mode)
	assert.Equal(t, 7, runs[1].Discovered)
	assert.Equal(t, 1, runs[1].Warnings)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, id, runs[1].ID)
}

func TestRecentLimit(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := j.Record(ctx, Run{Mode: "sync", Source: "all", StartedAt: time.Unix(int64(i), 0)})
		require.NoError(t, err)
	}

	runs, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRecordKeepsExplicitID(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	id, err := j.Record(context.Background(), Run{ID: "fixed", Mode: "sync", Source: "all"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
}
