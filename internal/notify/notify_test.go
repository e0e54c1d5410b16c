package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncSummaryPayload(t *testing.T) {
	summary := SyncSummary{
		RunID:      "run-1",
		Source:     "all",
		Discovered: 5,
		Added:      2,
		Warnings:   1,
		DurationMS: 1234,
		FinishedAt: time.Unix(1700000000, 0).UTC(),
	}

	payload, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "all", decoded["source"])
	assert.Equal(t, float64(2), decoded["added"])
	assert.Equal(t, float64(1234), decoded["duration_ms"])
}

func TestConnectFailsFast(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", "")
	require.Error(t, err)
}
