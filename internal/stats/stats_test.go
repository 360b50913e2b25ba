package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatsSnapshotPercentiles(t *testing.T) {
	stats := NewRunStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ms, "complete")
	}

	snap := stats.Snapshot()
	require.Equal(t, 5, snap.Count)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.InDelta(t, 300, snap.AvgMs, 1e-9)
	assert.InDelta(t, 300, snap.P50Ms, 1e-9)
	assert.InDelta(t, 480, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496, snap.P99Ms, 1e-9)
	assert.Equal(t, 5, snap.Outcomes["complete"])
}

func TestRunStatsPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stats := NewRunStats(10 * time.Minute)
	stats.now = func() time.Time { return now }
	stats.Record(100, "partial")

	now = now.Add(11 * time.Minute)
	assert.Zero(t, stats.Snapshot().Count, "expired sample should be pruned")

	stats.Record(200, "no_sections")
	snap := stats.Snapshot()
	require.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(200), snap.MinMs)
	assert.Equal(t, int64(200), snap.MaxMs)
	assert.Zero(t, snap.Outcomes["partial"])
	assert.Equal(t, 1, snap.Outcomes["no_sections"])
}

func TestRunStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewRunStats(time.Hour)
	stats.Record(-10, "complete")
	snap := stats.Snapshot()
	require.Equal(t, 1, snap.Count)
	assert.Zero(t, snap.MinMs)
	assert.Zero(t, snap.MaxMs)
}

func TestRunStatsEmptySnapshot(t *testing.T) {
	snap := NewRunStats(0).Snapshot()
	assert.Zero(t, snap.Count)
	assert.NotNil(t, snap.Outcomes)
}
