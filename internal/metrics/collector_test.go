package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	c := NewCollector()

	c.Record(OpAnalyze, 100*time.Millisecond, nil)
	c.Record(OpAnalyze, 300*time.Millisecond, errors.New("boom"))
	c.Record(OpAnalyze, 200*time.Millisecond, nil)

	snap := c.Snapshot()
	op, ok := snap.Operations[OpAnalyze]
	require.True(t, ok)
	assert.Equal(t, int64(3), op.Count)
	assert.Equal(t, int64(1), op.Failures)
	assert.Equal(t, int64(100), op.MinTimeMs)
	assert.Equal(t, int64(300), op.MaxTimeMs)
	assert.Equal(t, int64(600), op.TotalTimeMs)
	assert.InDelta(t, 200.0, op.AvgTimeMs, 0.001)
}

func TestTimed(t *testing.T) {
	c := NewCollector()

	err := c.Timed(OpStorePut, func() error { return nil })
	assert.NoError(t, err)

	wantErr := errors.New("put failed")
	err = c.Timed(OpStorePut, func() error { return wantErr })
	assert.Equal(t, wantErr, err)

	op := c.Snapshot().Operations[OpStorePut]
	assert.Equal(t, int64(2), op.Count)
	assert.Equal(t, int64(1), op.Failures)
}

func TestNilCollectorSafe(t *testing.T) {
	var c *Collector

	c.Record(OpIdentify, time.Second, nil)
	err := c.Timed(OpIdentify, func() error { return nil })
	assert.NoError(t, err)
}

func TestSnapshotEmpty(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}
