package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *InsightLog {
	t.Helper()
	l, err := NewInsightLog(filepath.Join(t.TempDir(), "insights.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	ev := &Event{
		UserID:   "user-1",
		From:     "2024-06-01",
		To:       "2024-06-30",
		Currency: "USD",
		Source:   "gemini",
	}
	require.NoError(t, l.Record(ctx, ev))
	assert.NotEmpty(t, ev.ID, "Record assigns the ID")
	assert.False(t, ev.CreatedAt.IsZero(), "Record assigns the timestamp")

	events, err := l.Recent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
	assert.Equal(t, "gemini", events[0].Source)
	assert.Equal(t, "USD", events[0].Currency)
	assert.WithinDuration(t, ev.CreatedAt, events[0].CreatedAt, time.Second)
}

func TestRecentOrderAndLimit(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(ctx, &Event{
			UserID: "user-1",
			From:   "2024-06-01",
			To:     "2024-06-30",
			Source: fmt.Sprintf("source-%d", i),
		}))
		time.Sleep(2 * time.Millisecond)
	}

	events, err := l.Recent(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "source-4", events[0].Source, "newest first")
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
	}
}

func TestRecentScopedToUser(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, &Event{UserID: "user-1", From: "a", To: "b", Source: "rules"}))
	require.NoError(t, l.Record(ctx, &Event{UserID: "user-2", From: "a", To: "b", Source: "cache", Cached: true}))

	events, err := l.Recent(ctx, "user-2", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user-2", events[0].UserID)
	assert.True(t, events[0].Cached)
}

func TestRecentEmpty(t *testing.T) {
	l := newTestLog(t)

	events, err := l.Recent(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
