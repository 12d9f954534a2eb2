package history

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/store"
)

func result(i int) model.SessionResult {
	return model.SessionResult{
		ID:         fmt.Sprintf("r%d", i),
		Timestamp:  time.Date(2026, 5, 1, 0, 0, i, 0, time.UTC),
		Level:      "medium",
		WPM:        100 + i,
		Accuracy:   95,
		Errors:     2,
		DurationMs: 40000,
		TotalChars: 60,
	}
}

func ids(results []model.SessionResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

// rawKV holds pre-encoded values, including ones the store would never write.
type rawKV map[string][]byte

func (kv rawKV) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := kv[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (kv rawKV) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	kv[key] = raw
	return nil
}

func TestAppendBoundsHistory(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := New(kv, WithMaxItems(3))

	for i := 0; i < 5; i++ {
		s.Append(ctx, result(i))
	}
	assert.Equal(t, []string{"r4", "r3", "r2"}, ids(s.History()))

	reloaded := New(kv, WithMaxItems(3))
	got := reloaded.LoadHistory(ctx)
	assert.Equal(t, []string{"r4", "r3", "r2"}, ids(got))
}

func TestLoadHistoryTruncatesToBound(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	big := New(kv, WithMaxItems(10))
	for i := 0; i < 6; i++ {
		big.Append(ctx, result(i))
	}
	small := New(kv, WithMaxItems(2))
	assert.Equal(t, []string{"r5", "r4"}, ids(small.LoadHistory(ctx)))
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())
	s.Load(ctx)

	assert.Empty(t, s.History())
	best := s.Best()
	assert.Equal(t, model.DefaultBest(), best)
	assert.False(t, best.HasDuration())
	assert.False(t, best.HasErrors())
	assert.Equal(t, DefaultMaxItems, s.MaxItems())
}

func TestLoadDefaultsWhenCorrupt(t *testing.T) {
	ctx := context.Background()
	keys := DefaultKeys("t_")
	kv := rawKV{
		keys.History: []byte("[{broken"),
		keys.Best:    []byte(`"nope"`),
		keys.Level:   []byte(`{}`),
	}

	s := New(kv, WithKeys(keys))
	assert.Empty(t, s.LoadHistory(ctx))
	assert.Equal(t, model.DefaultBest(), s.LoadBest(ctx))
	_, ok := s.LoadLevel(ctx)
	assert.False(t, ok)
}

func TestLoadBestSanitizesAndFillsMissingFields(t *testing.T) {
	ctx := context.Background()
	keys := DefaultKeys("t_")
	kv := rawKV{keys.Best: []byte(`{"time":0,"speed":210}`)}

	best := New(kv, WithKeys(keys)).LoadBest(ctx)
	assert.Equal(t, model.NoDuration, best.MinDurationMs)
	assert.Equal(t, 210, best.MaxSpeed)
	assert.Equal(t, model.NoErrors, best.MinErrors)
}

func TestUpdateBestIndependentMetrics(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := New(kv)

	first := model.SessionResult{WPM: 100, Errors: 3, DurationMs: 50000}
	require.True(t, s.UpdateBest(ctx, first))
	assert.Equal(t, model.BestStats{MinDurationMs: 50000, MaxSpeed: 100, MinErrors: 3}, s.Best())

	// Faster but sloppier: only speed and duration improve.
	require.True(t, s.UpdateBest(ctx, model.SessionResult{WPM: 150, Errors: 5, DurationMs: 40000}))
	assert.Equal(t, model.BestStats{MinDurationMs: 40000, MaxSpeed: 150, MinErrors: 3}, s.Best())

	// Zero errors is a real record.
	require.True(t, s.UpdateBest(ctx, model.SessionResult{WPM: 10, Errors: 0, DurationMs: 90000}))
	assert.Equal(t, int64(0), s.Best().MinErrors)

	var persisted model.BestStats
	found, err := kv.Get(ctx, DefaultKeys("typing_trainer_").Best, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, s.Best(), persisted)
}

func TestUpdateBestTiesDoNotWrite(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := New(kv)
	res := model.SessionResult{WPM: 100, Errors: 3, DurationMs: 50000}
	require.True(t, s.UpdateBest(ctx, res))

	kv.FailWrites = true
	assert.False(t, s.UpdateBest(ctx, res))
	assert.False(t, s.UpdateBest(ctx, model.SessionResult{WPM: 90, Errors: 4, DurationMs: 0}))
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.FailWrites = true
	s := New(kv, WithMaxItems(2))

	changed := s.Record(ctx, result(1))
	assert.True(t, changed)
	assert.Equal(t, []string{"r1"}, ids(s.History()))
	assert.Equal(t, 101, s.Best().MaxSpeed)

	// A later successful write stores the full current state.
	kv.FailWrites = false
	s.Append(ctx, result(2))
	fresh := New(kv, WithMaxItems(2))
	assert.Equal(t, []string{"r2", "r1"}, ids(fresh.LoadHistory(ctx)))
}

func TestResetBest(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := New(kv)
	s.Record(ctx, result(1))
	s.ResetBest(ctx)

	assert.Equal(t, model.DefaultBest(), s.Best())
	assert.Equal(t, model.DefaultBest(), New(kv).LoadBest(ctx))
	assert.Len(t, s.History(), 1)
}

func TestLevelRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())
	_, ok := s.LoadLevel(ctx)
	assert.False(t, ok)

	s.SaveLevel(ctx, "expert")
	level, ok := s.LoadLevel(ctx)
	assert.True(t, ok)
	assert.Equal(t, "expert", level)
}

func TestHistoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemory())
	s.Append(ctx, result(1))
	h := s.History()
	h[0].ID = "mutated"
	assert.Equal(t, "r1", s.History()[0].ID)
}
