package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(filepath.Join(t.TempDir(), "run"), zap.NewNop())
	require.NoError(t, err)
	return s
}

func record(phase, result, errText string) *PhaseRecord {
	return &PhaseRecord{
		Phase:     phase,
		Timestamp: time.Now().UTC(),
		Result:    result,
		Error:     errText,
	}
}

func TestNewFSStoreInitializesRunDirIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "run")

	first, err := NewFSStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.DirExists(t, dir)
	require.NoError(t, first.Close())

	// Re-opening an existing run directory must not fail.
	second, err := NewFSStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestPersistPhaseWritesRecordJSON(t *testing.T) {
	s := newTestStore(t)

	ts := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	locator, err := s.PersistPhase(context.Background(), &PhaseRecord{
		Phase:     "research",
		Timestamp: ts,
		Result:    "findings",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.RunDir(), locator))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "research", got["phase"])
	assert.Equal(t, "findings", got["result"])
	assert.Equal(t, "2026-08-27T10:30:00Z", got["timestamp"])
	assert.NotContains(t, got, "error")
}

func TestPersistPhaseErrorRecordOmitsResult(t *testing.T) {
	s := newTestStore(t)

	locator, err := s.PersistPhase(context.Background(), record("implement", "", "worker exploded"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.RunDir(), locator))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "worker exploded", got["error"])
	assert.Equal(t, "", got["result"])
}

func TestPersistPhaseRejectsInvalidRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.PersistPhase(ctx, record("", "r", ""))
	assert.ErrorIs(t, err, ErrMissingPhase)

	_, err = s.PersistPhase(ctx, record("plan", "r", "e"))
	assert.ErrorIs(t, err, ErrResultAndError)

	_, err = s.PersistPhase(ctx, &PhaseRecord{Phase: "plan", Result: "r"})
	assert.ErrorIs(t, err, ErrZeroTimestamp)
}

func TestLocatorsAreUniqueAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var locators []string
	for _, phase := range []string{"research", "plan", "implement", "correct"} {
		loc, err := s.PersistPhase(ctx, record(phase, "out", ""))
		require.NoError(t, err)
		locators = append(locators, loc)
	}

	// Re-persisting a logical phase yields a new locator, never an overwrite.
	again, err := s.PersistPhase(ctx, record("research", "out2", ""))
	require.NoError(t, err)
	locators = append(locators, again)

	seen := make(map[string]bool)
	for _, loc := range locators {
		assert.False(t, seen[loc], "duplicate locator %s", loc)
		seen[loc] = true
	}

	// Lexicographic order of locators is execution order.
	assert.True(t, sort.StringsAreSorted(locators))

	entries, err := os.ReadDir(s.RunDir())
	require.NoError(t, err)
	assert.Len(t, entries, len(locators))
}

func TestPersistSummaryIsOrderedAfterPhases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	phaseLoc, err := s.PersistPhase(ctx, record("research", "out", ""))
	require.NoError(t, err)

	summaryLoc, err := s.PersistSummary(ctx, map[string]string{"research": "out"})
	require.NoError(t, err)

	assert.Greater(t, summaryLoc, phaseLoc)

	data, err := os.ReadFile(filepath.Join(s.RunDir(), summaryLoc))
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]string{"research": "out"}, got)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.PersistPhase(context.Background(), record("plan", "r", ""))
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.PersistSummary(context.Background(), map[string]string{})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestNewRunIDUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}
