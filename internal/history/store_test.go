package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/params"
	"github.com/searchforge/csbench/internal/runner"
	"github.com/searchforge/csbench/internal/sweep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport() *sweep.Report {
	started := time.Now().Add(-time.Minute)
	return &sweep.Report{
		Started:   started,
		Finished:  time.Now(),
		Phases:    sweep.PhaseSetBoth,
		Languages: []params.Language{params.LangRuby, params.LangJava},
		Outcomes: []sweep.Outcome{
			{Language: params.LangRuby, Phase: runner.PhaseTrain, Duration: 90 * time.Second},
			{Language: params.LangRuby, Phase: runner.PhaseEvaluate, Duration: 30 * time.Second},
			{Language: params.LangJava, Phase: runner.PhaseTrain, Duration: 2 * time.Minute,
				Err: errors.ExecutionError("train exited with status 1", nil)},
			{Language: params.LangJava, Phase: runner.PhaseEvaluate, Duration: 25 * time.Second},
		},
	}
}

func TestStore_SaveReportRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// When: saving a report with one failed tuple
	sweepID, err := store.SaveReport(ctx, sampleReport())
	require.NoError(t, err)
	assert.Positive(t, sweepID)

	// Then: the sweep summary reflects attempted and failed counts
	sweeps, err := store.RecentSweeps(ctx, 5)
	require.NoError(t, err)
	require.Len(t, sweeps, 1)
	assert.Equal(t, "traineval", sweeps[0].Phases)
	assert.Equal(t, 4, sweeps[0].Attempted)
	assert.Equal(t, 1, sweeps[0].Failed)

	// And: outcomes come back in execution order
	outcomes, err := store.Outcomes(ctx, sweepID)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	assert.Equal(t, "ruby", outcomes[0].Language)
	assert.Equal(t, "train", outcomes[0].Phase)
	assert.True(t, outcomes[0].OK)
	assert.Equal(t, int64(90_000), outcomes[0].DurationMS)

	assert.Equal(t, "java", outcomes[2].Language)
	assert.False(t, outcomes[2].OK)
	assert.Contains(t, outcomes[2].Error, "train exited with status 1")
}

func TestStore_SkippedIterationsRecorded(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	report := sampleReport()
	report.Skipped = []sweep.Outcome{
		{Language: params.Language("rust"), Err: errors.New(errors.ErrCodeUnknownLanguage, "unknown language: rust", nil)},
	}

	sweepID, err := store.SaveReport(ctx, report)
	require.NoError(t, err)

	outcomes, err := store.Outcomes(ctx, sweepID)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)
	assert.Equal(t, "skipped", outcomes[4].Phase)
	assert.Equal(t, "rust", outcomes[4].Language)
	assert.False(t, outcomes[4].OK)
}

func TestStore_RecentSweepsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.SaveReport(ctx, sampleReport())
	require.NoError(t, err)
	second, err := store.SaveReport(ctx, sampleReport())
	require.NoError(t, err)

	sweeps, err := store.RecentSweeps(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sweeps, 2)
	assert.Equal(t, second, sweeps[0].ID)
	assert.Equal(t, first, sweeps[1].ID)
}

func TestStore_RecentSweepsHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.SaveReport(ctx, sampleReport())
		require.NoError(t, err)
	}

	sweeps, err := store.RecentSweeps(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, sweeps, 2)
}
