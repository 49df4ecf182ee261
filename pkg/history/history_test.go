package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrotools/summaflow/pkg/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, suffix := range []string{"trial1", "trial2", "trial3"} {
		_, err := s.Append(ctx, Record{
			Suffix:      suffix,
			FileManager: "/data/settings/fileManager.txt",
			Mode:        sim.ModeLocal,
			Status:      sim.StatusSuccess,
			Duration:    time.Duration(i+1) * time.Second,
			OutputPath:  "/data/output/reynolds_" + suffix + "_timestep.nc",
			StartedAt:   started.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Newest first.
	assert.Equal(t, "trial3", records[0].Suffix)
	assert.Equal(t, "trial1", records[2].Suffix)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetRoundTripsFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.Append(ctx, Record{
		Suffix:      "albedoMax=0.7",
		Ensemble:    "albedo-sweep",
		FileManager: "/work/albedoMax=0.7/settings/fileManager.txt",
		Mode:        sim.ModeDocker,
		Status:      sim.StatusFailed,
		Duration:    90 * time.Second,
		Error:       "FATAL ERROR: in vegPhenlgy",
		StartedAt:   started,
	})
	require.NoError(t, err)

	r, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "albedoMax=0.7", r.Suffix)
	assert.Equal(t, "albedo-sweep", r.Ensemble)
	assert.Equal(t, sim.ModeDocker, r.Mode)
	assert.Equal(t, sim.StatusFailed, r.Status)
	assert.Equal(t, 90*time.Second, r.Duration)
	assert.Equal(t, "FATAL ERROR: in vegPhenlgy", r.Error)
	assert.True(t, r.StartedAt.Equal(started))

	_, err = s.Get(ctx, id+100)
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Append(context.Background(), Record{
		Suffix: "first", FileManager: "fm.txt",
		Mode: sim.ModeLocal, Status: sim.StatusSuccess,
		StartedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening must keep existing rows.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	records, err := s2.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
