package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sericalabs/serica/core"
	"github.com/sericalabs/serica/storage"
)

func TestPutGetJob(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	_, err := repo.GetJob(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, repo.PutJob(ctx, &core.IngestionJob{
		DocumentID: 42,
		Status:     core.JobStatusRunning,
	}))

	got, err := repo.GetJob(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusRunning, got.Status)

	// Returned record is a copy; mutating it must not affect the store.
	got.Status = core.JobStatusFailed
	again, err := repo.GetJob(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusRunning, again.Status)
}

func TestListJobs(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	for _, id := range []int64{9, 1, 4} {
		require.NoError(t, repo.PutJob(ctx, &core.IngestionJob{DocumentID: id}))
	}

	jobs, err := repo.ListJobs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, int64(1), jobs[0].DocumentID)
	assert.Equal(t, int64(4), jobs[1].DocumentID)
	assert.Equal(t, int64(9), jobs[2].DocumentID)

	limited, err := repo.ListJobs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, int64(1), limited[0].DocumentID)
}
