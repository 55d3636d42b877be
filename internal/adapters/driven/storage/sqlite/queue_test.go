package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

func TestJobQueue_EnqueueDequeueAck(t *testing.T) {
	store := newTestStore(t)
	queue := store.JobQueue()
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().InsertDocument(ctx, newTestDocument("doc-1", "user-1")))

	job, err := queue.Enqueue(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", job.DocumentID)
	assert.Equal(t, 0, job.Attempts)

	got, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, 1, got.Attempts)

	require.NoError(t, queue.Ack(ctx, got))

	// Nothing left to claim.
	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = queue.Dequeue(shortCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJobQueue_DequeueOrdersByEnqueueTime(t *testing.T) {
	store := newTestStore(t)
	queue := store.JobQueue()
	ctx := context.Background()

	docs := store.DocumentStore()
	require.NoError(t, docs.InsertDocument(ctx, newTestDocument("doc-1", "user-1")))
	require.NoError(t, docs.InsertDocument(ctx, newTestDocument("doc-2", "user-1")))

	first, err := queue.Enqueue(ctx, "doc-1")
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, "doc-2")
	require.NoError(t, err)

	got, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestJobQueue_NackRequeuesUntilMaxAttempts(t *testing.T) {
	store := newTestStore(t)
	queue := store.JobQueue()
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().InsertDocument(ctx, newTestDocument("doc-1", "user-1")))
	_, err := queue.Enqueue(ctx, "doc-1")
	require.NoError(t, err)

	var last *domain.IngestionJob
	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		last, err = queue.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, attempt, last.Attempts)
		require.NoError(t, queue.Nack(ctx, last, "transient failure"))
	}

	// All attempts spent: the job is dead and no longer claimable.
	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = queue.Dequeue(shortCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var status, lastError string
	row := store.db.QueryRow("SELECT status, last_error FROM ingestion_jobs WHERE id = ?", last.ID)
	require.NoError(t, row.Scan(&status, &lastError))
	assert.Equal(t, "dead", status)
	assert.Equal(t, "transient failure", lastError)
}

func TestJobQueue_DequeueRespectsContext(t *testing.T) {
	store := newTestStore(t)
	queue := store.JobQueue()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := queue.Dequeue(ctx)
	assert.Error(t, err)
}

func TestStore_RequeueStuckJobs(t *testing.T) {
	store := newTestStore(t)
	queue := store.JobQueue()
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().InsertDocument(ctx, newTestDocument("doc-1", "user-1")))
	_, err := queue.Enqueue(ctx, "doc-1")
	require.NoError(t, err)

	// Claim but never ack, simulating a worker crash.
	claimed, err := queue.Dequeue(ctx)
	require.NoError(t, err)

	n, err := store.RequeueStuckJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, claimed.ID, got.ID)
	assert.Equal(t, 2, got.Attempts)
}
