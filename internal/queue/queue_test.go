package queue_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofgen-backend/internal/queue"
)

func TestQueue_ProcessesAllJobs(t *testing.T) {
	var processed int32
	q := queue.New(func(job queue.Job) error {
		atomic.AddInt32(&processed, 1)
		return nil
	}, queue.Options{Concurrency: 2, Backoff: time.Millisecond})
	q.Start()

	for i := 1; i <= 5; i++ {
		require.NoError(t, q.Enqueue(queue.Job{OrderID: fmt.Sprintf("order-%d", i), Version: 1}))
	}
	q.Stop()

	assert.Equal(t, int32(5), atomic.LoadInt32(&processed))
}

func TestQueue_BoundedConcurrency(t *testing.T) {
	var current, peak int32
	q := queue.New(func(job queue.Job) error {
		n := atomic.AddInt32(&current, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return nil
	}, queue.Options{Concurrency: 2, Backoff: time.Millisecond})
	q.Start()

	for i := 0; i < 6; i++ {
		require.NoError(t, q.Enqueue(queue.Job{OrderID: "order", Version: i + 1}))
	}
	q.Stop()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(0))
}

func TestQueue_RetriesUntilSuccess(t *testing.T) {
	var attempts int32
	var completed []queue.Job
	var mu sync.Mutex

	q := queue.New(func(job queue.Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return assert.AnError
		}
		return nil
	}, queue.Options{
		Concurrency: 1,
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		OnCompleted: func(job queue.Job) {
			mu.Lock()
			completed = append(completed, job)
			mu.Unlock()
		},
	})
	q.Start()

	require.NoError(t, q.Enqueue(queue.Job{OrderID: "order-1", Version: 1}))
	q.Stop()

	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	require.Len(t, completed, 1)
	assert.Equal(t, "order-1", completed[0].OrderID)
}

func TestQueue_FailsAfterMaxAttempts(t *testing.T) {
	var attempts int32
	var failed []queue.Job
	var failedErr error
	var mu sync.Mutex

	q := queue.New(func(job queue.Job) error {
		atomic.AddInt32(&attempts, 1)
		return assert.AnError
	}, queue.Options{
		Concurrency: 1,
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		OnFailed: func(job queue.Job, err error) {
			mu.Lock()
			failed = append(failed, job)
			failedErr = err
			mu.Unlock()
		},
	})
	q.Start()

	require.NoError(t, q.Enqueue(queue.Job{OrderID: "order-1", Version: 2}))
	q.Stop()

	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Version)
	assert.ErrorIs(t, failedErr, assert.AnError)
}

func TestQueue_StopUnblocksPendingEnqueue(t *testing.T) {
	// Workers never start, so the 1-slot buffer stays full and the second
	// Enqueue blocks on the send.
	q := queue.New(func(job queue.Job) error { return nil }, queue.Options{Concurrency: 1, BufferSize: 1})
	require.NoError(t, q.Enqueue(queue.Job{OrderID: "buffered", Version: 1}))

	blocked := make(chan error, 1)
	go func() {
		blocked <- q.Enqueue(queue.Job{OrderID: "pending", Version: 1})
	}()
	time.Sleep(20 * time.Millisecond)

	q.Stop()

	select {
	case err := <-blocked:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("blocked Enqueue never returned after Stop")
	}
}

func TestQueue_EnqueueAfterStopFails(t *testing.T) {
	q := queue.New(func(job queue.Job) error { return nil }, queue.Options{Concurrency: 1})
	q.Start()
	q.Stop()

	err := q.Enqueue(queue.Job{OrderID: "late", Version: 1})
	assert.Error(t, err)
}
