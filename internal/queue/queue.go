// Package queue runs proof-generation jobs on a bounded worker pool.
// Backpressure comes from the buffered queue plus the fixed worker count:
// when every worker is busy, enqueued jobs wait.
package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Job struct {
	OrderID string
	Version int
	Notes   string
}

// Handler executes one job. A nil return marks the job completed.
type Handler func(job Job) error

type Options struct {
	// Concurrency is the worker count. Defaults to 2.
	Concurrency int
	// MaxAttempts bounds retries per job. Defaults to 3.
	MaxAttempts int
	// Backoff is the initial delay before a retry; it doubles per attempt.
	// Defaults to 2s.
	Backoff time.Duration
	// BufferSize is the queue depth before Enqueue blocks. Defaults to 100.
	BufferSize int

	// OnCompleted and OnFailed are optional notification hooks, called after
	// a job finishes or exhausts its attempts.
	OnCompleted func(job Job)
	OnFailed    func(job Job, err error)
}

type Queue struct {
	jobs    chan Job
	done    chan struct{}
	handler Handler
	opts    Options
	wg      sync.WaitGroup

	// mu guards the jobs channel lifecycle: Enqueue sends under the read
	// lock, Stop closes under the write lock.
	mu       sync.RWMutex
	stopOnce sync.Once
}

func New(handler Handler, opts Options) *Queue {
	if opts.Concurrency < 1 {
		opts.Concurrency = 2
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 2 * time.Second
	}
	if opts.BufferSize < 1 {
		opts.BufferSize = 100
	}

	return &Queue{
		jobs:    make(chan Job, opts.BufferSize),
		done:    make(chan struct{}),
		handler: handler,
		opts:    opts,
	}
}

// Start launches the worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.opts.Concurrency; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	logrus.WithField("concurrency", q.opts.Concurrency).Info("proof workers started")
}

// Enqueue appends a job. Jobs for the same order/version are not deduplicated.
// A call blocked on a full buffer returns an error instead of panicking when
// the queue stops underneath it.
func (q *Queue) Enqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	select {
	case <-q.done:
		return fmt.Errorf("queue is stopped")
	default:
	}

	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return fmt.Errorf("queue is stopped")
	}
}

// Stop drains the queue: already-accepted jobs still run, then workers exit.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.done)

		// The write lock waits out in-flight Enqueue calls, so the
		// channel is never closed under a pending send.
		q.mu.Lock()
		close(q.jobs)
		q.mu.Unlock()

		q.wg.Wait()
	})
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		q.process(job)
	}
}

func (q *Queue) process(job Job) {
	log := logrus.WithFields(logrus.Fields{"order_id": job.OrderID, "version": job.Version})

	var err error
	backoff := q.opts.Backoff
	for attempt := 1; attempt <= q.opts.MaxAttempts; attempt++ {
		err = q.handler(job)
		if err == nil {
			log.Info("proof job completed")
			if q.opts.OnCompleted != nil {
				q.opts.OnCompleted(job)
			}
			return
		}

		log.WithError(err).WithField("attempt", attempt).Warn("proof job attempt failed")
		if attempt < q.opts.MaxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	log.WithError(err).Error("proof job failed")
	if q.opts.OnFailed != nil {
		q.opts.OnFailed(job, err)
	}
}
