// Package writeback applies remote writes after the local state already
// changed. Jobs run in submission order on a single worker with bounded
// retries; jobs that exhaust their retries land in a dead-letter list.
package writeback

import (
	"context"
	"errors"
	"sync"
	"time"

	"mindshelf/internal/platform/logger"
	"mindshelf/internal/platform/retry"
)

var ErrQueueClosed = errors.New("writeback queue closed")

type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Failure struct {
	Name     string
	Err      error
	FailedAt time.Time
}

type Options struct {
	MaxAttempts int
	RetryDelay  time.Duration
	QueueSize   int
}

type Queue struct {
	log  *logger.Logger
	opts Options
	jobs chan Job

	mu     sync.Mutex
	failed []Failure
	closed bool

	pending sync.WaitGroup
	done    chan struct{}
}

func NewQueue(log *logger.Logger, opts Options) *Queue {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 64
	}
	q := &Queue{
		log:  log.With("service", "WritebackQueue"),
		opts: opts,
		jobs: make(chan Job, opts.QueueSize),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Enqueue schedules job; it blocks only when the buffer is full.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.pending.Add(1)
	q.mu.Unlock()
	q.jobs <- job
	return nil
}

// Flush waits until every job enqueued so far has finished or failed.
func (q *Queue) Flush() {
	q.pending.Wait()
}

// Close drains outstanding jobs and stops the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.pending.Wait()
	close(q.jobs)
	<-q.done
}

// Failed returns jobs that exhausted their retries.
func (q *Queue) Failed() []Failure {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Failure, len(q.failed))
	copy(out, q.failed)
	return out
}

func (q *Queue) loop() {
	defer close(q.done)
	for job := range q.jobs {
		err := retry.Do(context.Background(), q.opts.MaxAttempts, q.opts.RetryDelay, job.Run)
		if err != nil {
			q.log.Error("writeback job dropped", "job", job.Name, "error", err)
			q.mu.Lock()
			q.failed = append(q.failed, Failure{Name: job.Name, Err: err, FailedAt: time.Now().UTC()})
			q.mu.Unlock()
		}
		q.pending.Done()
	}
}
