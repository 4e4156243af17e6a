package media

import (
	"context"
	"sync"
	"time"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/logger"
)

// Job asks for one thumbnail derivation after a post has been committed.
type Job struct {
	PostId    domain.PostId
	MediaPath string
	MediaType domain.MediaType
}

// ThumbnailStore records a successful derivation on the owning post.
type ThumbnailStore interface {
	SetPostThumbnail(ctx context.Context, id domain.PostId, thumbnailPath string) error
}

// Worker runs thumbnail derivation off the request path. Jobs are handed over
// post-commit through a bounded queue; when the queue is full the job is
// dropped and counted, since derivation is best effort.
type Worker struct {
	deriver *Deriver
	store   ThumbnailStore
	jobs    chan Job
	timeout time.Duration // bound on a single derivation, 0 means unbounded

	startOnce sync.Once
	wg        sync.WaitGroup
}

func NewWorker(deriver *Deriver, store ThumbnailStore, queueSize int, timeout time.Duration) *Worker {
	return &Worker{
		deriver: deriver,
		store:   store,
		jobs:    make(chan Job, queueSize),
		timeout: timeout,
	}
}

// Enqueue hands a job to the worker without blocking the caller.
// Returns false if the queue is full and the job was dropped.
func (w *Worker) Enqueue(job Job) bool {
	select {
	case w.jobs <- job:
		derivationQueueDepth.Set(float64(len(w.jobs)))
		return true
	default:
		derivationQueueDropped.Inc()
		derivationsTotal.WithLabelValues(string(job.MediaType), outcomeDropped).Inc()
		logger.Log.Warn("derivation queue full, dropping job",
			"component", "thumbnail_worker",
			"post_id", job.PostId)
		return false
	}
}

// Start launches the processing goroutine. The worker drains queued jobs
// after ctx is cancelled, then exits; Wait blocks until that happens.
func (w *Worker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case job := <-w.jobs:
					w.process(ctx, job)
					derivationQueueDepth.Set(float64(len(w.jobs)))
				case <-ctx.Done():
					w.drain()
					return
				}
			}
		}()
	})
}

// Wait blocks until the worker goroutine has exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(context.Background(), job)
		default:
			derivationQueueDepth.Set(0)
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	thumbPath, err := w.deriver.Derive(ctx, job.MediaPath, job.MediaType)
	if err != nil {
		// Best-effort enhancement: the post stays without a thumbnail.
		logger.Log.Warn("thumbnail derivation failed",
			"component", "thumbnail_worker",
			"post_id", job.PostId,
			"media_type", job.MediaType,
			"error", err)
		return
	}

	if err := w.store.SetPostThumbnail(ctx, job.PostId, thumbPath); err != nil {
		logger.Log.Error("failed to record thumbnail on post",
			"component", "thumbnail_worker",
			"post_id", job.PostId,
			"error", err)
	}
}
