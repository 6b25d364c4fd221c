package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tweetfi/tweetfi-service/internal/pkg/metrics"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// ErrQueueFull is returned when the worker owning a post has no free slot.
var ErrQueueFull = errors.New("action queue full")

type job struct {
	batchID string
	req     ports.ActionRequest
}

// Dispatcher runs write actions on a fixed set of workers. Actions are sharded
// by post ID so that, for example, a like and a reply on the same post are
// sent in the order they were queued.
type Dispatcher struct {
	workers []chan job
	service ports.ActionService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActionService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled;
// anything still queued at that point is dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue queues one action without blocking.
func (d *Dispatcher) Enqueue(batchID string, req ports.ActionRequest) error {
	idx := d.shardIndex(req.PostID)
	// Counted before the send; the worker may Dec as soon as the job lands.
	depth := metrics.ActionsQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- job{batchID: batchID, req: req}:
		return nil
	default:
		depth.Dec()
		return ErrQueueFull
	}
}

// EnqueueBatch queues reqs in order and stops at the first rejection. It
// returns how many were accepted.
func (d *Dispatcher) EnqueueBatch(batchID string, reqs []ports.ActionRequest) (int, error) {
	for i, req := range reqs {
		if err := d.Enqueue(batchID, req); err != nil {
			return i, err
		}
	}
	return len(reqs), nil
}

func (d *Dispatcher) shardIndex(postID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	depth := metrics.ActionsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			res := d.service.Perform(ctx, j.req)
			if !res.Success {
				d.log.Warn().Err(res.Cause).
					Str("batch_id", j.batchID).
					Str("action", string(j.req.Kind)).
					Str("post_id", j.req.PostID).
					Int("status", res.StatusCode).
					Int("worker_id", id).
					Msg("queued action failed")
			}
		}
	}
}
