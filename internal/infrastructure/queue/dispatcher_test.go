package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
	"github.com/tweetfi/tweetfi-service/internal/pkg/metrics"
)

type recordingService struct {
	mu   sync.Mutex
	seen []ports.ActionRequest
}

func (s *recordingService) LatestPost(context.Context, string) (domain.Post, bool) {
	return domain.Post{}, false
}

func (s *recordingService) Perform(_ context.Context, req ports.ActionRequest) domain.ActionResult {
	s.mu.Lock()
	s.seen = append(s.seen, req)
	s.mu.Unlock()
	return domain.Succeeded(req.Kind, req.PostID, 200)
}

func (s *recordingService) snapshot() []ports.ActionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.ActionRequest, len(s.seen))
	copy(out, s.seen)
	return out
}

func TestDispatcher_PreservesOrderPerPost(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	reqs := []ports.ActionRequest{
		{Kind: domain.ActionLike, PostID: "7"},
		{Kind: domain.ActionRepost, PostID: "8"},
		{Kind: domain.ActionReply, PostID: "7", Message: "first"},
		{Kind: domain.ActionReply, PostID: "7", Message: "second"},
	}
	n, err := d.EnqueueBatch("b1", reqs)
	if err != nil || n != len(reqs) {
		t.Fatalf("expected all accepted, got n=%d err=%v", n, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(svc.snapshot()) < len(reqs) && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	var onSeven []string
	for _, r := range svc.snapshot() {
		if r.PostID == "7" {
			onSeven = append(onSeven, string(r.Kind)+":"+r.Message)
		}
	}
	want := []string{"like:", "reply:first", "reply:second"}
	if len(onSeven) != len(want) {
		t.Fatalf("expected %v, got %v", want, onSeven)
	}
	for i := range want {
		if onSeven[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], onSeven[i])
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	first := d.shardIndex("1234567890")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("1234567890"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_EnqueueRejectsWhenFull(t *testing.T) {
	// Workers are never started, so the single shard fills up.
	d := NewDispatcher(1, &recordingService{}, zerolog.Nop())

	reqs := make([]ports.ActionRequest, channelBuffer+5)
	for i := range reqs {
		reqs[i] = ports.ActionRequest{Kind: domain.ActionLike, PostID: "7"}
	}
	n, err := d.EnqueueBatch("b1", reqs)
	if err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if n != channelBuffer {
		t.Fatalf("expected %d accepted, got %d", channelBuffer, n)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_QueueDepthTracksAcceptedOnly(t *testing.T) {
	d := NewDispatcher(1, &recordingService{}, zerolog.Nop())
	gauge := metrics.ActionsQueueDepth.WithLabelValues("0")
	before := testutil.ToFloat64(gauge)

	reqs := make([]ports.ActionRequest, channelBuffer+3)
	for i := range reqs {
		reqs[i] = ports.ActionRequest{Kind: domain.ActionLike, PostID: "7"}
	}
	_, _ = d.EnqueueBatch("b1", reqs)

	if got := testutil.ToFloat64(gauge) - before; got != channelBuffer {
		t.Fatalf("expected depth to grow by %d, got %v", channelBuffer, got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(gauge) != before && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if got := testutil.ToFloat64(gauge); got != before {
		t.Fatalf("expected depth to drain back to %v, got %v", before, got)
	}
}
