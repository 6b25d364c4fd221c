package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubPlatform struct {
	stubFetcher
	results map[domain.ActionKind]domain.ActionResult
	actions []string // "<kind>:<post_id>[:<message>]"
}

func (p *stubPlatform) ResolveOwnIdentity(context.Context) (domain.AccountID, bool) {
	return "99", true
}

func (p *stubPlatform) LikePost(_ context.Context, postID string) domain.ActionResult {
	p.actions = append(p.actions, "like:"+postID)
	return p.result(domain.ActionLike, postID)
}

func (p *stubPlatform) RepostPost(_ context.Context, postID string) domain.ActionResult {
	p.actions = append(p.actions, "repost:"+postID)
	return p.result(domain.ActionRepost, postID)
}

func (p *stubPlatform) ReplyToPost(_ context.Context, postID, message string) domain.ActionResult {
	p.actions = append(p.actions, "reply:"+postID+":"+message)
	return p.result(domain.ActionReply, postID)
}

func (p *stubPlatform) result(kind domain.ActionKind, postID string) domain.ActionResult {
	if res, ok := p.results[kind]; ok {
		res.Action, res.PostID = kind, postID
		return res
	}
	return domain.Succeeded(kind, postID, 200)
}

type stubLedger struct {
	entries     map[string]domain.ActionResult
	lookupErr   error
	rememberErr error
	remembered  []string
}

func newStubLedger() *stubLedger {
	return &stubLedger{entries: make(map[string]domain.ActionResult)}
}

func (l *stubLedger) Lookup(_ context.Context, key string) (domain.ActionResult, bool, error) {
	if l.lookupErr != nil {
		return domain.ActionResult{}, false, l.lookupErr
	}
	res, ok := l.entries[key]
	return res, ok, nil
}

func (l *stubLedger) Remember(_ context.Context, key string, res domain.ActionResult) error {
	if l.rememberErr != nil {
		return l.rememberErr
	}
	l.entries[key] = res
	l.remembered = append(l.remembered, key)
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestActionService_Perform_RoutesByKind(t *testing.T) {
	platform := &stubPlatform{}
	svc := NewActionService(platform, nil, zerolog.Nop())

	ctx := context.Background()
	svc.Perform(ctx, ports.ActionRequest{Kind: domain.ActionLike, PostID: "1"})
	svc.Perform(ctx, ports.ActionRequest{Kind: domain.ActionRepost, PostID: "2"})
	svc.Perform(ctx, ports.ActionRequest{Kind: domain.ActionReply, PostID: "3", Message: "hey"})

	want := []string{"like:1", "repost:2", "reply:3:hey"}
	if len(platform.actions) != len(want) {
		t.Fatalf("expected %v, got %v", want, platform.actions)
	}
	for i := range want {
		if platform.actions[i] != want[i] {
			t.Errorf("action %d: expected %s, got %s", i, want[i], platform.actions[i])
		}
	}
}

func TestActionService_Perform_UnknownKind(t *testing.T) {
	platform := &stubPlatform{}
	svc := NewActionService(platform, nil, zerolog.Nop())

	res := svc.Perform(context.Background(), ports.ActionRequest{Kind: "bookmark", PostID: "1"})
	if res.Success || !errors.Is(res.Cause, domain.ErrUnknownAction) {
		t.Fatalf("expected unknown action failure, got %+v", res)
	}
	if len(platform.actions) != 0 {
		t.Fatalf("expected no platform calls, got %v", platform.actions)
	}
}

func TestActionService_Perform_ReplaysSuccessfulKey(t *testing.T) {
	platform := &stubPlatform{}
	ledger := newStubLedger()
	svc := NewActionService(platform, ledger, zerolog.Nop())

	req := ports.ActionRequest{Kind: domain.ActionLike, PostID: "7", IdempotencyKey: "k1"}
	first := svc.Perform(context.Background(), req)
	second := svc.Perform(context.Background(), req)

	if !first.Success || first.Replayed {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if !second.Success || !second.Replayed {
		t.Fatalf("expected replayed success, got %+v", second)
	}
	if len(platform.actions) != 1 {
		t.Fatalf("expected one platform call, got %v", platform.actions)
	}
	if ledger.remembered[0] != "like:7:k1" {
		t.Errorf("unexpected ledger key: %s", ledger.remembered[0])
	}
}

func TestActionService_Perform_KeyScopedToActionAndPost(t *testing.T) {
	platform := &stubPlatform{}
	ledger := newStubLedger()
	svc := NewActionService(platform, ledger, zerolog.Nop())

	ctx := context.Background()
	svc.Perform(ctx, ports.ActionRequest{Kind: domain.ActionLike, PostID: "7", IdempotencyKey: "k"})
	svc.Perform(ctx, ports.ActionRequest{Kind: domain.ActionRepost, PostID: "7", IdempotencyKey: "k"})
	svc.Perform(ctx, ports.ActionRequest{Kind: domain.ActionLike, PostID: "8", IdempotencyKey: "k"})

	if len(platform.actions) != 3 {
		t.Fatalf("expected three distinct platform calls, got %v", platform.actions)
	}
}

func TestActionService_Perform_FailureNotRemembered(t *testing.T) {
	platform := &stubPlatform{results: map[domain.ActionKind]domain.ActionResult{
		domain.ActionReply: {StatusCode: 429, Cause: domain.ErrUnexpectedStatus},
	}}
	ledger := newStubLedger()
	svc := NewActionService(platform, ledger, zerolog.Nop())

	req := ports.ActionRequest{Kind: domain.ActionReply, PostID: "7", Message: "hi", IdempotencyKey: "k"}
	svc.Perform(context.Background(), req)
	svc.Perform(context.Background(), req)

	if len(ledger.remembered) != 0 {
		t.Fatalf("failed actions must not be recorded, got %v", ledger.remembered)
	}
	if len(platform.actions) != 2 {
		t.Fatalf("expected the failed action to be retried, got %v", platform.actions)
	}
}

func TestActionService_Perform_LedgerErrorsAreNonFatal(t *testing.T) {
	platform := &stubPlatform{}
	ledger := newStubLedger()
	ledger.lookupErr = errors.New("redis timeout")
	ledger.rememberErr = errors.New("redis timeout")
	svc := NewActionService(platform, ledger, zerolog.Nop())

	res := svc.Perform(context.Background(), ports.ActionRequest{Kind: domain.ActionLike, PostID: "7", IdempotencyKey: "k"})
	if !res.Success {
		t.Fatalf("expected the action to proceed despite ledger errors, got %+v", res)
	}
	if len(platform.actions) != 1 {
		t.Fatalf("expected one platform call, got %v", platform.actions)
	}
}

func TestActionService_LatestPost_DelegatesToClient(t *testing.T) {
	platform := &stubPlatform{stubFetcher: stubFetcher{posts: map[domain.AccountHandle]domain.Post{
		"alice": {ID: "7", Text: "hi"},
	}}}
	svc := NewActionService(platform, nil, zerolog.Nop())

	post, ok := svc.LatestPost(context.Background(), "alice")
	if !ok || post.ID != "7" {
		t.Fatalf("unexpected result: %+v ok=%v", post, ok)
	}
	if _, ok := svc.LatestPost(context.Background(), "bob"); ok {
		t.Fatal("expected no post for bob")
	}
}
