package accounts

import (
	"context"
	"testing"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

var _ ports.AccountRepository = (*Static)(nil)

func TestStatic_TrackedHandles_TrimsAndKeepsOrder(t *testing.T) {
	s := NewStatic([]string{" alice", "", "bob ", "   ", "alice"})

	got, err := s.TrackedHandles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.AccountHandle{"alice", "bob", "alice"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("handle %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestStatic_TrackedHandles_ReturnsCopy(t *testing.T) {
	s := NewStatic([]string{"alice"})

	first, _ := s.TrackedHandles(context.Background())
	first[0] = "mallory"

	second, _ := s.TrackedHandles(context.Background())
	if second[0] != "alice" {
		t.Fatalf("caller mutation leaked into source: %v", second)
	}
}

func TestStatic_ListAndCount(t *testing.T) {
	s := NewStatic([]string{"alice", "bob"})

	list, _ := s.List(context.Background())
	if len(list) != 2 || !list[0].Active || list[1].Username != "bob" {
		t.Fatalf("unexpected list: %+v", list)
	}
	n, _ := s.Count(context.Background())
	if n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}
}

func TestStatic_Empty(t *testing.T) {
	s := NewStatic(nil)
	got, err := s.TrackedHandles(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", got, err)
	}
}
