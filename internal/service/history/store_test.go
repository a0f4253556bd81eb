package history_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pharmahub/assistant-backend/internal/model/chat"
	"github.com/pharmahub/assistant-backend/internal/service/history"
)

func TestGetUnseenSessionIsEmpty(t *testing.T) {
	store := history.NewMemoryStore()

	if turns := store.Get("missing"); len(turns) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(turns))
	}
}

func TestAppendStoresPairsInOrder(t *testing.T) {
	store := history.NewMemoryStore()

	store.Append("s1", "question", "answer")

	turns := store.Get("s1")
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != chat.RoleUser || turns[0].Text != "question" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != chat.RoleModel || turns[1].Text != "answer" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
	if turns[0].ID == "" || turns[0].ID == turns[1].ID {
		t.Fatalf("turns must carry distinct ids: %q vs %q", turns[0].ID, turns[1].ID)
	}
}

func TestAppendTrimsOldestTurns(t *testing.T) {
	store := history.NewMemoryStore()

	for i := 0; i < 9; i++ {
		store.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := store.Get("s1")
	if len(turns) != history.MaxTurns {
		t.Fatalf("expected %d turns, got %d", history.MaxTurns, len(turns))
	}
	if len(turns)%2 != 0 {
		t.Fatalf("history length must stay even, got %d", len(turns))
	}
	if turns[0].Text != "q4" {
		t.Fatalf("expected oldest retained turn q4, got %q", turns[0].Text)
	}
	if turns[len(turns)-1].Text != "a8" {
		t.Fatalf("expected newest turn a8, got %q", turns[len(turns)-1].Text)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := history.NewMemoryStore()

	store.Append("s1", "q", "a")
	store.Append("s1", "q2", "a2")

	store.Clear("s1")
	if turns := store.Get("s1"); len(turns) != 0 {
		t.Fatalf("expected empty history after clear, got %d turns", len(turns))
	}

	// Clearing again, or clearing an unknown session, must be a no-op.
	store.Clear("s1")
	store.Clear("never-seen")
}

func TestGetReturnsCopy(t *testing.T) {
	store := history.NewMemoryStore()
	store.Append("s1", "q", "a")

	turns := store.Get("s1")
	turns[0].Text = "mutated"

	if fresh := store.Get("s1"); fresh[0].Text != "q" {
		t.Fatalf("caller mutation leaked into the store: %q", fresh[0].Text)
	}
}

func TestConcurrentAppendsSameSession(t *testing.T) {
	store := history.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	turns := store.Get("s1")
	if len(turns) != history.MaxTurns {
		t.Fatalf("expected %d turns after concurrent appends, got %d", history.MaxTurns, len(turns))
	}
	for i := 0; i < len(turns); i += 2 {
		if turns[i].Role != chat.RoleUser || turns[i+1].Role != chat.RoleModel {
			t.Fatalf("exchange pair interleaved at index %d: %+v %+v", i, turns[i], turns[i+1])
		}
	}
}

func TestConcurrentSessionsStayIsolated(t *testing.T) {
	store := history.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := fmt.Sprintf("s%d", i)
			store.Append(session, "q", "a")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		if turns := store.Get(fmt.Sprintf("s%d", i)); len(turns) != 2 {
			t.Fatalf("session s%d: expected 2 turns, got %d", i, len(turns))
		}
	}
}
