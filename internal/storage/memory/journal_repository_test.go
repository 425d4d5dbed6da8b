package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/storage/memory"
)

func TestJournalRepository_AppendList(t *testing.T) {
	repo := memory.NewJournalRepository()
	now := time.Now().UTC()

	events := []domain.SessionEvent{
		{SessionID: "s-1", Type: domain.EventOrderCleared, Occurred: now.Add(2 * time.Second)},
		{SessionID: "s-1", Type: domain.EventLineAdded, Detail: "first", Total: 100, Occurred: now},
		{SessionID: "s-1", Type: domain.EventLineAdded, Detail: "second", Total: 170, Occurred: now},
		{SessionID: "s-2", Type: domain.EventLineAdded, Occurred: now},
	}
	for _, event := range events {
		if err := repo.Append(event); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	list, err := repo.List("s-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 events, got %d", len(list))
	}
	if list[0].Detail != "first" || list[1].Detail != "second" {
		t.Fatalf("expected insertion order for equal timestamps, got %q, %q", list[0].Detail, list[1].Detail)
	}
	if list[2].Type != domain.EventOrderCleared {
		t.Fatalf("expected clear event last, got %s", list[2].Type)
	}
}

func TestJournalRepository_ListReturnsCopy(t *testing.T) {
	repo := memory.NewJournalRepository()
	if err := repo.Append(domain.SessionEvent{SessionID: "s-1", Type: domain.EventLineAdded, Occurred: time.Now()}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	list, err := repo.List("s-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	list[0].Type = domain.EventOperationFailed

	again, err := repo.List("s-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if again[0].Type != domain.EventLineAdded {
		t.Fatalf("expected stored event to stay unchanged, got %s", again[0].Type)
	}
}

func TestJournalRepository_UnknownSession(t *testing.T) {
	repo := memory.NewJournalRepository()

	list, err := repo.List("missing")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}
