package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
)

// journalRepositoryInMemory хранит события сессий в памяти процесса.
type journalRepositoryInMemory struct {
	mu     sync.RWMutex
	events map[string][]domain.SessionEvent
}

// NewJournalRepository создаёт in-memory реализацию JournalRepository.
func NewJournalRepository() domain.JournalRepository {
	return &journalRepositoryInMemory{events: make(map[string][]domain.SessionEvent)}
}

// Append добавляет событие в журнал сессии.
func (r *journalRepositoryInMemory) Append(event domain.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := append(r.events[event.SessionID], event)
	// Стабильная сортировка сохраняет порядок событий с одинаковым временем.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Occurred.Before(events[j].Occurred)
	})
	r.events[event.SessionID] = events

	return nil
}

// List возвращает события сессии в хронологическом порядке.
func (r *journalRepositoryInMemory) List(sessionID string) ([]domain.SessionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[sessionID]
	result := make([]domain.SessionEvent, len(events))
	copy(result, events)
	return result, nil
}

var _ domain.JournalRepository = (*journalRepositoryInMemory)(nil)
