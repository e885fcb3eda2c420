package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/clock"
	"github.com/AlibekovAA/secure-notes/backend/internal/note/domain"
)

// memoryRepository mirrors the SQL repository semantics in memory.
type memoryRepository struct {
	mu     sync.Mutex
	notes  map[int64]domain.Note
	nextID int64
	clock  clock.Clock
	calls  map[string]int
}

func newMemoryRepository(clk clock.Clock) *memoryRepository {
	return &memoryRepository{
		notes: make(map[int64]domain.Note),
		clock: clk,
		calls: make(map[string]int),
	}
}

func (r *memoryRepository) Find(_ context.Context, id, ownerID int64) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["find"]++

	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return domain.Note{}, domain.ErrNoteNotFound
	}
	return note, nil
}

func (r *memoryRepository) List(_ context.Context, ownerID int64) ([]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["list"]++

	notes := make([]domain.Note, 0)
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (r *memoryRepository) Insert(_ context.Context, title, content string, ownerID int64) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["insert"]++

	r.nextID++
	now := r.clock.Now()
	note := domain.Note{ID: r.nextID, Title: title, Content: content, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	r.notes[note.ID] = note
	return note, nil
}

func (r *memoryRepository) Update(_ context.Context, id, ownerID int64, patch domain.Patch) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["update"]++

	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return domain.Note{}, domain.ErrNoteNotFound
	}
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	updated := r.clock.Now()
	if floor := note.UpdatedAt.Add(time.Microsecond); updated.Before(floor) {
		updated = floor
	}
	note.UpdatedAt = updated
	r.notes[id] = note
	return note, nil
}

func (r *memoryRepository) Delete(_ context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["delete"]++

	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return domain.ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}
