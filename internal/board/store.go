package board

import (
	"context"
	"sync"
	"time"

	"github.com/zulandar/missionctl/internal/models"
	"github.com/zulandar/missionctl/internal/task"
)

// Store owns one board view's task list. The poller replaces the whole list
// at each poll boundary (last write wins); drag moves mutate it optimistically
// before the repository call completes. A failed move does not roll back by
// hand: it flags the store for refresh and the next fetch restores truth.
type Store struct {
	mu            sync.Mutex
	repo          task.Repository
	tasks         []models.Task
	staleAfterErr bool
	now           func() time.Time
}

// NewStore returns an empty board store backed by repo.
func NewStore(repo task.Repository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// Replace installs the authoritative task list from a fetch. Clears any
// pending refresh flag.
func (s *Store) Replace(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make([]models.Task, len(tasks))
	copy(s.tasks, tasks)
	s.staleAfterErr = false
}

// Tasks returns a copy of the current task list.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Has reports whether a task id is currently on the board.
func (s *Store) Has(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return true
		}
	}
	return false
}

// NeedsRefresh reports whether a failed mutation left the local state
// possibly diverged from the store.
func (s *Store) NeedsRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staleAfterErr
}

// Move drags a task to the target column. Moving a task onto its current
// status is a no-op and never reaches the repository. Otherwise the local
// copy is relocated immediately and the patch (status plus lifecycle entry
// actions) is issued; on failure the store is marked for refresh and the
// error is returned for the view to surface.
func (s *Store) Move(ctx context.Context, taskID uint, target models.TaskStatus) error {
	s.mu.Lock()
	var current *models.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			current = &s.tasks[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return nil // card vanished under the cursor; next poll reconciles
	}

	fields := task.EntryActions(current, target, s.now())
	if fields == nil {
		s.mu.Unlock()
		return nil
	}

	// Optimistic local relocation.
	applyEntryActions(current, target, fields)
	s.mu.Unlock()

	if _, err := s.repo.PatchTask(ctx, taskID, fields); err != nil {
		s.mu.Lock()
		s.staleAfterErr = true
		s.mu.Unlock()
		return err
	}
	return nil
}

// applyEntryActions mirrors the patch onto the local task copy.
func applyEntryActions(t *models.Task, target models.TaskStatus, fields map[string]any) {
	t.Status = target
	if v, ok := fields["started_at"].(time.Time); ok {
		t.StartedAt = &v
	}
	if v, ok := fields["completed_at"].(time.Time); ok {
		t.CompletedAt = &v
	}
}
