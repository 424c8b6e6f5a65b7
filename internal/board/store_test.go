package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zulandar/missionctl/internal/models"
	"github.com/zulandar/missionctl/internal/task"
)

// fakeRepo records PatchTask calls and can be told to fail.
type fakeRepo struct {
	patches []patchCall
	fail    error
}

type patchCall struct {
	id     uint
	fields map[string]any
}

func (f *fakeRepo) ListTasks(ctx context.Context) ([]models.Task, error) { return nil, nil }
func (f *fakeRepo) CreateTask(ctx context.Context, opts task.CreateOpts) (*models.Task, error) {
	return nil, nil
}
func (f *fakeRepo) DeleteTask(ctx context.Context, id uint) error { return nil }
func (f *fakeRepo) ListSteps(ctx context.Context, taskID uint) ([]models.TaskStep, error) {
	return nil, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, taskID uint) ([]models.TaskReview, error) {
	return nil, nil
}

func (f *fakeRepo) PatchTask(ctx context.Context, id uint, fields map[string]any) (*models.Task, error) {
	f.patches = append(f.patches, patchCall{id: id, fields: fields})
	if f.fail != nil {
		return nil, f.fail
	}
	return &models.Task{ID: id}, nil
}

func newTestStore(repo *fakeRepo, tasks ...models.Task) *Store {
	s := NewStore(repo)
	s.Replace(tasks)
	return s
}

func TestStore_MoveNoOp(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo, models.Task{ID: 1, Status: models.StatusInbox})

	if err := s.Move(context.Background(), 1, models.StatusInbox); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if len(repo.patches) != 0 {
		t.Errorf("no-op move issued %d repository calls, want 0", len(repo.patches))
	}
}

func TestStore_MoveOptimistic(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo, models.Task{ID: 1, Status: models.StatusInbox})

	if err := s.Move(context.Background(), 1, models.StatusInProgress); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	// Local state relocated immediately.
	tasks := s.Tasks()
	if tasks[0].Status != models.StatusInProgress {
		t.Errorf("local status = %q, want in_progress", tasks[0].Status)
	}
	if tasks[0].StartedAt == nil {
		t.Error("optimistic copy missing started_at")
	}

	// Repository received status plus the entry action.
	if len(repo.patches) != 1 {
		t.Fatalf("patches = %d, want 1", len(repo.patches))
	}
	p := repo.patches[0]
	if p.id != 1 || p.fields["status"] != string(models.StatusInProgress) {
		t.Errorf("patch = %+v", p)
	}
	if _, ok := p.fields["started_at"]; !ok {
		t.Error("patch missing started_at entry action")
	}
}

func TestStore_MoveFailureFlagsRefresh(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("store unreachable")}
	s := newTestStore(repo, models.Task{ID: 1, Status: models.StatusInbox})

	if err := s.Move(context.Background(), 1, models.StatusDone); err == nil {
		t.Fatal("Move() expected error")
	}
	if !s.NeedsRefresh() {
		t.Error("NeedsRefresh() = false after failed move, want true")
	}

	// A successful replace clears the flag: the fetch is the rollback.
	s.Replace([]models.Task{{ID: 1, Status: models.StatusInbox}})
	if s.NeedsRefresh() {
		t.Error("NeedsRefresh() = true after replace, want false")
	}
	if s.Tasks()[0].Status != models.StatusInbox {
		t.Error("replace did not restore authoritative state")
	}
}

func TestStore_MoveUnknownTask(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo)

	if err := s.Move(context.Background(), 99, models.StatusDone); err != nil {
		t.Fatalf("Move() of vanished card error = %v, want nil", err)
	}
	if len(repo.patches) != 0 {
		t.Error("vanished card should not reach the repository")
	}
}

func TestStore_ReplaceIsFullSwap(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo,
		models.Task{ID: 1, Status: models.StatusInbox},
		models.Task{ID: 2, Status: models.StatusDone},
	)

	s.Replace([]models.Task{{ID: 3, Status: models.StatusReview}})

	if s.Has(1) || s.Has(2) {
		t.Error("replace kept stale tasks")
	}
	if !s.Has(3) {
		t.Error("replace dropped new task")
	}
}

func TestStore_MoveDonePreservesCompletedAt(t *testing.T) {
	repo := &fakeRepo{}
	done := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	s := newTestStore(repo, models.Task{ID: 1, Status: models.StatusDone, CompletedAt: &done})

	if err := s.Move(context.Background(), 1, models.StatusInbox); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	tasks := s.Tasks()
	if tasks[0].CompletedAt == nil || !tasks[0].CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v after reopen, want %v preserved", tasks[0].CompletedAt, done)
	}
	if _, ok := repo.patches[0].fields["completed_at"]; ok {
		t.Error("reopen patch must not touch completed_at")
	}
}
