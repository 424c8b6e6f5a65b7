package task

import (
	"context"

	"github.com/zulandar/missionctl/internal/models"
	"gorm.io/gorm"
)

// Repository is the store contract the board and poller consume. The gorm
// Store below and the HTTP client both implement it; each call stands alone,
// with no transaction spanning multiple calls.
type Repository interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, opts CreateOpts) (*models.Task, error)
	PatchTask(ctx context.Context, id uint, fields map[string]any) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) error
	ListSteps(ctx context.Context, taskID uint) ([]models.TaskStep, error)
	ListReviews(ctx context.Context, taskID uint) ([]models.TaskReview, error)
}

// Store implements Repository directly against the database.
type Store struct {
	DB *gorm.DB
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return List(s.DB.WithContext(ctx))
}

func (s *Store) CreateTask(ctx context.Context, opts CreateOpts) (*models.Task, error) {
	return Create(s.DB.WithContext(ctx), opts)
}

func (s *Store) PatchTask(ctx context.Context, id uint, fields map[string]any) (*models.Task, error) {
	return Patch(s.DB.WithContext(ctx), id, fields)
}

func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	return Delete(s.DB.WithContext(ctx), id)
}

func (s *Store) ListSteps(ctx context.Context, taskID uint) ([]models.TaskStep, error) {
	return ListSteps(s.DB.WithContext(ctx), taskID)
}

func (s *Store) ListReviews(ctx context.Context, taskID uint) ([]models.TaskReview, error) {
	return ListReviews(s.DB.WithContext(ctx), taskID)
}
