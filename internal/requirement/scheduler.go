package requirement

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/zulandar/missionctl/internal/models"
	"github.com/zulandar/missionctl/internal/task"
	"gorm.io/gorm"
)

// Scheduler materializes inbox tasks from active requirements on their cron
// schedule. One cron entry per requirement; each fire creates exactly one
// task tagged with the requirement.
type Scheduler struct {
	db   *gorm.DB
	cron *cron.Cron
	log  zerolog.Logger
}

// NewScheduler builds a stopped scheduler over db.
func NewScheduler(db *gorm.DB, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		db:   db,
		cron: cron.New(cron.WithParser(cronParser)),
		log:  log,
	}
}

// Reload replaces all cron entries from the current set of active
// requirements. Call after requirement mutations.
func (s *Scheduler) Reload() error {
	for _, entry := range s.cron.Entries() {
		s.cron.Remove(entry.ID)
	}

	active := true
	reqs, err := List(s.db, &active)
	if err != nil {
		return fmt.Errorf("scheduler: reload: %w", err)
	}

	for _, r := range reqs {
		if r.CronExpr == "" {
			continue
		}
		req := r
		if _, err := s.cron.AddFunc(req.CronExpr, func() { s.fire(req) }); err != nil {
			s.log.Warn().Err(err).Uint("requirement", req.ID).
				Str("expr", req.CronExpr).Msg("scheduler: skipping unparseable schedule")
		}
	}
	s.log.Info().Int("entries", len(s.cron.Entries())).Msg("scheduler: reloaded")
	return nil
}

// Run starts the cron runner and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// fire creates one inbox task for a requirement fire. Failures are logged,
// not fatal: the next fire tries again.
func (s *Scheduler) fire(req models.Requirement) {
	created, err := task.Create(s.db, task.CreateOpts{
		Title:         req.Title,
		Description:   req.Description,
		AgentID:       req.AgentID,
		RequirementID: &req.ID,
		Tags:          req.Tags,
	})
	if err != nil {
		s.log.Warn().Err(err).Uint("requirement", req.ID).Msg("scheduler: task creation failed")
		return
	}
	s.log.Info().Uint("requirement", req.ID).Uint("task", created.ID).Msg("scheduler: task created")
}

// Fire runs one requirement's materialization immediately. Exposed for the
// CLI's run-now path and for tests; the cron entries call the same code.
func (s *Scheduler) Fire(req models.Requirement) { s.fire(req) }
