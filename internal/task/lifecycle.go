package task

import (
	"time"

	"github.com/zulandar/missionctl/internal/models"
)

// The status machine is a complete graph over the four statuses: any card can
// be dragged to any column, including reopening a done task. Transitions are
// never rejected; entering a status only carries timestamp side effects,
// applied by the initiating caller rather than by storage.

// EntryActions returns the patch fields for moving t into target. Returns nil
// when target equals the current status (a no-op move must not reach the
// repository). started_at is set on the first entry into in_progress only;
// completed_at is set on every entry into done and never cleared afterward,
// so "was completed at time T" survives a reopen.
func EntryActions(t *models.Task, target models.TaskStatus, now time.Time) map[string]any {
	if t == nil || target == t.Status {
		return nil
	}

	fields := map[string]any{"status": string(target)}
	switch target {
	case models.StatusInProgress:
		if t.StartedAt == nil {
			fields["started_at"] = now
		}
	case models.StatusDone:
		fields["completed_at"] = now
	}
	return fields
}
