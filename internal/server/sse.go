package server

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/missionctl/internal/models"
)

// reviewEvent holds data for a review SSE event.
type reviewEvent struct {
	ID         uint   `json:"id"`
	TaskID     uint   `json:"task_id"`
	Reason     string `json:"reason"`
	Confidence *int   `json:"confidence,omitempty"`
	Pending    int64  `json:"pending"`
}

// handleSSE streams review-queue activity so an open dashboard learns about
// new approval requests without waiting for the next poll.
func handleSSE(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// Only alert on reviews filed after the stream opened.
		var lastSeenID uint
		var latest models.TaskReview
		if err := d.db.Where("status = ?", models.ReviewPending).
			Order("id DESC").Limit(1).First(&latest).Error; err == nil {
			lastSeenID = latest.ID
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(3 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				var fresh []models.TaskReview
				d.db.Where("status = ? AND id > ?", models.ReviewPending, lastSeenID).
					Order("id ASC").
					Find(&fresh)

				if len(fresh) == 0 {
					continue
				}
				lastSeenID = fresh[len(fresh)-1].ID

				var pending int64
				d.db.Model(&models.TaskReview{}).
					Where("status = ?", models.ReviewPending).
					Count(&pending)

				latest := fresh[len(fresh)-1]
				writeSSE(c.Writer, "review", reviewEvent{
					ID:         latest.ID,
					TaskID:     latest.TaskID,
					Reason:     latest.Reason,
					Confidence: latest.Confidence,
					Pending:    pending,
				})
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
