// Package client is the HTTP counterpart of the task repository: it consumes
// the REST surface the server package exposes, so remote dashboards and the
// CLI talk to one Mission Control instance.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/board"
	"github.com/zulandar/missionctl/internal/models"
	"github.com/zulandar/missionctl/internal/task"
	"github.com/zulandar/missionctl/internal/workspace"
)

// Client implements task.Repository over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Opts holds parameters for creating a Client.
type Opts struct {
	BaseURL string
	Timeout time.Duration // defaults to 10s
	// For testing: inject a custom HTTP client.
	HTTPClient *http.Client
}

// New creates a Client for one Mission Control server.
func New(opts Opts) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
	}, nil
}

// ListTasks implements task.Repository.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements task.Repository.
func (c *Client) CreateTask(ctx context.Context, opts task.CreateOpts) (*models.Task, error) {
	body := map[string]any{
		"title":       opts.Title,
		"description": opts.Description,
		"agent_id":    opts.AgentID,
		"session_key": opts.SessionKey,
	}
	if opts.Status != "" {
		body["status"] = string(opts.Status)
	}
	if opts.Priority != "" {
		body["priority"] = string(opts.Priority)
	}
	if opts.RequirementID != nil {
		body["requirement_id"] = *opts.RequirementID
	}
	if opts.DueAt != nil {
		body["due_at"] = opts.DueAt.Format(time.RFC3339)
	}
	if opts.Tags != nil {
		body["tags"] = []string(opts.Tags)
	}
	if opts.Metadata != nil {
		body["metadata"] = map[string]any(opts.Metadata)
	}

	var t models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PatchTask implements task.Repository.
func (c *Client) PatchTask(ctx context.Context, id uint, fields map[string]any) (*models.Task, error) {
	var t models.Task
	path := fmt.Sprintf("/tasks?id=eq.%d", id)
	if err := c.do(ctx, http.MethodPatch, path, fields, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask implements task.Repository.
func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks?id=eq.%d", id), nil, nil)
}

// ListSteps implements task.Repository.
func (c *Client) ListSteps(ctx context.Context, taskID uint) ([]models.TaskStep, error) {
	var steps []models.TaskStep
	path := fmt.Sprintf("/task_steps?task_id=eq.%d", taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// ListReviews implements task.Repository.
func (c *Client) ListReviews(ctx context.Context, taskID uint) ([]models.TaskReview, error) {
	var reviews []models.TaskReview
	path := fmt.Sprintf("/task_reviews?task_id=eq.%d", taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AppendStep adds a progress-log entry to a task.
func (c *Client) AppendStep(ctx context.Context, taskID uint, opts task.StepOpts) (*models.TaskStep, error) {
	body := map[string]any{
		"task_id":     taskID,
		"title":       opts.Title,
		"description": opts.Description,
		"agent_note":  opts.AgentNote,
	}
	if opts.Status != "" {
		body["status"] = string(opts.Status)
	}
	if opts.DurationMS != nil {
		body["duration_ms"] = *opts.DurationMS
	}
	if opts.SortOrder != nil {
		body["sort_order"] = *opts.SortOrder
	}

	var step models.TaskStep
	if err := c.do(ctx, http.MethodPost, "/task_steps", body, &step); err != nil {
		return nil, err
	}
	return &step, nil
}

// AppendReview files a review request against a task.
func (c *Client) AppendReview(ctx context.Context, taskID uint, opts task.ReviewOpts) (*models.TaskReview, error) {
	body := map[string]any{
		"task_id": taskID,
		"reason":  opts.Reason,
	}
	if opts.Confidence != nil {
		body["confidence"] = *opts.Confidence
	}

	var review models.TaskReview
	if err := c.do(ctx, http.MethodPost, "/task_reviews", body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// ResolveReview approves or rejects a pending review.
func (c *Client) ResolveReview(ctx context.Context, reviewID uint, status models.ReviewStatus, comment string) (*models.TaskReview, error) {
	body := map[string]any{
		"status":           string(status),
		"reviewer_comment": comment,
	}
	var review models.TaskReview
	path := fmt.Sprintf("/task_reviews?id=eq.%d", reviewID)
	if err := c.do(ctx, http.MethodPatch, path, body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Board fetches the rendered board view with an optional review sub-filter.
func (c *Client) Board(ctx context.Context, filter board.ReviewFilter) (*board.View, error) {
	path := "/board"
	if filter != "" {
		path += "?review_filter=" + string(filter)
	}
	var view board.View
	if err := c.do(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Reports fetches the agent report listing.
func (c *Client) Reports(ctx context.Context) ([]workspace.Report, error) {
	var reports []workspace.Report
	if err := c.do(ctx, http.MethodGet, "/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// do sends one request and decodes the JSON response into out when non-nil.
// Connection failures and 5xx responses come back as transport errors; 400,
// 404, and 409 map back onto their taxonomy kinds so callers branch the same
// way against a remote server as against a local store.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Validation("client: encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Validation("client: build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Transport(err, "client: %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Transport(err, "client: read response of %s %s", method, path)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Transport(err, "client: decode response of %s %s", method, path)
	}
	return nil
}

// errorBody is the JSON error envelope the server writes.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// decodeError reconstructs a classified error from a non-2xx response.
func decodeError(status int, raw []byte) error {
	var body errorBody
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		message = body.Error
	}

	switch status {
	case http.StatusBadRequest:
		return apperr.Validation("%s", message)
	case http.StatusNotFound:
		return apperr.NotFound("%s", message)
	case http.StatusConflict:
		return apperr.Conflict("%s", message)
	default:
		return apperr.Transport(fmt.Errorf("status %d", status), "%s", message)
	}
}
