package task

import (
	"testing"
	"time"

	"github.com/zulandar/missionctl/internal/apperr"
	"github.com/zulandar/missionctl/internal/models"
)

func TestAppendStep_SortOrderDefaults(t *testing.T) {
	db := testDB(t)
	created := mustCreate(t, db, CreateOpts{Title: "t"})

	first, err := AppendStep(db, created.ID, StepOpts{Title: "clone repo"})
	if err != nil {
		t.Fatalf("AppendStep(): %v", err)
	}
	if first.SortOrder != 0 {
		t.Errorf("first SortOrder = %d, want 0", first.SortOrder)
	}
	if first.Status != models.StepPending {
		t.Errorf("Status = %q, want pending", first.Status)
	}

	second, err := AppendStep(db, created.ID, StepOpts{Title: "run tests"})
	if err != nil {
		t.Fatalf("AppendStep(): %v", err)
	}
	if second.SortOrder != 1 {
		t.Errorf("second SortOrder = %d, want 1", second.SortOrder)
	}
}

func TestAppendStep_Validation(t *testing.T) {
	db := testDB(t)
	created := mustCreate(t, db, CreateOpts{Title: "t"})

	if _, err := AppendStep(db, created.ID, StepOpts{Title: "  "}); !apperr.IsValidation(err) {
		t.Errorf("empty title error = %v, want validation", err)
	}
	if _, err := AppendStep(db, created.ID, StepOpts{Title: "x", Status: "paused"}); !apperr.IsValidation(err) {
		t.Errorf("bad status error = %v, want validation", err)
	}
	if _, err := AppendStep(db, 999, StepOpts{Title: "x"}); !apperr.IsNotFound(err) {
		t.Errorf("unknown task error = %v, want not found", err)
	}
}

func TestListSteps_Order(t *testing.T) {
	db := testDB(t)
	created := mustCreate(t, db, CreateOpts{Title: "t"})

	// Explicit sort orders out of insertion order, plus a tie broken by
	// creation order.
	five := 5
	two := 2
	alsoTwo := 2
	for _, s := range []StepOpts{
		{Title: "last", SortOrder: &five},
		{Title: "tie-a", SortOrder: &two},
		{Title: "tie-b", SortOrder: &alsoTwo},
	} {
		if _, err := AppendStep(db, created.ID, s); err != nil {
			t.Fatalf("AppendStep(%q): %v", s.Title, err)
		}
	}

	steps, err := ListSteps(db, created.ID)
	if err != nil {
		t.Fatalf("ListSteps(): %v", err)
	}
	got := make([]string, len(steps))
	for i, s := range steps {
		got[i] = s.Title
	}
	want := []string{"tie-a", "tie-b", "last"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("steps[%d] = %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestAppendReview_AndList(t *testing.T) {
	db := testDB(t)
	created := mustCreate(t, db, CreateOpts{Title: "t"})

	conf := 40
	first, err := AppendReview(db, created.ID, ReviewOpts{Reason: "low confidence", Confidence: &conf})
	if err != nil {
		t.Fatalf("AppendReview(): %v", err)
	}
	if first.Status != models.ReviewPending {
		t.Errorf("Status = %q, want pending", first.Status)
	}
	if first.ResolvedAt != nil {
		t.Error("ResolvedAt set on pending review")
	}

	second, err := AppendReview(db, created.ID, ReviewOpts{Reason: "second opinion"})
	if err != nil {
		t.Fatalf("AppendReview(): %v", err)
	}
	db.Model(&models.TaskReview{}).Where("id = ?", second.ID).
		Update("created_at", time.Now().Add(time.Minute))

	reviews, err := ListReviews(db, created.ID)
	if err != nil {
		t.Fatalf("ListReviews(): %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("len = %d, want 2", len(reviews))
	}
	if reviews[0].Reason != "second opinion" {
		t.Errorf("most recent review first: got %q", reviews[0].Reason)
	}
}

func TestAppendReview_Validation(t *testing.T) {
	db := testDB(t)
	created := mustCreate(t, db, CreateOpts{Title: "t"})

	if _, err := AppendReview(db, created.ID, ReviewOpts{Reason: ""}); !apperr.IsValidation(err) {
		t.Errorf("empty reason error = %v, want validation", err)
	}
	over := 101
	if _, err := AppendReview(db, created.ID, ReviewOpts{Reason: "r", Confidence: &over}); !apperr.IsValidation(err) {
		t.Errorf("confidence 101 error = %v, want validation", err)
	}
	if _, err := AppendReview(db, 999, ReviewOpts{Reason: "r"}); !apperr.IsNotFound(err) {
		t.Errorf("unknown task error = %v, want not found", err)
	}
}

func TestResolveReview(t *testing.T) {
	db := testDB(t)
	created := mustCreate(t, db, CreateOpts{Title: "t"})
	review, err := AppendReview(db, created.ID, ReviewOpts{Reason: "check output"})
	if err != nil {
		t.Fatalf("AppendReview(): %v", err)
	}

	resolved, err := ResolveReview(db, review.ID, models.ReviewApproved, "looks right")
	if err != nil {
		t.Fatalf("ResolveReview(): %v", err)
	}
	if resolved.Status != models.ReviewApproved {
		t.Errorf("Status = %q, want approved", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Error("ResolvedAt not set on resolution")
	}

	// Resolving twice is a conflict.
	if _, err := ResolveReview(db, review.ID, models.ReviewRejected, ""); !apperr.IsConflict(err) {
		t.Errorf("double resolve error = %v, want conflict", err)
	}
}

func TestResolveReview_Validation(t *testing.T) {
	db := testDB(t)

	if _, err := ResolveReview(db, 1, models.ReviewPending, ""); !apperr.IsValidation(err) {
		t.Errorf("pending resolution error = %v, want validation", err)
	}
	if _, err := ResolveReview(db, 999, models.ReviewApproved, ""); !apperr.IsNotFound(err) {
		t.Errorf("unknown review error = %v, want not found", err)
	}
}
