package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

func TestTask_Fields(t *testing.T) {
	typ := reflect.TypeOf(Task{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Title", "not null")
	assertGormTag(t, typ, "Description", "type:text")
	assertGormTag(t, typ, "Status", "default:inbox")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Priority", "default:medium")
	assertGormTag(t, typ, "RequirementID", "index")
	assertGormTag(t, typ, "Steps", "OnDelete:CASCADE")
	assertGormTag(t, typ, "Reviews", "OnDelete:CASCADE")
	assertGormTag(t, typ, "Requirement", "OnDelete:SET NULL")
}

func TestTaskStep_Fields(t *testing.T) {
	typ := reflect.TypeOf(TaskStep{})

	assertGormTag(t, typ, "TaskID", "not null")
	assertGormTag(t, typ, "TaskID", "index")
	assertGormTag(t, typ, "Status", "default:pending")
	assertGormTag(t, typ, "SortOrder", "index")
}

func TestTaskReview_Fields(t *testing.T) {
	typ := reflect.TypeOf(TaskReview{})

	assertGormTag(t, typ, "TaskID", "not null")
	assertGormTag(t, typ, "Status", "default:pending")
}

func TestRequirement_Fields(t *testing.T) {
	typ := reflect.TypeOf(Requirement{})

	assertGormTag(t, typ, "CronJobID", "uniqueIndex")
	assertGormTag(t, typ, "IsActive", "default:true")
}

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range TaskStatuses() {
		if !s.Valid() {
			t.Errorf("TaskStatus(%q).Valid() = false, want true", s)
		}
	}
	if TaskStatus("archived").Valid() {
		t.Error("TaskStatus(archived).Valid() = true, want false")
	}
	if TaskStatus("").Valid() {
		t.Error("TaskStatus(\"\").Valid() = true, want false")
	}
}

func TestTaskPriority_Rank(t *testing.T) {
	order := []TaskPriority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() <= order[i].Rank() {
			t.Errorf("Rank(%s) = %d, want > Rank(%s) = %d",
				order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}
	if TaskPriority("unknown").Rank() >= PriorityLow.Rank() {
		t.Error("unknown priority should rank below low")
	}
}

func TestStepStatus_Valid(t *testing.T) {
	valid := []StepStatus{StepPending, StepInProgress, StepCompleted, StepFailed, StepSkipped}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("StepStatus(%q).Valid() = false, want true", s)
		}
	}
	if StepStatus("paused").Valid() {
		t.Error("StepStatus(paused).Valid() = true, want false")
	}
}

func TestReviewStatus_Valid(t *testing.T) {
	for _, s := range []ReviewStatus{ReviewPending, ReviewApproved, ReviewRejected} {
		if !s.Valid() {
			t.Errorf("ReviewStatus(%q).Valid() = false, want true", s)
		}
	}
	if ReviewStatus("escalated").Valid() {
		t.Error("ReviewStatus(escalated).Valid() = true, want false")
	}
}

func TestStringList_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   StringList
		want string
	}{
		{name: "nil stores empty array", in: nil, want: "[]"},
		{name: "values", in: StringList{"infra", "urgent"}, want: `["infra","urgent"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.in.Value()
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if v != tt.want {
				t.Errorf("Value() = %q, want %q", v, tt.want)
			}

			var out StringList
			if err := out.Scan(v); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(out) != len(tt.in) {
				t.Errorf("Scan() = %v, want %v", out, tt.in)
			}
		})
	}
}

func TestMetadata_ReviewReason(t *testing.T) {
	tests := []struct {
		name       string
		meta       Metadata
		wantReason string
		wantTruthy bool
	}{
		{name: "nil metadata", meta: nil, wantTruthy: false},
		{name: "missing key", meta: Metadata{"owner": "agent-7"}, wantTruthy: false},
		{name: "null value", meta: Metadata{ReviewReasonKey: nil}, wantTruthy: false},
		{name: "empty string", meta: Metadata{ReviewReasonKey: ""}, wantTruthy: false},
		{name: "string reason", meta: Metadata{ReviewReasonKey: "needs human approval"}, wantReason: "needs human approval", wantTruthy: true},
		{name: "false bool", meta: Metadata{ReviewReasonKey: false}, wantTruthy: false},
		{name: "true bool", meta: Metadata{ReviewReasonKey: true}, wantTruthy: true},
		{name: "zero number", meta: Metadata{ReviewReasonKey: float64(0)}, wantTruthy: false},
		{name: "nonzero number", meta: Metadata{ReviewReasonKey: float64(3)}, wantTruthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := tt.meta.ReviewReason()
			if ok != tt.wantTruthy {
				t.Errorf("ReviewReason() truthy = %v, want %v", ok, tt.wantTruthy)
			}
			if tt.wantReason != "" && reason != tt.wantReason {
				t.Errorf("ReviewReason() = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestMetadata_ScanRoundTrip(t *testing.T) {
	in := Metadata{"review_reason": "low confidence", "attempt": float64(2)}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var out Metadata
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestMetadata_ScanUnsupportedType(t *testing.T) {
	var m Metadata
	if err := m.Scan(42); err == nil {
		t.Fatal("expected error scanning int column")
	}
}
