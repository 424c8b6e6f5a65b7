package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Validation("title is required"), want: KindValidation},
		{name: "not found", err: NotFound("task %d", 42), want: KindNotFound},
		{name: "conflict", err: Conflict("duplicate cron_job_id %q", "nightly"), want: KindConflict},
		{name: "transport", err: Transport(errors.New("dial tcp: refused"), "store unreachable"), want: KindTransport},
		{name: "plain error", err: errors.New("boom"), want: 0},
		{name: "nil", err: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("task: patch 7: %w", NotFound("task 7"))
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false for wrapped not-found error")
	}
	if IsValidation(err) {
		t.Error("IsValidation() = true for not-found error")
	}
}

func TestTransport_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transport(cause, "list tasks")
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the transport cause")
	}
	if !IsTransport(err) {
		t.Error("IsTransport() = false, want true")
	}
}

func TestError_Message(t *testing.T) {
	err := Validation("title is required")
	want := "validation: title is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
