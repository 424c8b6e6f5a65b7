// Package collab is the port to the external agent CLI and gateway. Mission
// Control never implements agent orchestration itself; it shells out to the
// operator-configured binary and treats failures as warnings, not core errors.
package collab

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MutationKind selects the agent CLI operation.
type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationDelete MutationKind = "delete"
)

// AgentMutation describes one agent create/delete request.
type AgentMutation struct {
	Kind  MutationKind
	Agent string
	Args  []string // extra CLI arguments passed through verbatim
}

// Result is the outcome of a port call. OK is false for non-zero exits;
// Output carries combined stdout/stderr for display.
type Result struct {
	OK     bool
	Output string
}

// Port is what the core calls to mutate the external agent fleet.
type Port interface {
	ApplyAgentMutation(ctx context.Context, m AgentMutation) (Result, error)
	RestartGateway(ctx context.Context) (Result, error)
}

// CLIPort implements Port by invoking the configured agent CLI binary and
// gateway restart command.
type CLIPort struct {
	CLI            string // path to the agent CLI binary
	GatewayRestart string // shell command restarting the gateway
	Timeout        time.Duration

	// runCommand is swappable for tests; defaults to real exec.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewCLIPort builds a port for the given binary and restart command.
func NewCLIPort(cli, gatewayRestart string) *CLIPort {
	return &CLIPort{
		CLI:            cli,
		GatewayRestart: gatewayRestart,
		Timeout:        30 * time.Second,
		runCommand:     runExec,
	}
}

// ApplyAgentMutation invokes the agent CLI. A non-zero exit is reported in
// the Result, not as an error: the caller surfaces it as a warning.
func (p *CLIPort) ApplyAgentMutation(ctx context.Context, m AgentMutation) (Result, error) {
	if p.CLI == "" {
		return Result{}, fmt.Errorf("collab: no agent CLI configured")
	}
	if m.Agent == "" {
		return Result{}, fmt.Errorf("collab: agent name is required")
	}
	switch m.Kind {
	case MutationCreate, MutationDelete:
	default:
		return Result{}, fmt.Errorf("collab: unknown mutation kind %q", m.Kind)
	}

	args := append([]string{"agent", string(m.Kind), m.Agent}, m.Args...)
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := p.runCommand(ctx, p.CLI, args...)
	return resultFromRun(out, err), nil
}

// RestartGateway runs the configured gateway restart command through a shell.
func (p *CLIPort) RestartGateway(ctx context.Context) (Result, error) {
	if p.GatewayRestart == "" {
		return Result{}, fmt.Errorf("collab: no gateway restart command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := p.runCommand(ctx, "sh", "-c", p.GatewayRestart)
	return resultFromRun(out, err), nil
}

// resultFromRun converts one command run into a Result. When a failing
// command produced no output at all (binary missing, not executable), the
// exec error stands in so the caller still sees a reason.
func resultFromRun(out []byte, err error) Result {
	output := strings.TrimSpace(string(out))
	if err == nil {
		return Result{OK: true, Output: output}
	}
	if output == "" {
		output = err.Error()
	}
	return Result{OK: false, Output: output}
}

// NewSessionKey returns a fresh session key for tasks created on behalf of
// an agent.
func NewSessionKey() string {
	return uuid.NewString()
}

// runExec executes a command and returns its combined output.
func runExec(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}
