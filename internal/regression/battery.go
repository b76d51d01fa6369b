// Package regression runs the post-success regression battery: a
// YAML-defined list of shell tasks executed once a candidate parser has
// passed verification. Task exit codes are reported but never alter the
// already-determined outcome of the generation loop.
package regression

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Battery is a collection of regression tasks.
type Battery struct {
	Version int    `yaml:"version"`
	Tasks   []Task `yaml:"tasks"`
}

// Task is a single regression task. Currently supported: type=shell.
type Task struct {
	ID         string `yaml:"id"`
	Type       string `yaml:"type"` // "shell"
	Command    string `yaml:"command"`
	TimeoutSec int    `yaml:"timeout_sec,omitempty"`
}

// Result captures execution outcome for a task.
type Result struct {
	TaskID     string
	Success    bool
	ExitCode   int
	Output     string
	Error      string
	DurationMs int64
}

// DefaultBattery returns the battery used when no file is configured: a
// single run of the workspace's own test suite with implicit discovery.
func DefaultBattery() *Battery {
	return &Battery{
		Version: 1,
		Tasks: []Task{
			{ID: "go-test", Type: "shell", Command: "go test ./...", TimeoutSec: 300},
		},
	}
}

// LoadBattery reads a YAML battery file from disk.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse battery YAML: %w", err)
	}
	return &b, nil
}

// Run executes all tasks in order using the local shell. workdir is the
// subprocess working directory when non-empty. Every task runs even if
// an earlier one failed; the hook reports, it does not gate.
func Run(ctx context.Context, b *Battery, workdir string) []Result {
	if b == nil || len(b.Tasks) == 0 {
		return nil
	}

	results := make([]Result, 0, len(b.Tasks))
	for _, task := range b.Tasks {
		start := time.Now()
		t := strings.ToLower(strings.TrimSpace(task.Type))
		if t == "" {
			t = "shell"
		}

		res := Result{TaskID: task.ID}
		switch t {
		case "shell":
			timeout := time.Duration(task.TimeoutSec) * time.Second
			if timeout <= 0 {
				timeout = 5 * time.Minute
			}
			tctx, cancel := context.WithTimeout(ctx, timeout)
			out, code, err := runShell(tctx, task.Command, workdir)
			cancel()
			res.Output = out
			res.ExitCode = code
			if err != nil {
				res.Success = false
				res.Error = err.Error()
			} else {
				res.Success = true
			}
		default:
			res.Success = false
			res.ExitCode = -1
			res.Error = fmt.Sprintf("unsupported task type: %s", task.Type)
		}

		res.DurationMs = time.Since(start).Milliseconds()
		results = append(results, res)
	}

	return results
}

func runShell(ctx context.Context, command string, workdir string) (string, int, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", -1, fmt.Errorf("empty command")
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", command)
	} else {
		cmd = exec.CommandContext(ctx, "bash", "-lc", command)
	}
	if workdir != "" {
		cmd.Dir = workdir
	}

	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return string(out), -1, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), fmt.Errorf("command failed (%s): %w", command, err)
		}
		return string(out), -1, fmt.Errorf("command failed (%s): %w", command, err)
	}
	return string(out), 0, nil
}
