package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parsesmith/internal/codegen"
	"parsesmith/internal/fixtures"
	"parsesmith/internal/sandbox"
)

// scriptedClient replays canned completions and records every prompt.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

func (c *scriptedClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, user)
	if i >= len(c.responses) {
		return "", fmt.Errorf("unexpected call %d", i+1)
	}
	if c.errs != nil && c.errs[i] != nil {
		return "", c.errs[i]
	}
	return c.responses[i], nil
}

const goodSource = `package parser

import (
	"os"
	"strconv"
	"strings"

	"parsesmith/table"
)

// Parse extracts name,value rows from the sample document.
func Parse(docPath string) (*table.Table, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, err
	}
	t := table.New("Name", "Value")
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		parts := strings.SplitN(line, ",", 2)
		v, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, err
		}
		if err := t.Append(table.String(strings.TrimSpace(parts[0])), table.Int(v)); err != nil {
			return nil, err
		}
	}
	return t, nil
}
`

// shortSource parses only the first line, producing a row-count mismatch.
const shortSource = `package parser

import (
	"os"
	"strconv"
	"strings"

	"parsesmith/table"
)

func Parse(docPath string) (*table.Table, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, err
	}
	line := strings.Split(strings.TrimSpace(string(data)), "\n")[0]
	parts := strings.SplitN(line, ",", 2)
	v, _ := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	t := table.New("Name", "Value")
	_ = t.Append(table.String(parts[0]), table.Int(v))
	return t, nil
}
`

const brokenSource = "package parser\n\nfunc Parse( {\n"

func fenced(src string) string {
	return "Here you go:\n```go\n" + src + "```\nHope that helps!"
}

// newTestLoop builds a loop over a real fixture directory and a real
// yaegi loader, with only the completion client scripted.
func newTestLoop(t *testing.T, client *scriptedClient) *Loop {
	t.Helper()
	workspace := t.TempDir()
	targetDir := filepath.Join(workspace, "data", "icici")
	require.NoError(t, os.MkdirAll(targetDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "statement.txt"), []byte("alpha,1\nbeta,2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "expected.csv"), []byte("Name,Value\nalpha,1\nbeta,2\n"), 0o644))

	fx, err := fixtures.Locate(filepath.Join(workspace, "data"), "icici")
	require.NoError(t, err)

	gen := codegen.NewGenerator(client, filepath.Join(workspace, "parsers"), zap.NewNop())
	return New(gen, sandbox.NewLoader(), fx, []string{"Name", "Value"}, 3, zap.NewNop())
}

func TestRunFirstAttemptSucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{fenced(goodSource)}}
	loop := newTestLoop(t, client)

	outcome := loop.Run(context.Background())
	assert.Equal(t, StateSuccess, outcome.State)
	require.Len(t, outcome.Attempts, 1)
	assert.True(t, outcome.Attempts[0].OK)
	assert.Contains(t, outcome.Attempts[0].Diagnostic, "exact match")
	assert.FileExists(t, outcome.ModulePath)
	assert.Equal(t, 1, client.calls)
}

func TestRunLoadFailureFeedsDiagnosticForward(t *testing.T) {
	// Attempt 1 generates invalid syntax; attempt 2 succeeds with the
	// load diagnostic embedded in its generation request.
	client := &scriptedClient{responses: []string{fenced(brokenSource), fenced(goodSource)}}
	loop := newTestLoop(t, client)

	outcome := loop.Run(context.Background())
	assert.Equal(t, StateSuccess, outcome.State)
	require.Len(t, outcome.Attempts, 2)

	first := outcome.Attempts[0]
	assert.False(t, first.OK)
	assert.Contains(t, first.Diagnostic, "failed to load module")

	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[0], "Last error summary: None.")
	assert.Contains(t, client.prompts[1], "Attempt #: 2.")
	assert.Contains(t, client.prompts[1], "failed to load module")
}

func TestRunShapeMismatchRetries(t *testing.T) {
	client := &scriptedClient{responses: []string{fenced(shortSource), fenced(goodSource)}}
	loop := newTestLoop(t, client)

	outcome := loop.Run(context.Background())
	assert.Equal(t, StateSuccess, outcome.State)
	require.Len(t, outcome.Attempts, 2)
	assert.Contains(t, outcome.Attempts[0].Diagnostic, "shape mismatch")
	assert.Contains(t, client.prompts[1], "shape mismatch")
}

func TestRunGenerationErrorIsAttemptLocal(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"", fenced(goodSource)},
		errs:      []error{errors.New("status 429"), nil},
	}
	loop := newTestLoop(t, client)

	outcome := loop.Run(context.Background())
	assert.Equal(t, StateSuccess, outcome.State)
	require.Len(t, outcome.Attempts, 2)
	assert.Contains(t, outcome.Attempts[0].Diagnostic, "generation failed")
	assert.Empty(t, outcome.Attempts[0].ModulePath)
	assert.Contains(t, client.prompts[1], "generation failed")
}

func TestRunExhaustedAfterMaxAttempts(t *testing.T) {
	client := &scriptedClient{responses: []string{
		fenced(brokenSource), fenced(brokenSource), fenced(brokenSource),
	}}
	loop := newTestLoop(t, client)

	outcome := loop.Run(context.Background())
	assert.Equal(t, StateExhausted, outcome.State)
	assert.Len(t, outcome.Attempts, 3)
	assert.Equal(t, 3, client.calls, "no 4th generation request after the retry bound")
	assert.Empty(t, outcome.ModulePath)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_attempt", StateAwaitingAttempt.String())
	assert.Equal(t, "verifying", StateVerifying.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "unknown", State(99).String())
}
