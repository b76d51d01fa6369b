// Package agent drives the generate-execute-verify-retry loop.
//
// The loop is a small state machine:
//
//	AwaitingAttempt(n) -> generate, extract, persist -> Verifying
//	Verifying, pass                        -> Success   (terminal)
//	Verifying, fail, n <  max attempts     -> AwaitingAttempt(n+1)
//	Verifying, fail, n == max attempts     -> Exhausted (terminal)
//
// Generation-service and module-load failures are attempt-local: they
// become that attempt's diagnostic and the loop moves on, unless they
// land on the final attempt, in which case the run ends Exhausted.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"parsesmith/internal/codegen"
	"parsesmith/internal/fixtures"
	"parsesmith/internal/sandbox"
	"parsesmith/internal/verify"
)

// State identifies where in the loop the run is.
type State int

const (
	StateAwaitingAttempt State = iota
	StateVerifying
	StateSuccess
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateAwaitingAttempt:
		return "awaiting_attempt"
	case StateVerifying:
		return "verifying"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Attempt records one generate->verify cycle.
type Attempt struct {
	Number     int
	Source     string // extracted candidate source, empty if generation failed
	ModulePath string // persisted path, empty if nothing was saved
	OK         bool
	Diagnostic string
}

// Outcome is the terminal result of a run.
type Outcome struct {
	State      State
	Attempts   []Attempt
	ModulePath string // path of the accepted candidate on success
}

// Loop orchestrates attempts for a single target.
type Loop struct {
	gen         *codegen.Generator
	loader      *sandbox.Loader
	fixture     *fixtures.Fixture
	columns     []string
	maxAttempts int
	logger      *zap.Logger
}

// New creates a loop for one target's fixture and expected schema.
func New(gen *codegen.Generator, loader *sandbox.Loader, fixture *fixtures.Fixture, columns []string, maxAttempts int, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		gen:         gen,
		loader:      loader,
		fixture:     fixture,
		columns:     columns,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Run executes up to maxAttempts attempts and returns the terminal
// outcome. It never returns early on attempt-local failures; only
// Success short-circuits.
func (l *Loop) Run(ctx context.Context) *Outcome {
	outcome := &Outcome{State: StateAwaitingAttempt}
	lastDiagnostic := ""

	for n := 1; n <= l.maxAttempts; n++ {
		att := l.runAttempt(ctx, n, lastDiagnostic)
		outcome.Attempts = append(outcome.Attempts, att)

		l.logger.Info("attempt finished",
			zap.String("target", l.fixture.Target),
			zap.Int("attempt", att.Number),
			zap.Bool("ok", att.OK),
			zap.String("diagnostic", firstLine(att.Diagnostic)))

		if att.OK {
			outcome.State = StateSuccess
			outcome.ModulePath = att.ModulePath
			return outcome
		}
		lastDiagnostic = att.Diagnostic
	}

	outcome.State = StateExhausted
	return outcome
}

func (l *Loop) runAttempt(ctx context.Context, n int, lastDiagnostic string) Attempt {
	att := Attempt{Number: n}

	raw, err := l.gen.Generate(ctx, codegen.Request{
		Target:         l.fixture.Target,
		Columns:        l.columns,
		SampleName:     l.fixture.SampleName(),
		Attempt:        n,
		LastDiagnostic: lastDiagnostic,
	})
	if err != nil {
		att.Diagnostic = fmt.Sprintf("generation failed: %v", err)
		return att
	}

	att.Source = codegen.ExtractCode(raw)
	path, err := l.gen.Save(l.fixture.Target, att.Source)
	if err != nil {
		att.Diagnostic = fmt.Sprintf("failed to persist candidate: %v", err)
		return att
	}
	att.ModulePath = path

	mod, err := l.loader.Load(path)
	if err != nil {
		att.Diagnostic = err.Error()
		return att
	}

	att.OK, att.Diagnostic = verify.Verify(mod, l.fixture.DocumentPath, l.fixture.TablePath)
	return att
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
