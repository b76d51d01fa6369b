// Package codegen asks the generation service for a candidate parser
// module and persists the cleaned source to disk. One candidate file
// exists per target at any time; every attempt overwrites it in place.
package codegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"parsesmith/internal/llm"
)

const systemPrompt = `You are a senior Go engineer who writes parsers for bank statement documents.`

// Request carries everything the instruction embeds for one attempt.
type Request struct {
	Target         string   // case identifier, e.g. "icici"
	Columns        []string // exact ordered output columns
	SampleName     string   // base name of the sample document
	Attempt        int      // 1-based attempt counter
	LastDiagnostic string   // prior failure summary; empty on the first attempt
}

// Generator formats generation requests and saves extracted candidates.
type Generator struct {
	client     llm.Client
	parsersDir string
	logger     *zap.Logger
}

// NewGenerator creates a generator writing candidates into parsersDir.
func NewGenerator(client llm.Client, parsersDir string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, parsersDir: parsersDir, logger: logger}
}

// Generate requests a candidate parser module and returns the raw
// completion text. Service failures surface unwrapped so the
// orchestrator can record them as attempt diagnostics.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	return g.client.CompleteWithSystem(ctx, systemPrompt, buildPrompt(req))
}

// buildPrompt assembles the task-specific instruction: target name, the
// contract the module must satisfy, the ordered column list, the sample
// file, the attempt counter, and the most recent failure diagnostic.
func buildPrompt(req Request) string {
	lastError := req.LastDiagnostic
	if lastError == "" {
		lastError = "None"
	}

	var sb strings.Builder
	sb.WriteString(`Generate a Go module that defines:

    func Parse(docPath string) (*table.Table, error)

Requirements:
  - The file must start with "package parser".
  - Import the table helpers as "parsesmith/table" and build the result
    with table.New(columns...) followed by t.Append(cells...).
  - Cells are typed: table.String(s), table.Int(i), table.Float(f).
    Cast numeric fields to int or float cells exactly as the expected
    output requires; never leave numbers as strings.
`)
	sb.WriteString(fmt.Sprintf("  - Return a table with exactly these columns (in order): %s.\n", formatColumns(req.Columns)))
	sb.WriteString(`  - Read the document with the standard library only (os, bufio,
    strings, strconv, regexp). No other imports are available.
  - Clean strings and trim spaces.
  - Must be deterministic and runnable without network access.
  - Must contain a doc comment describing its purpose.
`)
	sb.WriteString(fmt.Sprintf("\nBank name: %s.\n", strings.ToUpper(req.Target)))
	sb.WriteString(fmt.Sprintf("Sample document: %s.\n", req.SampleName))
	sb.WriteString(fmt.Sprintf("Attempt #: %d.\n", req.Attempt))
	sb.WriteString(fmt.Sprintf("Last error summary: %s.\n", lastError))
	return sb.String()
}

func formatColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// CandidatePath returns where the candidate module for a target lives.
func (g *Generator) CandidatePath(target string) string {
	return filepath.Join(g.parsersDir, fmt.Sprintf("%s_parser.go", target))
}

// Save writes cleaned candidate source for a target, overwriting any
// previous attempt. Trailing whitespace is trimmed and exactly one
// trailing newline is appended.
func (g *Generator) Save(target, code string) (string, error) {
	if err := os.MkdirAll(g.parsersDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create parsers directory: %w", err)
	}
	path := g.CandidatePath(target)
	content := strings.TrimRight(code, " \t\r\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write candidate module: %w", err)
	}
	g.logger.Info("candidate module saved",
		zap.String("target", target),
		zap.String("path", path),
		zap.Int("bytes", len(content)))
	return path, nil
}
