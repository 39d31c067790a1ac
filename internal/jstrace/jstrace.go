// Package jstrace emits one structured log line per evaluator step, via
// github.com/charmbracelet/log. It implements internal/interp.Tracer, and
// is wired into Interpreter.SetTracer by cmd/jsi's `--trace` flag.
package jstrace

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/go-jsi/pkg/estree"
)

// Tracer logs each step at Debug level, tagged with the owning
// interpreter's id so several concurrently running interpreters can be
// told apart in merged output.
type Tracer struct {
	logger *log.Logger
	id     string
}

// New builds a Tracer writing to w, tagged with id (typically
// Interpreter.ID()). Pass "" for id to omit the tag.
func New(w io.Writer, id string) *Tracer {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           log.DebugLevel,
	})
	if id != "" {
		logger = logger.With("interp", id)
	}
	return &Tracer{logger: logger, id: id}
}

// TraceStep implements internal/interp.Tracer.
func (t *Tracer) TraceStep(step uint64, node estree.Node) {
	start, end, hasPos := node.Range()
	if hasPos {
		t.logger.Debug("step", "n", step, "node", node.Kind(), "start", start, "end", end)
		return
	}
	t.logger.Debug("step", "n", step, "node", node.Kind())
}
