package jstrace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-jsi/pkg/estree"
)

func TestTraceStepLogsNodeAndPosition(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, "")

	node := &estree.ExpressionStatement{Pos: estree.Pos{Start: 3, End: 10, HasPos: true}}
	tr.TraceStep(1, node)

	out := buf.String()
	if !strings.Contains(out, "ExpressionStatement") {
		t.Errorf("expected log line to mention node kind, got %q", out)
	}
	if !strings.Contains(out, "3") || !strings.Contains(out, "10") {
		t.Errorf("expected log line to mention start/end offsets, got %q", out)
	}
}

func TestTraceStepWithoutPositionOmitsOffsets(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, "")

	node := &estree.ExpressionStatement{}
	tr.TraceStep(2, node)

	out := buf.String()
	if !strings.Contains(out, "ExpressionStatement") {
		t.Errorf("expected log line to mention node kind, got %q", out)
	}
	if strings.Contains(out, "start") {
		t.Errorf("expected no start/end fields for a position-stripped node, got %q", out)
	}
}

func TestTraceStepTagsInterpreterID(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, "abc-123")

	tr.TraceStep(1, &estree.ExpressionStatement{})

	out := buf.String()
	if !strings.Contains(out, "abc-123") {
		t.Errorf("expected log line to include the interpreter id, got %q", out)
	}
}
