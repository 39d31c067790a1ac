package hostbridge

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-jsi/internal/evaluator"
	"github.com/cwbudde/go-jsi/internal/value"
)

// UncaughtError is the Go error a host sees when a program throws with no
// surrounding try/catch. Line/Column are best-effort: 1-based, computed
// from the byte offset the evaluator captured when the throw was raised,
// against the source text the owning Interpreter was constructed with.
// Formatting mirrors the teacher's InterpreterError.Error().
type UncaughtError struct {
	Name    string
	Message string
	Line    int
	Column  int
	Value   value.Value
}

func (u *UncaughtError) Error() string {
	if u.Line == 0 {
		return fmt.Sprintf("%s error: %s", u.Name, u.Message)
	}
	return fmt.Sprintf("%s error at line %d, column %d: %s", u.Name, u.Line, u.Column, u.Message)
}

// FromEvaluatorError converts whatever internal/evaluator's Step machinery
// stopped with into the host-facing error shape. source is the original
// program text, used to translate the evaluator's best-effort byte offset
// into a line/column pair; pass "" when no source text is available (e.g.
// an AST handed in directly), in which case Line/Column are left at 0.
func FromEvaluatorError(err error, source string) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(*evaluator.UncaughtError); ok {
		line, col := 0, 0
		if ue.HasPos && source != "" {
			line, col = lineCol(source, ue.Start)
		}
		return &UncaughtError{Name: ue.Name, Message: ue.Message, Line: line, Column: col, Value: ue.Value}
	}
	return err
}

// lineCol converts a byte offset into 1-based line/column numbers by
// counting newlines up to offset.
func lineCol(source string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	prefix := source[:offset]
	line = strings.Count(prefix, "\n") + 1
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = offset - idx
	} else {
		col = offset + 1
	}
	return line, col
}
