package interp

import (
	"testing"

	"github.com/cwbudde/go-jsi/internal/hostbridge"
	"github.com/cwbudde/go-jsi/pkg/estree"
)

func TestRunCompletionValue(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   interface{}
	}{
		{"arithmetic", "1 + 2 * 3;", float64(7)},
		{"string concat", `"foo" + "bar";`, "foobar"},
		{"boolean", "2 > 1;", true},
		{"function call", "function sq(x) { return x * x; } sq(5);", float64(25)},
		{"closure", "function counter() { var n = 0; return function() { n = n + 1; return n; }; } var c = counter(); c(); c();", float64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := New(tt.source)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if err := it.Run(); err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			got := it.Bridge().PseudoToNative(it.Value())
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestStepAdvancesOneNodeAtATime(t *testing.T) {
	it, err := New("var x = 1; var y = 2; x + y;")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	steps := 0
	for !it.Done() {
		it.Step()
		steps++
		if steps > 10000 {
			t.Fatal("interpreter did not finish in a reasonable number of steps")
		}
	}
	if err := it.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := it.Bridge().PseudoToNative(it.Value()); got != float64(3) {
		t.Errorf("got %#v, want 3", got)
	}
}

func TestUncaughtErrorSurfacesLineAndColumn(t *testing.T) {
	it, err := New("var x = 1;\nthrow new Error(\"boom\");")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	runErr := it.Run()
	if runErr == nil {
		t.Fatal("expected an error from an uncaught throw")
	}
	if got := runErr.Error(); got == "" {
		t.Fatal("expected a non-empty error message")
	}
	ue, ok := runErr.(*hostbridge.UncaughtError)
	if !ok || ue.Line != 2 || ue.Column != 1 {
		t.Errorf("got %#v, want an UncaughtError at line 2, column 1", runErr)
	}
}

func TestAppendCodePreservesGlobalScope(t *testing.T) {
	it, err := New("var total = 10;")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := it.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if err := it.AppendCode("total = total + 5; total;"); err != nil {
		t.Fatalf("AppendCode returned error: %v", err)
	}
	if err := it.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := it.Bridge().PseudoToNative(it.Value()); got != float64(15) {
		t.Errorf("got %#v, want 15 (expected total to carry over across AppendCode)", got)
	}
}

func TestIDIsStableAndUnique(t *testing.T) {
	a, err := New("1;")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	b, err := New("1;")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if a.ID() == "" || b.ID() == "" {
		t.Fatal("expected a non-empty ID")
	}
	if a.ID() == b.ID() {
		t.Fatal("expected distinct interpreters to have distinct IDs")
	}
	if a.ID() != a.ID() {
		t.Fatal("expected ID to be stable across calls")
	}
}

type recordingTracer struct {
	steps []uint64
}

func (r *recordingTracer) TraceStep(step uint64, node estree.Node) {
	r.steps = append(r.steps, step)
}

func TestSetTracerReceivesSteps(t *testing.T) {
	it, err := New("var x = 1; x + 1;")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	tr := &recordingTracer{}
	it.SetTracer(tr)
	if err := it.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(tr.steps) == 0 {
		t.Fatal("expected at least one traced step")
	}
}
