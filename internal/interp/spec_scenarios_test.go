package interp

import (
	"testing"

	"github.com/cwbudde/go-jsi/internal/hostbridge"
	"github.com/cwbudde/go-jsi/internal/value"
)

// TestConcreteEndToEndScenarios runs the interpreter end to end against the
// scenarios it is expected to get right, covering null/NaN handling,
// isFinite, JSON round-tripping, Array.prototype.map, a Fibonacci sequence,
// thrown errors (uncaught and caught), a host-injected native, and a
// host-injected async native's pause/resume behavior.
func TestConcreteEndToEndScenarios(t *testing.T) {
	t.Run("null value", func(t *testing.T) {
		it := mustNew(t, "null;")
		mustRun(t, it)
		if got := it.Bridge().PseudoToNative(it.Value()); got != nil {
			t.Errorf("got %#v, want nil", got)
		}
	})

	t.Run("NaN and isNaN", func(t *testing.T) {
		it := mustNew(t, "[isNaN(NaN), isNaN(null)];")
		mustRun(t, it)
		got, ok := it.Bridge().PseudoToNative(it.Value()).([]interface{})
		if !ok || len(got) != 2 {
			t.Fatalf("expected a 2-element array, got %#v", it.Bridge().PseudoToNative(it.Value()))
		}
		if got[0] != true {
			t.Errorf("isNaN(NaN) = %v, want true", got[0])
		}
		if got[1] != false {
			t.Errorf("isNaN(null) = %v, want false", got[1])
		}
	})

	t.Run("isFinite", func(t *testing.T) {
		it := mustNew(t, "[isFinite(Infinity), isFinite(1)];")
		mustRun(t, it)
		got := it.Bridge().PseudoToNative(it.Value()).([]interface{})
		if got[0] != false {
			t.Errorf("isFinite(Infinity) = %v, want false", got[0])
		}
		if got[1] != true {
			t.Errorf("isFinite(1) = %v, want true", got[1])
		}
	})

	t.Run("JSON round trip", func(t *testing.T) {
		it := mustNew(t, `JSON.stringify(JSON.parse('{"a":10}'));`)
		mustRun(t, it)
		if got := it.Bridge().PseudoToNative(it.Value()); got != `{"a":10}` {
			t.Errorf("got %#v, want {\"a\":10}", got)
		}
	})

	t.Run("Array.prototype.map", func(t *testing.T) {
		it := mustNew(t, `new Array('1','2','3').map(function(x){return 'm'+x;});`)
		mustRun(t, it)
		got, ok := it.Bridge().PseudoToNative(it.Value()).([]interface{})
		if !ok || len(got) != 3 {
			t.Fatalf("expected a 3-element array, got %#v", it.Bridge().PseudoToNative(it.Value()))
		}
		want := []interface{}{"m1", "m2", "m3"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("Fibonacci sequence", func(t *testing.T) {
		it := mustNew(t, `
			var fib = [1, 1];
			for (var i = 2; i < 16; i++) {
				fib.push(fib[i - 1] + fib[i - 2]);
			}
			fib;
		`)
		mustRun(t, it)
		got, ok := it.Bridge().PseudoToNative(it.Value()).([]interface{})
		if !ok || len(got) != 16 {
			t.Fatalf("expected a 16-element array, got %#v", it.Bridge().PseudoToNative(it.Value()))
		}
		want := []float64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987}
		for i, w := range want {
			if got[i] != w {
				t.Errorf("fib[%d] = %v, want %v", i, got[i], w)
			}
		}
	})

	t.Run("uncaught throw surfaces host error with message", func(t *testing.T) {
		it := mustNew(t, `throw new Error('x');`)
		err := it.Run()
		if err == nil {
			t.Fatal("expected an uncaught error")
		}
		ue, ok := err.(*hostbridge.UncaughtError)
		if !ok || ue.Message != "x" {
			t.Errorf("got %#v, want an UncaughtError with message \"x\"", err)
		}
	})

	t.Run("caught throw exposes error properties", func(t *testing.T) {
		it := mustNew(t, `
			var caught;
			try {
				throw new Error('x');
			} catch (err) {
				caught = err.message;
			}
			caught;
		`)
		mustRun(t, it)
		if got := it.Bridge().PseudoToNative(it.Value()); got != "x" {
			t.Errorf("got %#v, want \"x\"", got)
		}
	})

	t.Run("host-injected async native pauses and resumes Run", func(t *testing.T) {
		it := mustNew(t, "asyncTen();")
		var resolve func(value.Value)
		fn := it.Bridge().CreateAsyncFunction("asyncTen", func(call *value.Call, res func(value.Value), reject func(error)) {
			resolve = res
		})
		it.globals.GlobalScope.Declare("asyncTen", fn)

		if err := it.Run(); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if !it.Paused() {
			t.Fatal("expected Run to stop paused awaiting the async native's resolution")
		}
		if it.Done() {
			t.Fatal("a paused evaluator should not report Done")
		}

		resolve(it.Bridge().CreatePrimitive(float64(10)))

		if err := it.Run(); err != nil {
			t.Fatalf("Run returned error after resolution: %v", err)
		}
		if !it.Done() {
			t.Fatal("expected the interpreter to finish once the async native resolved")
		}
		if got := it.Bridge().PseudoToNative(it.Value()); got != float64(10) {
			t.Errorf("got %#v, want 10", got)
		}
	})

	t.Run("host-injected native is callable", func(t *testing.T) {
		it := mustNew(t, "boundFunction();")
		fn := it.Bridge().CreateNativeFunction("boundFunction", 0, func(call *value.Call) (value.Value, error) {
			return it.Bridge().CreatePrimitive(float64(10)), nil
		})
		it.globals.GlobalScope.Declare("boundFunction", fn)
		mustRun(t, it)
		if got := it.Bridge().PseudoToNative(it.Value()); got != float64(10) {
			t.Errorf("got %#v, want 10", got)
		}
	})
}

func mustNew(t *testing.T, source string) *Interpreter {
	t.Helper()
	it, err := New(source)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return it
}

func mustRun(t *testing.T, it *Interpreter) {
	t.Helper()
	if err := it.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
