package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

func resetFlags() {
	evalExpr = ""
	dumpAST = false
	trace = false
}

func TestRunScriptFromFile(t *testing.T) {
	resetFlags()
	defer resetFlags()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	if err := os.WriteFile(path, []byte("var x = 21; x * 2;"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	output, err := captureStdout(t, func() error {
		return runScript(runCmd, []string{path})
	})
	if err != nil {
		t.Fatalf("runScript failed: %v\noutput: %s", err, output)
	}
	if strings.TrimSpace(output) != "42" {
		t.Errorf("expected completion value 42, got %q", output)
	}
}

func TestRunScriptInlineEval(t *testing.T) {
	resetFlags()
	defer resetFlags()
	evalExpr = `"hello " + "world"`

	output, err := captureStdout(t, func() error {
		return runScript(runCmd, nil)
	})
	if err != nil {
		t.Fatalf("runScript failed: %v\noutput: %s", err, output)
	}
	if strings.TrimSpace(output) != `"hello world"` {
		t.Errorf("expected JSON-quoted string result, got %q", output)
	}
}

func TestRunScriptRequiresFileOrEval(t *testing.T) {
	resetFlags()
	defer resetFlags()

	if err := runScript(runCmd, nil); err == nil {
		t.Fatal("expected an error when neither a file nor -e is given")
	}
}

func TestRunScriptDumpAST(t *testing.T) {
	resetFlags()
	defer resetFlags()
	evalExpr = "1 + 2"
	dumpAST = true

	output, err := captureStdout(t, func() error {
		return runScript(runCmd, nil)
	})
	if err != nil {
		t.Fatalf("runScript failed: %v\noutput: %s", err, output)
	}
	for _, want := range []string{`"type": "Program"`, `"type": "BinaryExpression"`, `"operator": "+"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected dumped AST to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRunScriptSyntaxError(t *testing.T) {
	resetFlags()
	defer resetFlags()
	evalExpr = "var = ;"

	if _, err := captureStdout(t, func() error {
		return runScript(runCmd, nil)
	}); err == nil {
		t.Fatal("expected a syntax error for malformed inline source")
	}
}
