package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tube/interpreter-go/pkg/ast"
)

func writeScripts(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, source := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(source), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestRunFilesKeepsArgumentOrder(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"a.js": "let n = 0;\nwhile (n < 200) n++;\nprint(\"a \", n);\n",
		"b.js": "print(\"b\");\n",
		"c.js": "print(\"c\");\n",
	})
	files := []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "b.js"),
		filepath.Join(dir, "c.js"),
	}

	var out bytes.Buffer
	results, err := RunFiles(context.Background(), files, Options{Stdout: &out, Jobs: 3})
	if err != nil {
		t.Fatalf("RunFiles returned error: %v", err)
	}
	if got, want := out.String(), "a 200\nb\nc\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	if len(results) != 3 || results[1].File != files[1] || string(results[1].Output) != "b\n" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestRunFilesCollectsFailures(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"ok.js":      "print(1);\n",
		"broken.js":  "print(nope);\n",
		"lenient.js": "let o = {};\nprint(o.x);\n",
	})
	files := []string{
		filepath.Join(dir, "broken.js"),
		filepath.Join(dir, "ok.js"),
		filepath.Join(dir, "missing.js"),
		filepath.Join(dir, "lenient.js"),
	}

	var out bytes.Buffer
	results, err := RunFiles(context.Background(), files, Options{Stdout: &out})
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, files[0]+": line 1: unknown variable 'nope'") {
		t.Fatalf("missing parse failure in %q", msg)
	}
	if !strings.Contains(msg, "driver: read "+files[2]) {
		t.Fatalf("missing read failure in %q", msg)
	}
	if got, want := out.String(), "1\nundefined\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	if results[1].Err != nil || results[3].Err != nil {
		t.Fatalf("healthy files reported errors: %v, %v", results[1].Err, results[3].Err)
	}
	if len(results[3].Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", results[3].Diagnostics)
	}
}

func TestRunFilesStrictOption(t *testing.T) {
	dir := writeScripts(t, map[string]string{
		"strict.js": "let o = {};\nprint(o.x);\n",
	})
	_, err := RunFiles(context.Background(), []string{filepath.Join(dir, "strict.js")}, Options{Strict: true})
	var rerr *ast.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
	if rerr.Line != 2 {
		t.Fatalf("RuntimeError.Line = %d, want 2", rerr.Line)
	}
}

func TestRunFilesHonorsCancellation(t *testing.T) {
	dir := writeScripts(t, map[string]string{"a.js": "print(1);\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunFiles(ctx, []string{filepath.Join(dir, "a.js")}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results[0].Output) != 0 {
		t.Fatalf("cancelled file produced output: %q", results[0].Output)
	}
}

func TestParseFile(t *testing.T) {
	dir := writeScripts(t, map[string]string{"p.js": "let x = 1 + 2;\n"})
	block, err := ParseFile(filepath.Join(dir, "p.js"))
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if block.Scoped {
		t.Fatalf("program block should be unscoped")
	}
}
