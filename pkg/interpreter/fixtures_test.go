package interpreter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"tube/interpreter-go/pkg/parser"
)

type fixtureFile struct {
	Cases []fixtureCase `yaml:"cases"`
}

type fixtureCase struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Stdout      string `yaml:"stdout"`
	Error       string `yaml:"error"`
	Strict      bool   `yaml:"strict"`
	LoopBreak   bool   `yaml:"loop_break"`
	Diagnostics int    `yaml:"diagnostics"`
}

func readFixtures(t *testing.T, path string) fixtureFile {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file fixtureFile
	if err := dec.Decode(&file); err != nil {
		t.Fatalf("parse fixture %s: %v", path, err)
	}
	return file
}

func TestFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "fixtures", "*.yml"))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures found")
	}
	for _, path := range paths {
		group := strings.TrimSuffix(filepath.Base(path), ".yml")
		for _, fc := range readFixtures(t, path).Cases {
			t.Run(group+"/"+fc.Name, func(t *testing.T) {
				runFixture(t, fc)
			})
		}
	}
}

func runFixture(t *testing.T, fc fixtureCase) {
	t.Helper()
	p, err := parser.New()
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	defer p.Close()

	var stdout bytes.Buffer
	interp := New(WithOutput(&stdout), WithStrict(fc.Strict), WithLoopBreak(fc.LoopBreak))
	program, err := p.Parse([]byte(fc.Source))
	if err == nil {
		err = interp.Run(program)
	}

	if fc.Error != "" {
		if err == nil {
			t.Fatalf("expected error containing %q, got none", fc.Error)
		}
		if !strings.Contains(err.Error(), fc.Error) {
			t.Fatalf("expected error containing %q, got %q", fc.Error, err.Error())
		}
	} else if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(fc.Stdout, stdout.String()); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
	if got := len(interp.Diagnostics()); got != fc.Diagnostics {
		t.Fatalf("expected %d diagnostics, got %d: %v", fc.Diagnostics, got, interp.Diagnostics())
	}
}
