package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project file FindConfig looks for.
const ConfigFileName = "tube.yml"

// Config represents the parsed contents of tube.yml.
type Config struct {
	Path      string
	Name      string
	Entries   []string
	Strict    bool
	LoopBreak bool
	Trace     bool
	Jobs      int
}

type configFile struct {
	Name      string   `yaml:"name"`
	Entries   []string `yaml:"entries"`
	Strict    bool     `yaml:"strict"`
	LoopBreak bool     `yaml:"loop_break"`
	Trace     bool     `yaml:"trace"`
	Jobs      int      `yaml:"jobs"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses tube.yml from disk. Entry paths are resolved against
// the directory holding the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := parseConfig(data, filepath.Dir(absPath))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	cfg.Path = absPath
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var errEmptyConfig = errors.New("file is empty")

func parseConfig(data []byte, dir string) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var raw configFile
	switch err := dec.Decode(&raw); {
	case errors.Is(err, io.EOF):
		return nil, errEmptyConfig
	case err != nil:
		return nil, err
	}

	cfg := &Config{
		Name:      strings.TrimSpace(raw.Name),
		Strict:    raw.Strict,
		LoopBreak: raw.LoopBreak,
		Trace:     raw.Trace,
		Jobs:      raw.Jobs,
		Entries:   make([]string, 0, len(raw.Entries)),
	}
	for _, entry := range raw.Entries {
		if entry = strings.TrimSpace(entry); entry != "" && !filepath.IsAbs(entry) {
			entry = filepath.Join(dir, entry)
		}
		cfg.Entries = append(cfg.Entries, entry)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if c.Jobs < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("jobs must not be negative (got %d)", c.Jobs))
	}
	seen := make(map[string]int, len(c.Entries))
	for i, entry := range c.Entries {
		if entry == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entries[%d] must be a non-empty path", i))
			continue
		}
		if prev, ok := seen[entry]; ok {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entries[%d] duplicates entries[%d]", i, prev))
			continue
		}
		seen[entry] = i
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ErrNoConfig is returned by FindConfig when no tube.yml exists up to the
// filesystem root.
var ErrNoConfig = errors.New("config: no " + ConfigFileName + " found")

// FindConfig walks from dir towards the root and returns the path of the
// first tube.yml it finds.
func FindConfig(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ConfigFileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoConfig
		}
		abs = parent
	}
}

// Options returns run options carrying the config's settings.
func (c *Config) Options() Options {
	return Options{Strict: c.Strict, LoopBreak: c.LoopBreak, Jobs: c.Jobs}
}
