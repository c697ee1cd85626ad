package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"tube/interpreter-go/pkg/driver"
)

const cliToolVersion = "tube-cli 0.0.0-dev"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runFiles(args[1:])
	case "check":
		return checkFiles(args[1:])
	case "ast":
		return dumpAST(args[1:])
	case "repl":
		return runRepl(args[1:])
	default:
		return runFiles(args)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: tube <command> [flags] [files...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  run [files...]   run scripts (defaults to tube.yml entries)")
	fmt.Fprintln(w, "  check [files...] parse scripts without running them")
	fmt.Fprintln(w, "  ast <file>       print the compiled tree as JSON")
	fmt.Fprintln(w, "  repl             start an interactive session")
	fmt.Fprintln(w, "  version          print the tool version")
}

type runFlags struct {
	strict     bool
	loopBreak  bool
	trace      bool
	jobs       int
	configPath string
}

func newFlagSet(name string, rf *runFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&rf.strict, "strict", false, "fail on missing properties and indices")
	fs.BoolVar(&rf.loopBreak, "loop-break", false, "let break leave the innermost loop")
	fs.BoolVar(&rf.trace, "trace", false, "log scope and evaluation events to stderr")
	fs.IntVarP(&rf.jobs, "jobs", "j", 0, "files to run concurrently (0 means GOMAXPROCS)")
	fs.StringVarP(&rf.configPath, "config", "c", "", "path to "+driver.ConfigFileName)
	return fs
}

func (rf *runFlags) logger() *slog.Logger {
	if !rf.trace {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// resolve merges tube.yml settings with the command line. Boolean flags can
// only switch options on.
func (rf *runFlags) resolve(fs *pflag.FlagSet) ([]string, driver.Options, error) {
	files := fs.Args()
	opts := driver.Options{Strict: rf.strict, LoopBreak: rf.loopBreak, Jobs: rf.jobs}

	path := rf.configPath
	if path == "" && len(files) == 0 {
		found, err := driver.FindConfig(".")
		if err != nil {
			if errors.Is(err, driver.ErrNoConfig) {
				return nil, opts, fmt.Errorf("no files given and %s not found", driver.ConfigFileName)
			}
			return nil, opts, err
		}
		path = found
	}
	if path == "" {
		return files, opts, nil
	}

	cfg, err := driver.LoadConfig(path)
	if err != nil {
		return nil, opts, err
	}
	base := cfg.Options()
	opts.Strict = opts.Strict || base.Strict
	opts.LoopBreak = opts.LoopBreak || base.LoopBreak
	if !fs.Changed("jobs") {
		opts.Jobs = base.Jobs
	}
	rf.trace = rf.trace || cfg.Trace
	if len(files) == 0 {
		files = cfg.Entries
	}
	if len(files) == 0 {
		return nil, opts, fmt.Errorf("%s lists no entries", cfg.Path)
	}
	return files, opts, nil
}

func runFiles(args []string) int {
	var rf runFlags
	fs := newFlagSet("run", &rf)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files, opts, err := rf.resolve(fs)
	if err != nil {
		fmt.Fprintf(stderr, "tube run: %v\n", err)
		return 1
	}
	opts.Stdout = stdout
	opts.Logger = rf.logger()

	results, err := driver.RunFiles(context.Background(), files, opts)
	for _, res := range results {
		for _, diag := range res.Diagnostics {
			fmt.Fprintf(stderr, "warning: %s: %v\n", res.File, diag)
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func checkFiles(args []string) int {
	var rf runFlags
	fs := newFlagSet("check", &rf)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files, _, err := rf.resolve(fs)
	if err != nil {
		fmt.Fprintf(stderr, "tube check: %v\n", err)
		return 1
	}
	failed := false
	for _, file := range files {
		if _, err := driver.ParseFile(file); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", file, err)
			failed = true
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", file)
	}
	if failed {
		return 1
	}
	return 0
}

func dumpAST(args []string) int {
	fs := pflag.NewFlagSet("ast", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	indent := fs.Bool("indent", true, "indent the JSON output")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "tube ast requires exactly one file")
		return 1
	}
	program, err := driver.ParseFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(program); err != nil {
		fmt.Fprintf(stderr, "encode ast: %v\n", err)
		return 1
	}
	return 0
}
