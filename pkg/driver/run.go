package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tube/interpreter-go/pkg/ast"
	"tube/interpreter-go/pkg/interpreter"
	"tube/interpreter-go/pkg/parser"
)

// Options control how RunFiles executes scripts.
type Options struct {
	Stdout    io.Writer
	Logger    *slog.Logger
	Strict    bool
	LoopBreak bool
	// Jobs bounds how many files run at once; zero means GOMAXPROCS.
	Jobs int
}

// Result is the outcome of running one file.
type Result struct {
	File        string
	Output      []byte
	Diagnostics []*ast.RuntimeError
	Err         error
}

// ParseFile reads and parses one source file with a fresh parser.
func ParseFile(path string) (*ast.Block, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(source)
}

// RunFiles parses and runs each file with its own interpreter. Files run
// concurrently; each file's output is buffered and written to opts.Stdout in
// argument order once every file has finished. A failing file does not stop
// the others; the returned error joins every per-file failure.
func RunFiles(ctx context.Context, files []string, opts Options) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for idx, file := range files {
		g.Go(func() error {
			results[idx] = runFile(ctx, file, opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if opts.Stdout != nil && len(res.Output) > 0 {
			if _, err := opts.Stdout.Write(res.Output); err != nil {
				return results, fmt.Errorf("driver: write output: %w", err)
			}
		}
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.File, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func runFile(ctx context.Context, file string, opts Options, logger *slog.Logger) Result {
	res := Result{File: file}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	logger = logger.With("file", file)
	program, err := ParseFile(file)
	if err != nil {
		res.Err = err
		logger.Debug("parse failed", "error", err)
		return res
	}

	var out bytes.Buffer
	interp := interpreter.New(
		interpreter.WithOutput(&out),
		interpreter.WithLogger(logger),
		interpreter.WithStrict(opts.Strict),
		interpreter.WithLoopBreak(opts.LoopBreak),
	)
	res.Err = interp.Run(program)
	res.Output = out.Bytes()
	res.Diagnostics = interp.Diagnostics()
	for _, diag := range res.Diagnostics {
		logger.Warn("runtime lookup failed", "line", diag.Line, "error", diag.Message)
	}
	logger.Debug("file finished", "bytes", len(res.Output), "error", res.Err)
	return res
}
