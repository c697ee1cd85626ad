package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"tube/interpreter-go/pkg/ast"
	"tube/interpreter-go/pkg/runtime"
)

// ErrStrayBreak is returned when a break escapes every loop at run time.
var ErrStrayBreak = errors.New("interpreter: break outside of loop")

// Interpreter evaluates Tube programs. Each Run starts from an empty global
// scope; a Session keeps one alive across evaluations.
type Interpreter struct {
	out       io.Writer
	logger    *slog.Logger
	strict    bool
	loopBreak bool

	diagnostics []*ast.RuntimeError
}

type Option func(*Interpreter)

// WithOutput sets where Print writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithStrict makes missing property and index reads fail the run instead of
// yielding undefined.
func WithStrict(strict bool) Option {
	return func(i *Interpreter) { i.strict = strict }
}

// WithLoopBreak makes break leave the innermost loop. Without it break does
// nothing.
func WithLoopBreak(enabled bool) Option {
	return func(i *Interpreter) { i.loopBreak = enabled }
}

// New returns an interpreter configured by opts.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		out:    os.Stdout,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Diagnostics returns the lookup errors reported so far in lenient mode.
func (i *Interpreter) Diagnostics() []*ast.RuntimeError {
	return i.diagnostics
}

func (i *Interpreter) newEnv(scopes *runtime.Environment) *ast.Env {
	env := ast.NewEnv(scopes, i.out)
	env.Logger = i.logger
	env.Strict = i.strict
	env.LoopBreak = i.loopBreak
	env.Report = func(err *ast.RuntimeError) {
		i.diagnostics = append(i.diagnostics, err)
	}
	return env
}

// Run evaluates program in a fresh global scope, which is exited afterwards.
func (i *Interpreter) Run(program ast.Node) error {
	start := time.Now()
	s := i.NewSession()
	err := s.Eval(program)
	if closeErr := s.Close(); err == nil {
		err = closeErr
	}
	i.logger.Debug("run finished", "elapsed", time.Since(start), "diagnostics", len(i.diagnostics), "error", err)
	return err
}

// Session is an open global scope that successive programs evaluate in.
type Session struct {
	scopes *runtime.Environment
	env    *ast.Env
	closed bool
}

// NewSession enters a global scope and returns a session over it.
func (i *Interpreter) NewSession() *Session {
	scopes := runtime.NewEnvironment(i.logger)
	scopes.EnterScope()
	return &Session{scopes: scopes, env: i.newEnv(scopes)}
}

// Eval evaluates program in the session's global scope. Bindings it
// declares stay visible to later calls.
func (s *Session) Eval(program ast.Node) error {
	if s.closed {
		return fmt.Errorf("interpreter: session is closed")
	}
	if program == nil {
		return nil
	}
	cell, err := program.Evaluate(s.env)
	if ast.IsBreak(err) {
		return ErrStrayBreak
	}
	if err != nil {
		return err
	}
	s.scopes.ReleaseIfTemporary(cell)
	return nil
}

// Lookup returns the current value bound to a global name.
func (s *Session) Lookup(name string) (runtime.Value, bool) {
	cell, ok := s.scopes.Lookup(name)
	if !ok {
		return nil, false
	}
	return runtime.ValueOf(cell), true
}

// Names lists the bound names in sorted order.
func (s *Session) Names() []string {
	return s.scopes.Keys()
}

// Close exits the global scope. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.scopes.ExitScope()
}
