package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"tube/interpreter-go/pkg/interpreter"
	"tube/interpreter-go/pkg/parser"
	"tube/interpreter-go/pkg/runtime"
)

const (
	promptMain  = "tube> "
	promptCont  = "  ... "
	historyFile = ".tube_history"
)

// replSession keeps one parser and one interpreter session alive so that
// declarations made on earlier lines stay visible.
type replSession struct {
	parser  *parser.Parser
	interp  *interpreter.Interpreter
	session *interpreter.Session
	out     io.Writer
}

func newReplSession(rf *runFlags, out io.Writer) (*replSession, error) {
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	interp := interpreter.New(
		interpreter.WithOutput(out),
		interpreter.WithLogger(rf.logger()),
		interpreter.WithStrict(rf.strict),
		interpreter.WithLoopBreak(rf.loopBreak),
	)
	return &replSession{parser: p, interp: interp, session: interp.NewSession(), out: out}, nil
}

func (r *replSession) Close() {
	_ = r.session.Close()
	r.parser.Close()
}

// eval parses and runs one chunk of input. A chunk that fails to parse or
// run leaves earlier bindings untouched.
func (r *replSession) eval(src string) error {
	program, err := r.parser.Parse([]byte(src))
	if err != nil {
		return err
	}
	before := len(r.interp.Diagnostics())
	if err := r.session.Eval(program); err != nil {
		return err
	}
	for _, diag := range r.interp.Diagnostics()[before:] {
		fmt.Fprintf(r.out, "warning: %v\n", diag)
	}
	return nil
}

// command handles a ':' directive. It reports false when the session should end.
func (r *replSession) command(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case ":quit", ":q":
		return false
	case ":vars":
		for _, name := range r.session.Names() {
			v, _ := r.session.Lookup(name)
			fmt.Fprintf(r.out, "%s = %s\n", name, describe(v))
		}
	default:
		fmt.Fprintln(r.out, "unknown command. Type :vars or :quit.")
	}
	return true
}

func describe(v runtime.Value) string {
	if s, ok := v.(runtime.StringValue); ok {
		return fmt.Sprintf("%q", s.Val)
	}
	return runtime.ToString(v)
}

func runRepl(args []string) int {
	var rf runFlags
	fs := newFlagSet("repl", &rf)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	r, err := newReplSession(&rf, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer r.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(stdout, cliToolVersion+" (type :quit to exit)")
	for {
		src, ok := readChunk(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(trimmed, ":") {
			if !r.command(trimmed) {
				return 0
			}
			continue
		}
		if err := r.eval(src); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}
}

// readChunk reads lines until brackets balance. ok is false on EOF or abort.
func readChunk(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return b.String(), true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !unbalanced(b.String()) {
			return b.String(), true
		}
	}
}

// unbalanced reports whether src has more opening than closing brackets,
// ignoring string contents and line comments.
func unbalanced(src string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			case '\n':
				if quote != '`' {
					quote = 0
				}
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			}
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		}
	}
	return depth > 0
}
