package main

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/mgomes/pscript/pscript"
)

// replSession owns the interpreter behind both REPL front ends. Output
// written by print, = and friends is buffered per evaluation.
type replSession struct {
	opts   engineOptions
	interp *pscript.Interpreter
	out    *bytes.Buffer
}

func newREPLSession(opts engineOptions) (*replSession, error) {
	s := &replSession{opts: opts, out: new(bytes.Buffer)}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// reset discards every binding and operand and reloads the prelude.
func (s *replSession) reset() error {
	s.out.Reset()
	in, err := s.opts.newInterpreter(s.out)
	if err != nil {
		return err
	}
	s.interp = in
	s.out.Reset()
	return nil
}

// setScope restarts the session under a different scoping discipline.
func (s *replSession) setScope(mode pscript.ScopeMode) error {
	previous := s.opts.Scope
	s.opts.Scope = mode
	if err := s.reset(); err != nil {
		s.opts.Scope = previous
		return err
	}
	return nil
}

// eval runs one line. The result is whatever the line printed or, when it
// printed nothing, the operand stack.
func (s *replSession) eval(input string) (string, bool) {
	s.out.Reset()
	err := s.interp.EvaluateSource(input)
	printed := strings.TrimRight(s.out.String(), "\n")
	if err != nil {
		if printed != "" {
			return printed + "\n" + err.Error(), true
		}
		return err.Error(), true
	}
	if printed != "" {
		return printed, false
	}
	return s.stackLine(), false
}

// stackLine renders the operand stack bottom to top in == form.
func (s *replSession) stackLine() string {
	values := s.interp.StackSnapshot()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Syntax()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// vars lists the global bindings as "name = value", sorted by name.
func (s *replSession) vars() []string {
	globals := s.interp.Globals()
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	slices.Sort(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s = %s", name, globals[name].Syntax())
	}
	return lines
}

func (s *replSession) status() string {
	return fmt.Sprintf("%s scope, stack %d, dict stack %d",
		s.interp.ScopeMode(), s.interp.StackDepth(), s.interp.EnvDepth())
}

// completions returns primitive and global names starting with prefix.
func (s *replSession) completions(prefix string) []string {
	var out []string
	for _, name := range s.interp.PrimitiveNames() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	for name := range s.interp.Globals() {
		if strings.HasPrefix(name, prefix) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// replCommandResult is the outcome of a ':' command common to both front
// ends. Toggle commands are left to the caller.
type replCommandResult struct {
	output string
	isErr  bool
	quit   bool
	toggle string
}

func (s *replSession) command(input string) replCommandResult {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		return replCommandResult{toggle: "help"}
	case ":vars", ":v":
		return replCommandResult{toggle: "vars"}
	case ":stack", ":s":
		return replCommandResult{toggle: "stack", output: s.stackLine()}
	case ":clear", ":c":
		return replCommandResult{toggle: "clear"}
	case ":scope":
		if len(parts) == 1 {
			return replCommandResult{output: "scope is " + s.interp.ScopeMode().String()}
		}
		mode, err := pscript.ParseScopeMode(parts[1])
		if err != nil {
			return replCommandResult{output: err.Error(), isErr: true}
		}
		if err := s.setScope(mode); err != nil {
			return replCommandResult{output: err.Error(), isErr: true}
		}
		return replCommandResult{output: fmt.Sprintf("Scope set to %s; environment reset", mode)}
	case ":reset", ":r":
		if err := s.reset(); err != nil {
			return replCommandResult{output: err.Error(), isErr: true}
		}
		return replCommandResult{output: "Environment reset"}
	case ":quit", ":q":
		return replCommandResult{quit: true}
	default:
		return replCommandResult{output: fmt.Sprintf("Unknown command: %s", cmd), isErr: true}
	}
}

var replHelp = []struct {
	key  string
	desc string
}{
	{"↑/↓", "Navigate command history"},
	{"Tab", "Autocomplete primitive and global names"},
	{"Enter", "Evaluate the line"},
	{":help", "Toggle this help"},
	{":vars", "Toggle global bindings panel"},
	{":stack", "Toggle operand stack panel"},
	{":scope", "Show or set scope (dynamic|lexical)"},
	{":clear", "Clear history"},
	{":reset", "Reset environment"},
	{":quit", "Exit REPL"},
}
