package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgomes/pscript/pscript"
)

func newTestSession(t *testing.T) *replSession {
	t.Helper()
	session, err := newREPLSession(defaultEngineOptions())
	if err != nil {
		t.Fatalf("newREPLSession failed: %v", err)
	}
	return session
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel(newTestSession(t))
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	m := newREPLModel(newTestSession(t))
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateEvaluatesLineIntoHistory(t *testing.T) {
	m := newREPLModel(newTestSession(t))
	m.textInput.SetValue("1 2 add")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)

	if len(rm.history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(rm.history))
	}
	entry := rm.history[0]
	if entry.isErr || entry.output != "[3]" {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
	if len(rm.cmdHistory) != 1 || rm.cmdHistory[0] != "1 2 add" {
		t.Fatalf("unexpected command history: %v", rm.cmdHistory)
	}
}

func TestUpdateStackToggle(t *testing.T) {
	m := newREPLModel(newTestSession(t))
	if !m.showStack {
		t.Fatalf("stack panel should start visible")
	}
	m.textInput.SetValue(":stack")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if model.(replModel).showStack {
		t.Fatalf("stack panel should be hidden after :stack")
	}
}

func TestViewShowsStatusAndStack(t *testing.T) {
	m := newREPLModel(newTestSession(t))
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(replModel)
	m.textInput.SetValue("7 (seven)")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := model.View()
	if !strings.Contains(view, "pscript REPL") {
		t.Fatalf("missing header in view: %q", view)
	}
	if !strings.Contains(view, "dynamic scope") {
		t.Fatalf("missing scope status in view: %q", view)
	}
	if !strings.Contains(view, "[7 (seven)]") {
		t.Fatalf("missing stack in view: %q", view)
	}
}

func TestAutocompleteCompletesPrimitivesAndLiterals(t *testing.T) {
	m := newREPLModel(newTestSession(t))

	m.textInput.SetValue("1 2 ad")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "1 2 add" {
		t.Fatalf("unexpected completion: %q", got)
	}

	m.textInput.SetValue("/ifel")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "/ifelse" {
		t.Fatalf("unexpected literal completion: %q", got)
	}
}

func TestSessionEvalReturnsPrintedOutput(t *testing.T) {
	session := newTestSession(t)
	output, isErr := session.eval("(hi) print 42 =")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "hi42" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestSessionEvalReportsErrors(t *testing.T) {
	session := newTestSession(t)
	output, isErr := session.eval("1 0 div")
	if !isErr {
		t.Fatalf("expected error for division by zero")
	}
	if !strings.Contains(output, "division by zero") {
		t.Fatalf("unexpected error output: %q", output)
	}
}

func TestScopeCommandRestartsSession(t *testing.T) {
	session := newTestSession(t)
	session.eval("/x 1 def")

	result := session.command(":scope lexical")
	if result.isErr || !strings.Contains(result.output, "lexical") {
		t.Fatalf("unexpected scope result: %+v", result)
	}
	if session.interp.ScopeMode() != pscript.ScopeLexical {
		t.Fatalf("scope not switched: %s", session.interp.ScopeMode())
	}
	if len(session.vars()) != 0 {
		t.Fatalf("expected bindings to be reset, got %v", session.vars())
	}

	output, _ := session.eval("/x 10 def /f { x } def /x 20 def f")
	if output != "[10]" {
		t.Fatalf("unexpected lexical result: %q", output)
	}

	if result := session.command(":scope sideways"); !result.isErr {
		t.Fatalf("expected error for unknown scope")
	}
}

func TestResetCommandClearsBindings(t *testing.T) {
	session := newTestSession(t)
	session.eval("/x 1 def 5")
	if vars := session.vars(); len(vars) != 1 || vars[0] != "x = 1" {
		t.Fatalf("unexpected vars: %v", vars)
	}

	result := session.command(":reset")
	if result.isErr {
		t.Fatalf("reset failed: %s", result.output)
	}
	if len(session.vars()) != 0 || session.stackLine() != "[]" {
		t.Fatalf("session not reset: vars=%v stack=%s", session.vars(), session.stackLine())
	}
}

type scriptedReader struct {
	lines   []string
	history []string
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func TestPlainLoopEvaluatesUntilQuit(t *testing.T) {
	session := newTestSession(t)
	reader := &scriptedReader{lines: []string{"1 2 add", ":vars", "", "/x 5 def", ":vars", "foo", ":quit", "never"}}
	var out bytes.Buffer

	if err := plainLoop(session, reader, &out); err != nil {
		t.Fatalf("plainLoop failed: %v", err)
	}

	want := "[3]\nNo global bindings\n[3]\n  x = 5\n"
	if !strings.HasPrefix(out.String(), want) {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if !strings.Contains(out.String(), "error: undefined name: foo") {
		t.Fatalf("missing undefined name error: %q", out.String())
	}
	if len(reader.lines) != 1 {
		t.Fatalf("expected loop to stop at :quit, %d line(s) left", len(reader.lines))
	}
	if len(reader.history) != 6 {
		t.Fatalf("expected 6 history entries, got %v", reader.history)
	}
}

func TestPlainLoopStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	if err := plainLoop(newTestSession(t), &scriptedReader{}, &out); err != nil {
		t.Fatalf("plainLoop failed: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
