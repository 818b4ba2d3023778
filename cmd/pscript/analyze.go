package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mgomes/pscript/pscript"
)

type lintWarning struct {
	Procedure string
	Pos       pscript.Position
	Message   string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("pscript analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	warnings, err := analyzeSource(string(input))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, warning.Pos.Line, warning.Pos.Column, warning.Message, warning.Procedure)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeSource reports executable names that nothing in the source can
// bind and definitions that a primitive of the same name always shadows.
func analyzeSource(source string) ([]lintWarning, error) {
	tokens, err := pscript.Tokenize(source)
	if err != nil {
		return nil, err
	}

	primitives := primitiveSet()
	bound := make(map[string]struct{})
	collectNameLiterals(tokens, bound)

	warnings := make([]lintWarning, 0)
	lintTokens("<top>", tokens, primitives, bound, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		return warnings[i].Pos.Column < warnings[j].Pos.Column
	})
	return warnings, nil
}

func primitiveSet() map[string]struct{} {
	set := make(map[string]struct{}, len(primitiveNames))
	for _, name := range primitiveNames {
		set[name] = struct{}{}
	}
	return set
}

func collectNameLiterals(tokens []pscript.Token, bound map[string]struct{}) {
	for _, tok := range tokens {
		if !tok.IsLiteral() {
			continue
		}
		switch tok.Value.Kind() {
		case pscript.KindName:
			bound[tok.Value.Name()] = struct{}{}
		case pscript.KindProcedure:
			collectNameLiterals(tok.Value.Procedure().Body, bound)
		}
	}
}

func lintTokens(procedure string, tokens []pscript.Token, primitives, bound map[string]struct{}, warnings *[]lintWarning) {
	for i, tok := range tokens {
		if !tok.IsLiteral() {
			_, isPrimitive := primitives[tok.Name]
			_, isBound := bound[tok.Name]
			if !isPrimitive && !isBound {
				*warnings = append(*warnings, lintWarning{
					Procedure: procedure,
					Pos:       tok.Pos,
					Message:   fmt.Sprintf("undefined name %q", tok.Name),
				})
			}
			continue
		}

		switch tok.Value.Kind() {
		case pscript.KindName:
			name := tok.Value.Name()
			if _, ok := primitives[name]; ok && i+2 < len(tokens) && isExec(tokens[i+2], "def") {
				*warnings = append(*warnings, lintWarning{
					Procedure: procedure,
					Pos:       tok.Pos,
					Message:   fmt.Sprintf("definition of %q is shadowed by the primitive", name),
				})
			}
		case pscript.KindProcedure:
			label := procedure
			if i > 0 && tokens[i-1].IsLiteral() && tokens[i-1].Value.Kind() == pscript.KindName {
				label = tokens[i-1].Value.Name()
			}
			lintTokens(label, tok.Value.Procedure().Body, primitives, bound, warnings)
		}
	}
}

func isExec(tok pscript.Token, name string) bool {
	return !tok.IsLiteral() && tok.Name == name
}
