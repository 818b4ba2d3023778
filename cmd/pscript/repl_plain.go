package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const plainPrompt = "PS> "

// lineReader is the part of *liner.State the line-mode REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runPlainREPL(session *replSession) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		fields := strings.Fields(input)
		if len(fields) == 0 || strings.HasSuffix(input, " ") {
			return nil
		}
		last := fields[len(fields)-1]
		prefix := strings.TrimSuffix(input, last)
		var out []string
		for _, name := range session.completions(last) {
			out = append(out, prefix+name)
		}
		return out
	})
	return plainLoop(session, line, os.Stdout)
}

// plainLoop reads lines until end of input, an interrupt or :quit.
func plainLoop(session *replSession, reader lineReader, out io.Writer) error {
	for {
		input, err := reader.Prompt(plainPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		reader.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := plainCommand(session, input, out); quit {
				return nil
			}
			continue
		}

		output, isErr := session.eval(input)
		if isErr {
			fmt.Fprintf(out, "error: %s\n", output)
			continue
		}
		fmt.Fprintln(out, output)
	}
}

func plainCommand(session *replSession, input string, out io.Writer) bool {
	result := session.command(input)
	switch result.toggle {
	case "help":
		for _, h := range replHelp {
			fmt.Fprintf(out, "  %-8s  %s\n", h.key, h.desc)
		}
		return false
	case "vars":
		vars := session.vars()
		if len(vars) == 0 {
			fmt.Fprintln(out, "No global bindings")
		}
		for _, binding := range vars {
			fmt.Fprintln(out, "  "+binding)
		}
		return false
	case "clear":
		return false
	}
	if result.quit {
		return true
	}
	if result.isErr {
		fmt.Fprintf(out, "error: %s\n", result.output)
		return false
	}
	fmt.Fprintln(out, result.output)
	return false
}
