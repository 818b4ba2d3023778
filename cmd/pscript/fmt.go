package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mgomes/pscript/pscript"
)

const sourceExt = ".ps"

type fmtMode int

const (
	fmtPrint fmtMode = iota
	fmtWrite
	fmtCheck
)

func fmtCommand(args []string) error {
	flags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flags.SetOutput(new(flagErrorSink))
	write := flags.Bool("w", false, "write result to source files instead of stdout")
	check := flags.Bool("check", false, "fail if any source file needs formatting")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errors.New("pscript fmt: path required")
	}

	mode := fmtPrint
	switch {
	case *check:
		mode = fmtCheck
	case *write:
		mode = fmtWrite
	}

	files, err := collectSourceFiles(flags.Args())
	if err != nil {
		return err
	}

	stale := 0
	for _, path := range files {
		changed, err := formatFile(path, mode)
		if err != nil {
			return err
		}
		if changed {
			stale++
		}
	}
	if mode == fmtCheck && stale > 0 {
		return fmt.Errorf("pscript fmt: %d file(s) need formatting", stale)
	}
	return nil
}

// formatFile formats one file according to mode and reports whether its
// contents differ from the formatted form.
func formatFile(path string, mode fmtMode) (bool, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	formatted, err := formatSource(string(original))
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	changed := formatted != string(original)

	switch {
	case mode == fmtPrint:
		fmt.Print(formatted)
	case mode == fmtWrite && changed:
		info, err := os.Stat(path)
		if err != nil {
			return false, fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return false, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return changed, nil
}

// collectSourceFiles expands directories into the .ps files beneath them.
// Explicitly named files are kept whatever their extension.
func collectSourceFiles(targets []string) ([]string, error) {
	found := make(map[string]struct{})
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			found[target] = struct{}{}
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr == nil && !entry.IsDir() && filepath.Ext(path) == sourceExt {
				found[path] = struct{}{}
			}
			return walkErr
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	files := make([]string, 0, len(found))
	for path := range found {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		files = append(files, abs)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// formatSource normalizes line endings, strips trailing whitespace outside
// string literals and ends the file with exactly one newline. Sources that
// do not tokenize are rejected rather than rewritten.
func formatSource(source string) (string, error) {
	if _, err := pscript.Tokenize(source); err != nil {
		return "", err
	}

	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	inString := false
	for i, line := range lines {
		inString = endsInString(line, inString)
		if !inString {
			lines[i] = strings.TrimRight(line, " \t")
		}
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n", nil
}

// endsInString reports whether a string literal is still open at the end of
// line, given whether one was open at its start.
func endsInString(line string, open bool) bool {
	for _, r := range line {
		switch {
		case open:
			open = r != ')'
		case r == '(':
			open = true
		case r == '%':
			return false
		}
	}
	return open
}
