package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	engineFlags := registerEngineFlags(fs)
	source := fs.String("e", "", "evaluate `source` instead of reading a script file")
	showStack := fs.Bool("stack", false, "print the operand stack after the program finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 && *source == "" {
		return errors.New("pscript run: script path or -e required")
	}

	opts, err := engineFlags.resolve(fs)
	if err != nil {
		return err
	}
	in, err := opts.newInterpreter(os.Stdout)
	if err != nil {
		return err
	}

	program := *source
	if program == "" {
		scriptPath, err := filepath.Abs(remaining[0])
		if err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}
		input, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		program = string(input)
		log.LogVf("running %s (%s scope)", scriptPath, opts.Scope)
	}

	if err := in.EvaluateSource(program); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if *showStack {
		return in.EvaluateSource("pstack")
	}
	return nil
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	engineFlags := registerEngineFlags(fs)
	plain := fs.Bool("plain", false, "use the line-mode REPL even on a terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts, err := engineFlags.resolve(fs)
	if err != nil {
		return err
	}
	session, err := newREPLSession(opts)
	if err != nil {
		return err
	}

	fd := os.Stdin.Fd()
	if *plain || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return runPlainREPL(session)
	}
	return runREPL(session)
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <script>    evaluate a script file")
	fmt.Fprintln(os.Stderr, "  run [flags] -e <src>    evaluate source given on the command line")
	fmt.Fprintln(os.Stderr, "  repl [flags]            start an interactive session")
	fmt.Fprintln(os.Stderr, "  fmt [-w|-check] <path>  normalize whitespace in .ps files")
	fmt.Fprintln(os.Stderr, "  analyze <script>        report unresolvable and shadowed names")
	fmt.Fprintln(os.Stderr, "  lsp                     serve the language server protocol on stdio")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    YAML file with scope, recursion_limit, log_level and prelude")
	fmt.Fprintln(os.Stderr, "  -scope dynamic|lexical, -lexical")
	fmt.Fprintln(os.Stderr, "    name resolution discipline for procedures (default dynamic)")
	fmt.Fprintln(os.Stderr, "  -recursion-limit int")
	fmt.Fprintf(os.Stderr, "    maximum procedure call depth, 0 for unbounded (default %d)\n", defaultRecursionLimit)
	fmt.Fprintln(os.Stderr, "  -loglevel string")
	fmt.Fprintln(os.Stderr, "    debug, verbose, info, warning or error (default info)")
	fmt.Fprintln(os.Stderr, "  -stack (run), -plain (repl)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

type pathList []string

func (l *pathList) String() string {
	return strings.Join(*l, string(os.PathListSeparator))
}

func (l *pathList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
