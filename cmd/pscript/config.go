package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/log"
	"gopkg.in/yaml.v3"

	"github.com/mgomes/pscript/pscript"
)

const defaultRecursionLimit = 10000

// fileConfig is the on-disk YAML configuration. Unknown keys are rejected.
type fileConfig struct {
	Scope          string   `yaml:"scope"`
	RecursionLimit *int     `yaml:"recursion_limit"`
	LogLevel       string   `yaml:"log_level"`
	Prelude        []string `yaml:"prelude"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Prelude paths are relative to the config file.
	base := filepath.Dir(path)
	for i, p := range cfg.Prelude {
		if !filepath.IsAbs(p) {
			cfg.Prelude[i] = filepath.Join(base, p)
		}
	}
	return cfg, nil
}

// engineOptions is the resolved interpreter setup shared by run and repl.
type engineOptions struct {
	Scope          pscript.ScopeMode
	RecursionLimit int
	LogLevel       string
	Prelude        []string
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		Scope:          pscript.ScopeDynamic,
		RecursionLimit: defaultRecursionLimit,
		LogLevel:       "info",
	}
}

func (o *engineOptions) applyFile(cfg fileConfig) error {
	if cfg.Scope != "" {
		scope, err := pscript.ParseScopeMode(cfg.Scope)
		if err != nil {
			return err
		}
		o.Scope = scope
	}
	if cfg.RecursionLimit != nil {
		o.RecursionLimit = *cfg.RecursionLimit
	}
	if cfg.LogLevel != "" {
		o.LogLevel = cfg.LogLevel
	}
	o.Prelude = append(o.Prelude, cfg.Prelude...)
	return nil
}

// newInterpreter applies the log level, builds an interpreter writing to
// stdout and evaluates every prelude file into it.
func (o engineOptions) newInterpreter(stdout io.Writer) (*pscript.Interpreter, error) {
	level, err := log.ValidateLevel(o.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLogLevel(level)

	in, err := pscript.NewInterpreter(pscript.Config{
		Scope:          o.Scope,
		RecursionLimit: o.RecursionLimit,
		Stdout:         stdout,
	})
	if err != nil {
		return nil, err
	}
	for _, path := range o.Prelude {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prelude: %w", err)
		}
		if err := in.EvaluateSource(string(src)); err != nil {
			return nil, fmt.Errorf("prelude %s: %w", path, err)
		}
		log.LogVf("loaded prelude %s", path)
	}
	return in, nil
}

type engineFlags struct {
	config         *string
	scope          *string
	lexical        *bool
	recursionLimit *int
	logLevel       *string
	prelude        pathList
}

func registerEngineFlags(fs *flag.FlagSet) *engineFlags {
	f := &engineFlags{
		config:         fs.String("config", "", "YAML configuration `file`"),
		scope:          fs.String("scope", "", "name resolution: dynamic or lexical"),
		lexical:        fs.Bool("lexical", false, "shorthand for -scope lexical"),
		recursionLimit: fs.Int("recursion-limit", defaultRecursionLimit, "maximum procedure call depth, 0 for unbounded"),
		logLevel:       fs.String("loglevel", "", "log level (debug, verbose, info, warning, error)"),
	}
	fs.Var(&f.prelude, "prelude", "evaluate `file` before the program (repeatable)")
	return f
}

// resolve layers defaults, then the config file, then explicitly set flags.
func (f *engineFlags) resolve(fs *flag.FlagSet) (engineOptions, error) {
	opts := defaultEngineOptions()
	if *f.config != "" {
		cfg, err := loadConfig(*f.config)
		if err != nil {
			return opts, err
		}
		if err := opts.applyFile(cfg); err != nil {
			return opts, fmt.Errorf("config %s: %w", *f.config, err)
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["scope"] {
		scope, err := pscript.ParseScopeMode(*f.scope)
		if err != nil {
			return opts, err
		}
		opts.Scope = scope
	}
	if *f.lexical {
		if set["scope"] && opts.Scope != pscript.ScopeLexical {
			return opts, errors.New("-lexical conflicts with -scope " + *f.scope)
		}
		opts.Scope = pscript.ScopeLexical
	}
	if set["recursion-limit"] {
		opts.RecursionLimit = *f.recursionLimit
	}
	if set["loglevel"] {
		opts.LogLevel = *f.logLevel
	}
	opts.Prelude = append(opts.Prelude, f.prelude...)
	return opts, nil
}
