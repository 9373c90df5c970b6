package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/njchilds90/geoprover/config"
	"github.com/njchilds90/geoprover/ndg"
	"github.com/njchilds90/geoprover/protocol"
	"github.com/njchilds90/geoprover/report"
	"github.com/njchilds90/geoprover/theorem"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	steps  bool
}

func newApp(flags *globalFlags, out, errOut io.Writer) (*app, error) {
	bootstrap := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(bootstrap).Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	return &app{cfg: cfg, logger: logger, out: out, steps: flags.steps}, nil
}

// expand resolves patterns to theorem files. Patterns without glob
// characters must name existing files.
func expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		matches, err := doublestar.FilepathGlob(absPattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no theorem files match pattern: %s", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// compileAll compiles every file, reporting each failure and carrying on.
func (a *app) compileAll(files []string) error {
	var errs []error
	for _, f := range files {
		if err := a.compileFile(f); err != nil {
			a.logger.Error("compile failed", "path", f, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d theorems failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return nil
}

func (a *app) compileFile(path string) error {
	doc, err := theorem.Load(path)
	if err != nil {
		return err
	}

	w, err := report.NewWriter(a.out, a.cfg.Output.Format)
	if err != nil {
		return err
	}
	logger := a.logger.With("run", w.RunID(), "theorem", doc.Name)

	ctx := protocol.NewContext(logger)
	ctx.Options = a.cfg.Options()
	if a.steps {
		ctx.Sink = w
	}

	cp, sys, err := theorem.Compile(ctx, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	conds := ndg.NewClassifier(logger).ClassifyAll(cp, ndg.Initials(sys))
	if err := w.WriteSystem(sys, conds); err != nil {
		return err
	}
	logger.Info("theorem compiled", "path", path, "hypotheses", len(sys.Hypotheses))
	return nil
}

func isTheoremFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// fileExists reports whether path names a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
