// Package main provides the geoprover binary: it compiles theorem files
// into polynomial systems.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "geoprover"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
	format     string
	steps      bool
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Geometric theorem compiler",
		Long: `Geoprover compiles ruler-and-compass constructions into a system of
polynomial equations with exact rational coefficients, plus the polynomial
form of the goal statement, ready for an algebraic solver.

Theorems are YAML files listing constructions in order:

  name: midline
  constructions:
    - {label: A, kind: free-point}
    - {label: B, kind: free-point}
    - {label: M, kind: midpoint, refs: [A, B]}
  statement: {kind: collinear, refs: [A, B, M]}`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&flags.format, "format", "f", "", "Output format (text, json)")
	cmd.PersistentFlags().BoolVar(&flags.steps, "steps", false, "Also print every compilation step")

	cmd.AddCommand(compileCmd(&flags), watchCmd(&flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func compileCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <glob>...",
		Short: "Compile theorem files",
		Long:  "Compile every theorem file matching the given patterns. Patterns may use ** to match across directories.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			files, err := expand(args)
			if err != nil {
				return err
			}
			return a.compileAll(files)
		},
	}
}

func watchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <glob>...",
		Short: "Recompile theorem files when they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), args)
		},
	}
}
