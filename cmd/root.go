// Package cmd implements the mnav command line using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"mnavtracker/config"
	"mnavtracker/logger"
	"mnavtracker/pipeline"

	"github.com/spf13/cobra"
)

// Process exit codes. A scheduler alerts on anything but ExitOK.
const (
	ExitOK      = 0
	ExitRun     = 1
	ExitInit    = 2
	ExitSkipped = 3
)

var flags struct {
	configPath    string
	url           string
	settle        time.Duration
	zeroThreshold int
	renderer      string
	verbose       bool
}

// exitError carries a process exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "mnav",
	Short: "Scrape treasury metrics and publish an mNAV snapshot",
	Long: `mnav renders a public analytics page, reads a fixed set of treasury
figures from it, computes mNAV and the USD reserve, and merges the
snapshot into the dashboard's document store.

Running mnav with no subcommand performs a single run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(flags.verbose)
	},
	RunE: runE,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file")
	pf.StringVar(&flags.url, "url", "", "analytics page URL")
	pf.DurationVar(&flags.settle, "settle", 0, "wait for client-side rendering (e.g. 15s)")
	pf.IntVar(&flags.zeroThreshold, "zero-threshold", 0, "skip publishing when this many fields read zero")
	pf.StringVar(&flags.renderer, "renderer", "", "page renderer: chrome or http")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log every extracted field")
}

// loadConfig layers flags over file and environment settings
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}

	pf := cmd.Flags()
	if pf.Changed("url") {
		cfg.URL = flags.url
	}
	if pf.Changed("settle") {
		cfg.Settle = flags.settle
	}
	if pf.Changed("zero-threshold") {
		cfg.ZeroThreshold = flags.zeroThreshold
	}
	if pf.Changed("renderer") {
		cfg.Renderer = flags.renderer
	}

	return cfg, cfg.Validate()
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, exitErr.err)
		}
		return exitErr.code
	}

	fmt.Fprintln(os.Stderr, err)
	return codeFor(err)
}

func codeFor(err error) int {
	var initErr *config.InitError
	var runErr *pipeline.RunError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &initErr):
		return ExitInit
	case errors.As(err, &runErr):
		return ExitRun
	default:
		return ExitRun
	}
}
