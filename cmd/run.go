package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mnavtracker/browser"
	"mnavtracker/cache"
	"mnavtracker/config"
	"mnavtracker/fetch"
	"mnavtracker/history"
	"mnavtracker/logger"
	"mnavtracker/pipeline"
	"mnavtracker/publish"

	"github.com/spf13/cobra"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape the page once and publish the snapshot",
	RunE:  runE,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "build the snapshot but publish to memory only")
	}
	rootCmd.AddCommand(runCmd)
}

// pageRenderer is a pipeline renderer that must be closed
type pageRenderer interface {
	pipeline.Renderer
	Close() error
}

func newRenderer(ctx context.Context, cfg config.Config) (pageRenderer, error) {
	if cfg.Renderer == config.RendererHTTP {
		return fetch.New(cfg.RenderTimeout), nil
	}
	r, err := browser.New(ctx, browser.Options{
		UserAgent: cfg.UserAgent,
		ExecPath:  cfg.ChromePath,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// closers collects cleanup in reverse order
type closers []func() error

func (c *closers) add(fn func() error) { *c = append(*c, fn) }

func (c closers) close() {
	for i := len(c) - 1; i >= 0; i-- {
		_ = c[i]()
	}
}

func runE(cmd *cobra.Command, args []string) error {
	log := logger.New()

	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Error("configuration failed", "err", err)
		return &exitError{code: ExitInit}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer func() { cleanup.close() }()

	publisher, err := newPublisher(ctx, cfg, &cleanup)
	if err != nil {
		log.Error("store initialization failed", "err", err)
		return &exitError{code: ExitInit}
	}

	var recorder pipeline.Recorder
	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			log.Error("history initialization failed", "err", err)
			return &exitError{code: ExitInit}
		}
		cleanup.add(store.Close)
		recorder = store
	}

	renderer, err := newRenderer(ctx, cfg)
	if err != nil {
		log.Error("run failed", "err", &pipeline.RunError{Stage: pipeline.StageRender, Err: err})
		return &exitError{code: ExitRun}
	}
	// the browser is released on every path below
	cleanup.add(renderer.Close)

	runner := &pipeline.Runner{
		Renderer:  renderer,
		Publisher: publisher,
		History:   recorder,
		Log:       log,
		Options: pipeline.Options{
			URL:            cfg.URL,
			Path:           cfg.Path,
			Settle:         cfg.Settle,
			ZeroThreshold:  cfg.ZeroThreshold,
			RenderTimeout:  cfg.RenderTimeout,
			PublishTimeout: cfg.PublishTimeout,
		},
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return &exitError{code: ExitRun}
	}
	if res.Outcome == pipeline.Skipped {
		return &exitError{code: ExitSkipped}
	}
	if dryRun && res.Snapshot != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", *res.Snapshot)
	}
	return nil
}

func newPublisher(ctx context.Context, cfg config.Config, cleanup *closers) (publish.Publisher, error) {
	var multi publish.Multi

	if dryRun {
		multi = append(multi, publish.NewMemory())
	} else {
		creds, err := cfg.ResolveCredentials()
		if err != nil {
			return nil, err
		}
		fb, err := publish.NewFirebase(ctx, cfg.DatabaseURL, creds.JSON)
		if err != nil {
			return nil, &config.InitError{Op: "firebase", Err: err}
		}
		multi = append(multi, fb)
	}

	if cfg.RedisAddr != "" {
		c := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cleanup.add(c.Close)
		if err := c.Ping(ctx); err != nil {
			return nil, &config.InitError{Op: "redis", Err: err}
		}
		multi = append(multi, publish.NewRedis(c, cfg.RedisPrefix))
	}

	if len(multi) == 1 {
		return multi[0], nil
	}
	return multi, nil
}
