package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mnavtracker/cache"
	"mnavtracker/config"
	"mnavtracker/logger"
	"mnavtracker/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest mirrored snapshot over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.RedisAddr == "" {
			return &config.InitError{Op: "serve", Err: errors.New("redis_addr is not configured")}
		}

		c := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer c.Close()

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           server.New(c, cfg.RedisPrefix, log).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("server is running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
