// mangarec 是推荐服务的入口：
//
//	mangarec serve    启动 HTTP 服务
//	mangarec evaluate 离线跑全量用户评估并输出 JSON
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/mangarec/config"
	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/engine"
	"github.com/rushteam/mangarec/eval"
	"github.com/rushteam/mangarec/server"
	"github.com/rushteam/mangarec/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "mangarec",
		Short:        "manga catalog recommender and accuracy evaluator",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newEvaluateCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)

			app, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           app.server.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server listening", slog.String("addr", cfg.Server.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newEvaluateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "run the accuracy evaluation for all users and print JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)

			app, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			items, err := app.catalog.LoadItems(ctx)
			if err != nil {
				return err
			}
			ratings, err := app.ratings.LoadRatings(ctx)
			if err != nil {
				return err
			}

			result, err := app.evaluator.EvaluateAll(ctx, items, ratings)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

type app struct {
	catalog   core.CatalogStore
	ratings   core.RatingStore
	evaluator *eval.Evaluator
	server    *server.Server
}

// buildApp 按配置组装存储、引擎、评估器与 HTTP 层。
func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	csvStore := store.NewCSVStore(cfg.Data.ItemsPath, cfg.Data.RatingsPath)

	var catalog core.CatalogStore = csvStore
	var ratings core.RatingStore = csvStore
	if cfg.Data.Backend == "redis" {
		// 目录仍走 CSV，评分走 Redis
		redisStore, err := store.NewRedisRatingStore(cfg.Data.Redis.Addr, cfg.Data.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		ratings = redisStore
	}

	eng, err := engine.New(cfg.EngineConfig(),
		engine.WithLogger(logger),
		engine.WithFilterRules(cfg.Filters),
	)
	if err != nil {
		return nil, err
	}
	ev := eval.New(eng, eval.WithLogger(logger))

	return &app{
		catalog:   catalog,
		ratings:   ratings,
		evaluator: ev,
		server:    server.New(catalog, ratings, eng, ev, logger),
	}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
