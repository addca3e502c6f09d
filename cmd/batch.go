package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/corredora-austral/policy-cli/internal/resilience"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Map every OCR bag in a directory",
	Long:  "Maps all *.json field bags in a directory concurrently. The provider is inferred from the file name prefix (e.g. bse-123.json); unrecognized prefixes fall back to the generic normalizer.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		paths, err := filepath.Glob(filepath.Join(args[0], "*.json"))
		if err != nil {
			return eris.Wrap(err, "glob bag files")
		}
		sort.Strings(paths)
		if batchLimit > 0 && len(paths) > batchLimit {
			paths = paths[:batchLimit]
		}
		if len(paths) == 0 {
			zap.L().Warn("no bag files found", zap.String("dir", args[0]))
			return nil
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.Batch.RatePerSecond), 1)
		var ready, failed atomic.Int64

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrent)

		for _, path := range paths {
			g.Go(func() error {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}

				bag, err := readBag(path)
				if err != nil {
					failed.Add(1)
					zap.L().Error("bag unreadable", zap.String("path", path), zap.Error(err))
					return nil
				}

				doc := filepath.Base(path)
				result := env.Orch.Run(bag, providerFromName(doc), env.Refs)
				if result.Ready {
					ready.Add(1)
				}

				// Store writes contend under concurrency; transient
				// failures are retried before the document counts as
				// failed.
				record := func(ctx context.Context) error {
					return recordRun(ctx, env.Store, doc, result)
				}
				if err := resilience.Do(ctx, storeRetry(), record); err != nil {
					failed.Add(1)
					zap.L().Error("record run failed", zap.String("document", doc), zap.Error(err))
					return nil
				}

				zap.L().Info("document mapped",
					zap.String("document", doc),
					zap.String("provider", result.Provider),
					zap.Float64("completion", result.Metrics.OverallCompletion),
					zap.Bool("ready", result.Ready),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch mapping")
		}

		zap.L().Info("batch complete",
			zap.Int("documents", len(paths)),
			zap.Int64("ready", ready.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// storeRetry covers SQLite write contention on top of the usual transient
// network failures.
func storeRetry() resilience.RetryConfig {
	c := resilience.DefaultRetryConfig()
	c.InitialBackoff = 100 * time.Millisecond
	c.ShouldRetry = func(err error) bool {
		if resilience.IsTransient(err) {
			return true
		}
		msg := strings.ToLower(err.Error())
		return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
	}
	c.OnRetry = resilience.RetryLogger("store", "record_run")
	return c
}

// providerFromName infers the issuing provider from a document file name
// like "bse-9071222.json". Anything unrecognized maps generically.
func providerFromName(name string) string {
	for _, p := range []string{"bse", "sura", "mapfre"} {
		if strings.HasPrefix(strings.ToLower(name), p) {
			return p
		}
	}
	return ""
}
