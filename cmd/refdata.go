package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corredora-austral/policy-cli/internal/fetch"
	"github.com/corredora-austral/policy-cli/internal/mapper"
	"github.com/corredora-austral/policy-cli/internal/registry"
	"github.com/corredora-austral/policy-cli/internal/store"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Manage master-data reference snapshots",
	Long:  "Commands for validating, inspecting, caching and publishing the reference lists and keyword rule tables the mapper matches against.",
}

// loadSnapshot reads a snapshot path given on the command line, merging in
// the configured rule tables.
func loadSnapshot(path string) (mapper.ReferenceData, error) {
	refs, err := registry.Load(path)
	if err != nil {
		return mapper.ReferenceData{}, err
	}
	if cfg.Registry.Rules != "" {
		rules, err := registry.LoadRules(cfg.Registry.Rules)
		if err != nil {
			return mapper.ReferenceData{}, err
		}
		refs.Rules = rules
	}
	return refs, nil
}

var refdataValidateCmd = &cobra.Command{
	Use:   "validate <snapshot>",
	Short: "Validate a reference snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		if err := registry.Validate(refs); err != nil {
			return err
		}
		fmt.Printf("%s: %d lists, %d rule tables, ok\n", args[0], len(refs.Lists), len(refs.Rules))
		return nil
	},
}

var refdataSummaryCmd = &cobra.Command{
	Use:   "summary <snapshot>",
	Short: "Show per-list counts of a reference snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LIST\tITEMS\tCODED\tRULES")
		for _, s := range registry.Summarize(refs) {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", s.ListType, s.Items, s.Coded, s.Rules)
		}
		return tw.Flush()
	},
}

var refdataCacheCmd = &cobra.Command{
	Use:   "cache <snapshot>",
	Short: "Refresh the local SQLite snapshot cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		if err := registry.Validate(refs); err != nil {
			return err
		}

		cache, err := registry.OpenCache(cfg.Registry.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close() //nolint:errcheck

		if err := cache.Replace(cmd.Context(), refs); err != nil {
			return err
		}
		zap.L().Info("snapshot cache refreshed",
			zap.String("path", cfg.Registry.CachePath),
			zap.Int("lists", len(refs.Lists)),
		)
		return nil
	},
}

var fetchOutput string

var refdataFetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a reference snapshot from an insurer portal",
	Long:  "Downloads a snapshot over HTTP(S) or FTP to the configured snapshot path. ZIP archives are unpacked; the result is validated before it replaces anything.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		out := fetchOutput
		if out == "" {
			out = cfg.Registry.Snapshot
		}

		fetcher, err := fetch.ForURL(args[0])
		if err != nil {
			return err
		}

		download := out
		if strings.EqualFold(filepath.Ext(args[0]), ".zip") {
			download = filepath.Join(os.TempDir(), "policy-refdata.zip")
			defer os.Remove(download)
		}

		var n int64
		if hf, ok := fetcher.(*fetch.HTTPFetcher); ok {
			// Conditional refresh: skip the download when the portal still
			// serves the ETag remembered from the last fetch.
			prev, _ := os.ReadFile(etagPath(out))
			written, etag, changed, err := hf.DownloadToFileIfChanged(
				ctx, args[0], download, strings.TrimSpace(string(prev)))
			if err != nil {
				return err
			}
			if !changed {
				zap.L().Info("snapshot unchanged",
					zap.String("url", args[0]),
					zap.String("path", out),
				)
				return nil
			}
			if etag != "" {
				if err := os.WriteFile(etagPath(out), []byte(etag), 0644); err != nil {
					zap.L().Warn("etag not persisted", zap.Error(err))
				}
			}
			n = written
		} else {
			n, err = fetcher.DownloadToFile(ctx, args[0], download)
			if err != nil {
				return err
			}
		}

		if download != out {
			extracted, err := fetch.ExtractSnapshot(download, filepath.Dir(out))
			if err != nil {
				return err
			}
			if extracted != out {
				if err := os.Rename(extracted, out); err != nil {
					return eris.Wrap(err, "move extracted snapshot")
				}
			}
		}

		refs, err := loadSnapshot(out)
		if err != nil {
			return err
		}
		if err := registry.Validate(refs); err != nil {
			return err
		}
		zap.L().Info("snapshot fetched",
			zap.String("url", args[0]),
			zap.String("path", out),
			zap.Int64("bytes", n),
			zap.Int("lists", len(refs.Lists)),
		)
		return nil
	},
}

var pushReplace bool

var refdataPushCmd = &cobra.Command{
	Use:   "push <snapshot>",
	Short: "Publish a snapshot to the shared Postgres master-data tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Store.DatabaseURL == "" {
			return eris.New("store.database_url is required for refdata push")
		}

		refs, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		if err := registry.Validate(refs); err != nil {
			return err
		}

		// One pool serves both the run store and the master-data tables.
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		push := registry.Push
		if pushReplace {
			push = registry.PushReplace
		}
		n, err := push(ctx, st.Pool(), refs)
		if err != nil {
			return err
		}
		zap.L().Info("snapshot pushed",
			zap.Int64("items", n),
			zap.Int("rule_tables", len(refs.Rules)),
			zap.Bool("replace", pushReplace),
		)
		return nil
	},
}

// etagPath is the sidecar file remembering the last fetched snapshot ETag.
func etagPath(snapshot string) string {
	return snapshot + ".etag"
}

func init() {
	refdataFetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "destination path (default: configured snapshot path)")
	refdataPushCmd.Flags().BoolVar(&pushReplace, "replace", false, "delete existing reference rows and load the snapshot from scratch")

	refdataCmd.AddCommand(refdataValidateCmd)
	refdataCmd.AddCommand(refdataSummaryCmd)
	refdataCmd.AddCommand(refdataFetchCmd)
	refdataCmd.AddCommand(refdataCacheCmd)
	refdataCmd.AddCommand(refdataPushCmd)
	rootCmd.AddCommand(refdataCmd)
}
