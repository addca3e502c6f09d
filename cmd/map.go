package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/store"
)

var (
	mapProvider string
	mapNoStore  bool
)

var mapCmd = &cobra.Command{
	Use:   "map <bag.json>",
	Short: "Map one OCR field bag onto the canonical policy record",
	Long:  "Reads an OCR key/value bag from a JSON file, runs the full mapping pipeline for the given provider, prints the mapping result and records the run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "map")
		if err != nil {
			return err
		}
		defer env.Close()

		bag, err := readBag(args[0])
		if err != nil {
			return err
		}

		result := env.Orch.Run(bag, mapProvider, env.Refs)

		zap.L().Info("document mapped",
			zap.String("document", args[0]),
			zap.String("provider", result.Provider),
			zap.String("policy_number", result.Data.PolicyNumber),
			zap.Float64("completion", result.Metrics.OverallCompletion),
			zap.Bool("ready", result.Ready),
		)

		if !mapNoStore {
			if err := recordRun(ctx, env.Store, filepath.Base(args[0]), result); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapProvider, "provider", "", "issuing provider (bse, sura, mapfre; empty = generic)")
	mapCmd.Flags().BoolVar(&mapNoStore, "no-store", false, "skip recording the run")
	rootCmd.AddCommand(mapCmd)
}

// readBag parses an OCR key/value bag from a JSON file.
func readBag(path string) (model.FieldBag, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read bag %s", path)
	}
	var bag model.FieldBag
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, eris.Wrapf(err, "parse bag %s", path)
	}
	return bag, nil
}

// recordRun persists a run summary plus the full result document.
func recordRun(ctx context.Context, st store.Store, document string, result model.MappingResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "marshal result")
	}
	_, err = st.RecordRun(ctx, store.RunRecord{
		Document:    document,
		Provider:    result.Provider,
		Ready:       result.Ready,
		Completion:  result.Metrics.OverallCompletion,
		Issues:      len(result.Issues),
		Suggestions: len(result.Suggestions),
		Result:      raw,
	})
	return eris.Wrap(err, "record run")
}
