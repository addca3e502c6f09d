package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/corredora-austral/policy-cli/internal/mapper"
	"github.com/corredora-austral/policy-cli/internal/registry"
	"github.com/corredora-austral/policy-cli/internal/store"
)

// mappingEnv holds the initialized store, reference snapshot and
// orchestrator shared by the map/batch/serve commands.
type mappingEnv struct {
	Store store.Store
	Refs  mapper.ReferenceData
	Orch  *mapper.Orchestrator
}

// Close releases resources held by the environment.
func (me *mappingEnv) Close() {
	if me.Store != nil {
		_ = me.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "policy.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadReferenceData reads the configured snapshot, merges in the YAML rule
// tables when present, and validates the result.
func loadReferenceData() (mapper.ReferenceData, error) {
	path := cfg.Registry.Snapshot
	if path == "" {
		path = cfg.Registry.CachePath
	}

	refs, err := registry.Load(path)
	if err != nil {
		return mapper.ReferenceData{}, eris.Wrapf(err, "load reference snapshot %s", path)
	}

	if cfg.Registry.Rules != "" {
		rules, err := registry.LoadRules(cfg.Registry.Rules)
		if err != nil {
			return mapper.ReferenceData{}, eris.Wrap(err, "load rule tables")
		}
		refs.Rules = rules
	}

	if err := registry.Validate(refs); err != nil {
		return mapper.ReferenceData{}, err
	}

	zap.L().Info("reference data loaded",
		zap.String("path", path),
		zap.Int("lists", len(refs.Lists)),
		zap.Int("rule_tables", len(refs.Rules)),
	)
	return refs, nil
}

// initEnv sets up the store, loads the reference snapshot, and builds the
// orchestrator. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*mappingEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	refs, err := loadReferenceData()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	orch := mapper.New(mapper.Thresholds{
		MasterData:    cfg.Mapping.MasterDataThreshold,
		Names:         cfg.Mapping.NameThreshold,
		LowConfidence: cfg.Mapping.LowConfidenceThreshold,
	})

	return &mappingEnv{Store: st, Refs: refs, Orch: orch}, nil
}
