package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/internal/adapters/file"
	"github.com/aretw0/minsky/internal/adapters/redis"
	"github.com/aretw0/minsky/internal/config"
	"github.com/aretw0/minsky/pkg/adapters/memory"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/observability"
	"github.com/aretw0/minsky/pkg/ports"
)

// NewStore builds the program store selected by cfg. The returned close function
// releases its connections and is never nil.
func NewStore(cfg config.StoreConfig) (ports.ProgramStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Kind {
	case "", config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.Path), noop, nil
	case config.StoreRedis:
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

// createEngine initializes a Minsky engine with standard CLI conventions.
func createEngine(logger *slog.Logger, debug, trace bool, fuel int, store ports.ProgramStore, hooks ...domain.LifecycleHooks) *minsky.Engine {
	opts := []minsky.Option{
		minsky.WithLogger(logger),
		minsky.WithTrace(trace),
	}
	if debug {
		hooks = append(hooks, createDebugHooks(logger))
	}
	if len(hooks) > 0 {
		opts = append(opts, minsky.WithLifecycleHooks(observability.Chain(hooks...)))
	}
	if fuel > 0 {
		opts = append(opts, minsky.WithDefaultFuel(fuel))
	}
	if store != nil {
		opts = append(opts, minsky.WithStore(store))
	}
	return minsky.New(opts...)
}
