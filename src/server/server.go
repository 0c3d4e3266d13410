package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onemorebsmith/stx-clawbot/src/api"
	"github.com/onemorebsmith/stx-clawbot/src/auth"
	"github.com/onemorebsmith/stx-clawbot/src/common"
	"github.com/onemorebsmith/stx-clawbot/src/custody"
	"github.com/onemorebsmith/stx-clawbot/src/ledger"
	"github.com/onemorebsmith/stx-clawbot/src/metrics"
	"github.com/onemorebsmith/stx-clawbot/src/postgres"
	"github.com/onemorebsmith/stx-clawbot/src/redisdb"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type journal interface {
	ledger.Journal
	receiptPruner
}

// backend is everything ListenAndServe needs from the configured storage
type backend struct {
	store   state.Store
	journal journal
	deduper *redisdb.Deduper
}

func openBackend(ctx context.Context, cfg LedgerConfig) (*backend, error) {
	b := &backend{journal: ledger.NewMemoryJournal()}
	if cfg.PostgresConfig != "" {
		postgres.ConfigurePostgres(cfg.PostgresConfig)
		if err := postgres.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		b.journal = postgres.NewReceiptJournal()
	}
	if cfg.RedisConfig.Address != "" {
		rd, err := redisdb.Connect(ctx, cfg.RedisConfig)
		if err != nil {
			return nil, errors.Wrap(err, "failed connecting to redis")
		}
		b.deduper = redisdb.NewDeduper(rd, cfg.DedupeWindow)
		if cfg.StoreBackend == BackendRedis {
			b.store = redisdb.NewHashStore(rd)
		}
	}

	switch cfg.StoreBackend {
	case BackendMemory:
		b.store = state.NewMemoryStore()
	case BackendPostgres:
		if cfg.PostgresConfig == "" {
			return nil, errors.New("store_backend postgres requires a postgres connection string")
		}
		b.store = postgres.NewStateStore()
	case BackendRedis:
		if b.store == nil {
			return nil, errors.New("store_backend redis requires redis_address")
		}
	default:
		return nil, errors.Errorf("unknown store_backend %q", cfg.StoreBackend)
	}
	return b, nil
}

func (b *backend) pruneTargets(cfg LedgerConfig) []pruneTarget {
	targets := []pruneTarget{receiptTarget(b.journal, cfg.ReceiptRetention)}
	if b.deduper != nil {
		targets = append(targets, pruneTarget{name: "requests", prune: b.deduper.Prune})
	}
	return targets
}

func ListenAndServe(cfg LedgerConfig) error {
	cfg.ApplyDefaults()
	logger := common.ConfigureZap(common.ParseLevel(cfg.LogLevel), cfg.LogFile)
	defer logger.Sync()
	if cfg.PromPort != "" {
		metrics.StartPromServer(logger, cfg.PromPort)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	custodian, err := custody.NewCustodian(ctx, cfg.CustodyConfig, b.store, logger)
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(cfg.JwtSecret)
	if err != nil {
		return err
	}
	contract := ledger.NewContract(b.store, custodian, b.journal, logger)

	if cfg.HealthCheckPort != "" {
		logger.Info("enabling health check on port " + cfg.HealthCheckPort)
		beginReadyzHandler(cfg, contract)
	}
	var deduper api.Deduper
	if b.deduper != nil {
		deduper = b.deduper
	}
	apiServer := api.NewServer(contract, b.journal, issuer, deduper, api.Info{
		ContractAddress: cfg.ContractAddress,
		ContractName:    cfg.ContractName,
		Network:         cfg.Network,
	}, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("serving ledger api",
		zap.String("address", cfg.ListenAddress),
		zap.String("backend", cfg.StoreBackend),
		zap.Bool("mock_custody", cfg.Mock))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := StartPruner(gctx, cfg.PruneInterval, b.pruneTargets(cfg), logger)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "api server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		return errors.Wrap(httpServer.Shutdown(shutdownCtx), "failed shutting down api")
	})
	return g.Wait()
}

func beginReadyzHandler(cfg LedgerConfig, contract *ledger.Contract) {
	mux := http.NewServeMux()
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := contract.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(errors.Wrap(err, "failed pinging store").Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	go http.ListenAndServe(cfg.HealthCheckPort, mux)
}
