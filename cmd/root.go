package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"debt-planner/config"
	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/repository"
	"debt-planner/service"
)

var (
	flagConfig   string
	flagLogLevel string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:           "payoff",
	Short:         "Debt payoff planner",
	Long:          "Simulate debt payoff strategies, amortization schedules and budget recommendations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", os.Getenv("PAYOFF_CONFIG"), "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print raw JSON instead of tables")
}

// app holds everything built from the configuration.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	plans    repository.PlanRepository
	cache    repository.CacheRepository
	opts     service.Options
	closers  []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)

	if err := a.openStore(); err != nil {
		return nil, err
	}
	a.openCache(ctx)

	a.opts = service.Options{
		Limits: service.Limits{
			MaxDebts:            cfg.Limits.MaxDebts,
			MaxDebtAmount:       decimal.NewFromFloat(cfg.Limits.MaxDebtAmount),
			MaxInterestRate:     decimal.NewFromFloat(cfg.Limits.MaxInterestRate),
			MaxBudgetCandidates: cfg.Limits.MaxBudgetCandidates,
			Workers:             cfg.Limits.Workers,
		},
		Metrics:  a.metrics,
		Logger:   logger,
		CacheTTL: cfg.Cache.TTL,
	}
	return a, nil
}

func (a *app) openStore() error {
	switch a.cfg.Store.Driver {
	case "sqlite", "postgres":
		store, err := repository.OpenSQLPlanStore(a.cfg.Store.Driver, a.cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("opening plan store: %w", err)
		}
		a.plans = store
		a.closers = append(a.closers, store)
	default:
		a.plans = repository.NewPlanRepositoryMemory()
	}
	return nil
}

// openCache never fails: an unreachable Redis falls back to no caching.
func (a *app) openCache(ctx context.Context) {
	switch a.cfg.Cache.Driver {
	case "memory":
		a.cache = repository.NewMemoryCache()
	case "redis":
		rc := repository.NewRedisCache(repository.RedisOptions{
			Addr:     a.cfg.Cache.RedisAddr,
			Password: a.cfg.Cache.RedisPassword,
			DB:       a.cfg.Cache.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			a.logger.Warn("redis unavailable, caching disabled",
				zap.String("addr", a.cfg.Cache.RedisAddr), zap.Error(err))
			_ = rc.Close()
			return
		}
		a.cache = rc
		a.closers = append(a.closers, rc)
	}
}

func (a *app) explainer() *service.Explainer {
	return service.NewExplainer(a.cfg.Explainer, a.logger)
}

func (a *app) payoffService() *service.PayoffService {
	return service.NewPayoffService(a.plans, a.cache, a.explainer(), a.opts)
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
