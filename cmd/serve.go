package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpLayer "debt-planner/http"
	"debt-planner/service"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}

	explainer := a.explainer()
	payoffService := service.NewPayoffService(a.plans, a.cache, explainer, a.opts)
	scheduleService := service.NewScheduleService(a.opts)
	advisor := service.NewBudgetAdvisor(explainer, a.opts)

	deps := httpLayer.RouterDeps{
		Plans:     httpLayer.NewPlanHandler(payoffService, a.logger, cfg.Server.MaxBodyBytes),
		Schedules: httpLayer.NewScheduleHandler(scheduleService, a.logger, cfg.Server.MaxBodyBytes),
		Advice:    httpLayer.NewBudgetAdviceHandler(advisor, a.logger, cfg.Server.MaxBodyBytes),
		Metrics:   a.metrics,
		Gatherer:  a.registry,
		Logger:    a.logger,
	}
	if cfg.RateLimit.Enabled {
		rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Burst, cfg.RateLimit.Window)
		defer rateLimiter.Stop()
		deps.Limiter = rateLimiter
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpLayer.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("api listening", zap.String("addr", cfg.Server.Addr),
			zap.String("store", cfg.Store.Driver), zap.String("cache", cfg.Cache.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		a.logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.logger.Error("error during server shutdown", zap.Error(err))
		return err
	}
	a.logger.Info("server exited")
	return nil
}
