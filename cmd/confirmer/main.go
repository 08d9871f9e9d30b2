package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application/services"
	"github.com/DanielPopoola/ficmart-confirmer/internal/config"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/backend"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/hostbridge"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/identity"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"github.com/DanielPopoola/ficmart-confirmer/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting confirmer agent",
		"port", cfg.Server.Port,
		"env", cfg.Primary.Env,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	metrics := observability.NewMetrics()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	minWithdrawal, err := decimal.NewFromString(cfg.Withdrawal.MinAmount)
	if err != nil {
		logger.Error("invalid withdrawal minimum", "min_amount", cfg.Withdrawal.MinAmount, "error", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend)
	paymentAdapter := backend.NewPaymentAdapter(client)
	withdrawalAdapter := backend.NewWithdrawalAdapter(client, cfg.Withdrawal.MerchantID)

	bridge := hostbridge.NewBridge(metrics, logger)

	store, closeStore := openTokenStore(ctx, cfg.Redis, logger)
	defer closeStore()

	devIdentity := cfg.Primary.IsDevelopment() && !cfg.Identity.UseRealIdentity
	if devIdentity {
		logger.Warn("development identity token enabled", "env", cfg.Primary.Env)
	}
	resolver := identity.NewResolver(
		store,
		hostbridge.NewLoginCodes(bridge),
		client,
		identity.Options{DevMode: devIdentity},
		metrics,
		logger,
	)

	clock := services.SystemClock{}
	orchestrator := services.NewOrchestrator(
		repo,
		services.NewRequestInitiator(resolver, logger),
		hostbridge.NewConsentGate(bridge),
		services.NewCancellationCoordinator(metrics, logger),
		services.NewStatusPoller(clock, metrics, logger),
		clock,
		metrics,
		logger,
		services.Flow{
			Adapter: paymentAdapter,
			Policy: services.FlowPolicy{
				Poll:           pollPolicy(cfg.Payment.Poll),
				DefaultMethod:  cfg.Payment.Method,
				DefaultPayType: cfg.Payment.PayType,
			},
		},
		services.Flow{
			Adapter: withdrawalAdapter,
			Policy: services.FlowPolicy{
				Poll:      pollPolicy(cfg.Withdrawal.Poll),
				MinAmount: minWithdrawal,
			},
		},
	)

	// Flows outlive the HTTP request that started them.
	flowCtx, cancelFlows := context.WithCancel(context.Background())
	defer cancelFlows()
	dispatcher := services.NewDispatcher(flowCtx, orchestrator, logOutcome(logger), logger)

	doc, err := api.Load()
	if err != nil {
		logger.Error("failed to load api document", "error", err)
		os.Exit(1)
	}
	validate, err := middleware.RequestValidator(doc, logger)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandlers(
		dispatcher,
		services.NewQueryService(repo),
		bridge,
		resolver,
		logger,
	)

	mux := http.NewServeMux()
	h.Register(mux)
	api.RegisterDocsRoutes(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	handler := validate(mux)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RateLimit(cfg.RateLimit, metrics, logger)(handler)
	handler = middleware.Logging(logger, metrics)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "127.0.0.1:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	reconciler := worker.NewReconciler(
		repo,
		orchestrator,
		cfg.Retry,
		clock,
		cfg.Worker,
		metrics,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go reconciler.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Running flows end Unconfirmed or Exhausted and are recorded as such.
	cancelFlows()
	waitForFlows(shutdownCtx, dispatcher, logger)

	logger.Info("server exited")
}

func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.RequestRepository, func(), error) {
	if cfg.Storage.Driver == "postgres" {
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewRequestRepository(db), db.Close, nil
	}

	logger.Warn("using in-memory storage; request history is lost on restart")
	return memory.NewRequestRepository(), func() {}, nil
}

func openTokenStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (identity.TokenStore, func()) {
	if cfg.Addr == "" {
		logger.Info("no redis configured; identity tokens last for the session only")
		return identity.NoopTokenStore{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable; identity store lookups will fall through", "addr", cfg.Addr, "error", err)
	}

	return identity.NewRedisTokenStore(client, cfg.Key, cfg.TTL), func() { client.Close() }
}

func pollPolicy(cfg config.PollConfig) services.PollPolicy {
	return services.PollPolicy{
		Interval:     cfg.Interval,
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.InitialDelay,
	}
}

func logOutcome(logger *slog.Logger) services.OutcomeHandler {
	return func(o *services.Outcome) {
		logger.Info("confirmation finished",
			"id", o.ID,
			"kind", o.Kind,
			"resource_id", o.ResourceID,
			"request_id", o.RequestID,
			"status", o.Status,
			"guidance", o.Guidance,
			"error_code", o.ErrorCode,
			"attempts", o.Attempts)
	}
}

func waitForFlows(ctx context.Context, dispatcher *services.Dispatcher, logger *slog.Logger) {
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("flows still running at exit; the reconciler will close them on next start")
	}
}
