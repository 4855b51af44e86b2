package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"izakaya-order/internal/app"
	"izakaya-order/internal/catalog"
	"izakaya-order/internal/config"
	"izakaya-order/internal/database"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/menugen"
	"izakaya-order/internal/messaging"
	"izakaya-order/internal/orders"
	"izakaya-order/internal/policy"
	"izakaya-order/internal/services/kitchen"
	"izakaya-order/internal/services/menu"
	"izakaya-order/internal/services/notification"
	"izakaya-order/internal/services/order"
	"izakaya-order/internal/services/tracking"
	"izakaya-order/internal/services/web"
	"izakaya-order/internal/snapshot"
	"izakaya-order/internal/telemetry"
	"izakaya-order/migrations"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (order-service, staff-service, notification-subscriber, kitchen-printer)")
		configPath = flag.String("config", "config.yaml", "Path to the YAML configuration file")
		port       = flag.Int("port", 0, "HTTP port, overrides server.port")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
		migrateDir = flag.String("migrations", "", "Directory with SQL migrations, defaults to the embedded set")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, *mode, cfg.Telemetry)
	if err != nil {
		log.Error("telemetry_failed", "Failed to initialize tracing", requestID, err, nil)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("telemetry_shutdown_failed", "Failed to flush traces", requestID, err, nil)
		}
	}()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": cfg.Server.Port,
	})

	switch *mode {
	case "order-service", "staff-service":
		err = runHTTPService(ctx, *mode, cfg, log, migrationSource(*migrateDir))
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	case "kitchen-printer":
		err = runKitchenPrinter(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runHTTPService runs the customer or staff HTTP surface over the shared state
func runHTTPService(ctx context.Context, mode string, cfg *config.Config, log *logger.Logger, schema fs.FS) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()
	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)
	repo := database.NewSnapshotRepository(db)

	policyStore, closePolicy := newPolicyStore(ctx, cfg, log)
	defer closePolicy()

	state := app.New(
		catalog.NewStore(catalog.DefaultRules(), nil),
		orders.NewManager(),
		policy.New(policyStore),
		log,
		app.WithPersister(repo),
		app.WithBroadcaster(publisher),
		app.WithLocation(cfg.Location()),
	)
	if err := state.Restore(ctx, repo, catalog.SeedItems()); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	replicator := snapshot.NewReplicator(state.Instance, snapshot.NewApplier(state.Catalog, state.Orders, log), log)
	go func() {
		if err := replicator.Run(ctx, messaging.NewInstanceConsumer(conn, log, mode+"-"+state.Instance)); err != nil && ctx.Err() == nil {
			log.Error("replication_failed", "Snapshot replication stopped", requestID, err, nil)
		}
	}()

	checks := []web.HealthCheck{
		db.Ping,
		func(context.Context) error {
			if conn.IsClosed() {
				return errors.New("rabbitmq connection closed")
			}
			return nil
		},
	}
	if pinger, ok := policyStore.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, pinger.Ping)
	}

	r := chi.NewRouter()
	r.Use(telemetry.Middleware(mode))
	r.Use(web.WithLogging(log))
	r.Get("/health", web.Health(mode, log, checks...))

	switch mode {
	case "order-service":
		order.NewHandler(order.NewService(state, publisher, log), log, cfg.Server.MaxTables).Routes(r)
	case "staff-service":
		kitchen.NewHandler(kitchen.NewService(state, publisher, log), log).Routes(r)
		menu.NewHandler(menu.NewService(state, menugen.New(cfg.MenuGen, log), log), log, cfg.Server.MaxTables).Routes(r)
		tracking.NewHandler(tracking.NewService(state), log).Routes(r)
	}

	return serve(ctx, mode, cfg.Server.Port, r, log)
}

// migrationSource picks the schema applied at startup
func migrationSource(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

// newPolicyStore connects to Redis when configured so every instance shares table modes.
// Without Redis the policy lives in this process only.
func newPolicyStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (policy.Store, func()) {
	if cfg.Redis.Addr == "" {
		log.Warn("policy_memory_store", "No Redis configured, policy is local to this instance", "", nil)
		return policy.NewMemoryStore(), func() {}
	}

	store, err := policy.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Namespace)
	if err != nil {
		log.Warn("policy_memory_store", "Redis unavailable, policy is local to this instance", "", map[string]interface{}{
			"addr":   cfg.Redis.Addr,
			"reason": err.Error(),
		})
		return policy.NewMemoryStore(), func() {}
	}

	log.Info("redis_connected", "Connected to Redis", "", map[string]interface{}{
		"addr": cfg.Redis.Addr,
	})
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error("redis_close_failed", "Failed to close Redis client", "", err, nil)
		}
	}
}

func serve(ctx context.Context, mode string, port int, handler http.Handler, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("service_started", fmt.Sprintf("%s listening on port %d", mode, port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	consumer := messaging.NewConsumer(conn, log, messaging.QueueNotifications, "notification-subscriber", prefetch)
	defer consumer.Close()

	return notification.NewSubscriber(consumer, os.Stdout, cfg.Location(), log).Start(ctx)
}

func runKitchenPrinter(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	consumer := messaging.NewConsumer(conn, log, messaging.QueueKitchen, "kitchen-printer", prefetch)
	defer consumer.Close()

	return kitchen.NewPrinter(consumer, os.Stdout, cfg.Location(), log).Start(ctx)
}
