package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	api "farmequip-backoffice/internal/api/grpc"
	httpapi "farmequip-backoffice/internal/api/http"
	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
	"farmequip-backoffice/internal/notify"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/repository/memory"
	"farmequip-backoffice/internal/repository/redisstore"
	"farmequip-backoffice/internal/repository/sqlstore"
	"farmequip-backoffice/internal/security"
	"farmequip-backoffice/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FarmEquip back office...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_enabled", cfg.GRPC.Enabled)
	logger.Info("Database configuration", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "database", cfg.Database.Database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open record store", "error", err)
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer closeStore()

	// Initialize Security
	tokens := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	auth := security.NewAuthenticator(cfg.Admin, tokens)

	// Notifications go to the log, to connected browsers and, when
	// configured, to the alert mailbox.
	hub := notify.NewHub()
	defer hub.Close()
	notifier := notify.Multi{notify.NewLogNotifier(), hub}
	if cfg.SendGrid.Enabled && cfg.Admin.AlertEmail != "" {
		mailer := notify.NewMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, cfg.Admin.AlertEmail)
		defer mailer.Wait()
		notifier = append(notifier, mailer)
		logger.Info("Mail alerts enabled", "to", cfg.Admin.AlertEmail)
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	// Initialize Screens
	dashboard := service.NewDashboardScreen(store.EquipmentRepository, store.BookingRepository, store.FarmerRepository, service.Deps{Notifier: notifier})
	deps := service.Deps{Notifier: notifier, Listener: dashboard}
	screens := httpapi.Screens{
		Equipment: service.NewEquipmentScreen(store.EquipmentRepository, deps),
		Bookings:  service.NewBookingScreen(store.BookingRepository, deps),
		Farmers:   service.NewFarmerScreen(store.FarmerRepository, deps),
		Dashboard: dashboard,
		Settings:  service.NewSettingsScreen(store.SettingsRepository, deps),
	}
	screens.Equipment.Mount()
	screens.Bookings.Mount()
	screens.Farmers.Mount()
	screens.Dashboard.Mount()
	defer func() {
		screens.Equipment.Unmount()
		screens.Bookings.Unmount()
		screens.Farmers.Unmount()
		screens.Dashboard.Unmount()
	}()

	grpcServer, healthServer := api.NewServer(tokens)

	// Initial loads. A failing source leaves its screen empty and reports
	// not serving until a POST to its reload route succeeds.
	loads := map[string]api.Loader{
		api.ServiceEquipment: func(ctx context.Context) error { _, err := screens.Equipment.Load(ctx); return err },
		api.ServiceBookings:  func(ctx context.Context) error { _, err := screens.Bookings.Load(ctx); return err },
		api.ServiceFarmers:   func(ctx context.Context) error { _, err := screens.Farmers.Load(ctx); return err },
		api.ServiceDashboard: func(ctx context.Context) error { _, err := screens.Dashboard.Refresh(ctx); return err },
	}
	for name, load := range loads {
		_ = api.LoadAndReport(ctx, healthServer, name, load)
	}

	router := httpapi.NewRouter(screens, httpapi.Options{
		Auth:        auth,
		Tokens:      tokens,
		Hub:         hub,
		ExportSheet: cfg.Export.SheetName,
		MetricsPath: cfg.Metrics.Path,
		OnReload: func(kind service.RecordKind, err error) {
			api.Report(healthServer, healthServices[kind], err)
		},
	})
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		g.Go(func() error {
			logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
			return grpcServer.Serve(lis)
		})
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

var healthServices = map[service.RecordKind]string{
	service.KindEquipment: api.ServiceEquipment,
	service.KindBookings:  api.ServiceBookings,
	service.KindFarmers:   api.ServiceFarmers,
}

// openStore builds the record backend named by the config. Settings move to
// Redis when it is enabled.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(), error) {
	var (
		store   *repository.Store
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Database.Driver {
	case "memory":
		logger.Info("Using in-memory store with demo data")
		store = memory.NewStore()
	default:
		db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		if err := sqlstore.Migrate(ctx, db); err != nil {
			closeAll()
			return nil, nil, err
		}
		if cfg.Database.Seed {
			if err := sqlstore.Seed(ctx, db, memory.SeedEquipment(), memory.SeedBookings(), memory.SeedFarmers()); err != nil {
				closeAll()
				return nil, nil, err
			}
		}
		logger.Info("Database connection established")
		store = sqlstore.NewStore(db)
	}

	if cfg.Redis.Enabled {
		client := redisstore.NewClient(cfg.Redis)
		if err := redisstore.Ping(ctx, client); err != nil {
			client.Close()
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { client.Close() })
		store.SettingsRepository = redisstore.NewSettingsRepository(client, cfg.Redis.KeyPrefix)
		logger.Info("Settings stored in Redis", "address", cfg.Redis.Address)
	}
	return store, closeAll, nil
}
