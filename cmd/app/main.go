package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

var envFile string

func main() {
	root := &cobra.Command{
		Use:   "fulfillment",
		Short: "Driver fulfillment and earnings settlement service",
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the checkout consumer and the background jobs",
		Run: func(c *cobra.Command, _ []string) {
			cfg, lg := boot()
			db := openDB(cfg)

			if migrate {
				if err := postgres.Migrate(db); err != nil {
					log.Fatalf("Migration failed: %v", err)
				}
			}

			serve(c.Context(), cfg, db, lg)
		},
	}
	command.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return command
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(*cobra.Command, []string) {
			cfg, lg := boot()
			if err := postgres.Migrate(openDB(cfg)); err != nil {
				log.Fatalf("Migration failed: %v", err)
			}
			lg.Info("Schema is up to date")
		},
	}
}

func boot() (cmd.Config, *slog.Logger) {
	cfg, err := cmd.LoadConfig(envFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(lg)
	return cfg, lg
}

func openDB(cfg cmd.Config) *gorm.DB {
	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Connecting to postgres failed: %v", err)
	}
	return db
}

func serve(parent context.Context, cfg cmd.Config, db *gorm.DB, lg *slog.Logger) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(cfg, db, lg)
	if err != nil {
		log.Fatalf("Wiring failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			lg.Error("Closing connections failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server, err := app.CreateHTTPServer(reg)
	if err != nil {
		log.Fatalf("Building HTTP server failed: %v", err)
	}
	e, err := httpin.NewEcho(server, []byte(cfg.JWTSecret), lg)
	if err != nil {
		log.Fatalf("Building router failed: %v", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Building jobs failed: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Starting jobs failed: %v", err)
	}
	defer jobManager.StopAll()

	consumer := app.CreateBasketConfirmedConsumer()
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(ctx); err != nil {
			lg.Error("Checkout consumer stopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
		lg.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("HTTP shutdown failed", "error", err)
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		lg.Warn("Checkout consumer did not stop in time")
	}
}
