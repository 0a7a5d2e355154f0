package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jwtauth "pediatric-dosage/internal/adapters/auth/jwt"
	rediscache "pediatric-dosage/internal/adapters/cache/redis"
	pg "pediatric-dosage/internal/adapters/storage/postgres"
	"pediatric-dosage/internal/adapters/storage/postgrest"
	"pediatric-dosage/internal/config"
	"pediatric-dosage/internal/platform/logger"
	"pediatric-dosage/internal/router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Calculadora de Dosis Pediátrica API
// @version 1.0
// @description Cálculo de dosis pediátricas por peso (vía oral e intravenosa), reportes PDF e historial de consultas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:           "dosis",
		Short:         "Calculadora de dosis pediátrica",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes (STORE_DRIVER=postgres)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required to migrate")
			}

			db, err := pg.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := pg.Migrate(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if len(applied) == 0 {
				fmt.Println("Nothing to apply.")
				return nil
			}
			for _, name := range applied {
				fmt.Printf("applied %s\n", name)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", len(applied))
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServer(cfg *config.Config) error {
	log, err := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	opts := router.Options{
		Logger:         log,
		SnapshotTTL:    cfg.SnapshotTTL,
		Location:       loc,
		BootstrapAdmin: router.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
	case config.DriverREST:
		c, err := postgrest.New(cfg.RecordStoreURL, cfg.RecordStoreKey, cfg.RecordStoreTimeout)
		if err != nil {
			return err
		}
		opts.REST = c
	default:
		log.Warn("using in-memory store; data is lost on restart")
	}

	if cfg.RedisURL != "" {
		rc, err := rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rediscache.Ping(ctx, rc)
		cancel()
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		opts.Snapshots = rediscache.NewSnapshotStore(rc, cfg.SnapshotTTL)
	}

	if cfg.JWTSecret != "" {
		signer := jwtauth.NewSigner(jwtauth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL})
		opts.AuthVerifier = signer
		opts.TokenIssuer = signer
	} else {
		// sin verifier para modo dev
		log.Warn("JWT_SECRET not set; X-Debug-User-ID grants admin access")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
