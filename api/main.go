package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iselbouch1/bouchauto-showcase/internal/auth"
	"github.com/iselbouch1/bouchauto-showcase/internal/cache"
	"github.com/iselbouch1/bouchauto-showcase/internal/config"
	"github.com/iselbouch1/bouchauto-showcase/internal/db"
	api "github.com/iselbouch1/bouchauto-showcase/internal/http"
	"github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
	rl "github.com/iselbouch1/bouchauto-showcase/internal/http/rate_limiter"
	"github.com/iselbouch1/bouchauto-showcase/internal/logging"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/redissvc"
	"github.com/iselbouch1/bouchauto-showcase/internal/remote"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var configPath string

// @title BouchAuto Catalog API
// @version 1.0
// @description Product catalog of the BouchAuto accessories storefront.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bouchauto",
		Short:        "BouchAuto storefront catalog service",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (default ./config.yaml)")

	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Start the HTTP API", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "Apply the Postgres schema", RunE: runMigrate},
		&cobra.Command{Use: "seed", Short: "Load the embedded demo catalog into Postgres", RunE: runSeed},
	)
	return root
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// backend holds the repositories behind the handlers for the configured mode.
type backend struct {
	catalog repo.CatalogRepository
	metrics repo.MetricsRepository
	users   repo.UserRepository
	closers []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.Catalog.Mode {
	case config.ModePostgres:
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, database.Close)
		b.catalog = repo.NewPostgresCatalogRepository(database)
		b.metrics = repo.NewPostgresMetricsRepository(database)
		b.users = repo.NewPostgresUserRepository(database)
	case config.ModeRemote:
		b.catalog = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
		b.users = repo.NewInMemoryUserRepository()
	default:
		catalogRepo, err := repo.NewSeededCatalogRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to load demo catalog: %w", err)
		}
		metricsRepo := repo.NewInMemoryMetricsRepository()
		metricsRepo.SetRepositories(catalogRepo)
		b.catalog = catalogRepo
		b.metrics = metricsRepo
		b.users = repo.NewInMemoryUserRepository()
	}

	if cfg.Redis.Enabled {
		rs, err := redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, rs.Close)
		b.catalog = cache.NewCatalogCache(b.catalog, rs, cfg.Cache.TTL, logger.Named("cache"))
		logger.Info("catalog cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	}

	return b, nil
}

func ensureAdmin(ctx context.Context, users repo.UserRepository, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	_, err = users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	if err != nil && !errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is not set, using the development secret")
	}
	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not open catalog backend", zap.String("mode", cfg.Catalog.Mode), zap.Error(err))
		return err
	}
	defer b.Close()

	if cfg.Auth.AdminPassword != "" {
		if err := ensureAdmin(ctx, b.users, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	} else {
		logger.Warn("auth.admin_password is not set, admin endpoints only accept existing users")
	}

	handlers.SetCatalogRepo(b.catalog)
	handlers.SetMetricsRepo(b.metrics)
	handlers.SetUserRepo(b.users)
	handlers.SetLogger(logger.Named("handlers"))

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
	api.SetRateLimiter(limiter)
	api.SetLogger(logger.Named("http"))

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTP.Addr), zap.String("mode", cfg.Catalog.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	return db.Connect(ctx, cfg.Database.URL)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	database, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(cmd.Context(), database); err != nil {
		return err
	}
	logger.Info("schema applied")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	database, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ds, err := repo.SeedDataset()
	if err != nil {
		return err
	}
	if err := repo.NewPostgresCatalogRepository(database).Import(cmd.Context(), ds); err != nil {
		return err
	}
	logger.Info("demo catalog loaded", zap.Int("categories", len(ds.Categories)), zap.Int("products", len(ds.Products)))

	if cfg.Auth.AdminPassword != "" {
		return ensureAdmin(cmd.Context(), repo.NewPostgresUserRepository(database), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	}
	return nil
}
