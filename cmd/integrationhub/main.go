package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/integrationhub/internal/adapter/driven/filesystem"
	githubadapter "github.com/ericfisherdev/integrationhub/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/integrationhub/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/integrationhub/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/integrationhub/internal/adapter/driving/web"
	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"env_files", cfg.EnvFiles,
		"encryption", cfg.HasSecretKey(),
	)
	if !cfg.HasSecretKey() {
		slog.Warn("INTEGRATIONHUB_SECRET_KEY not set, credential writes are disabled")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	accountStore := sqliteadapter.NewAccountRepo(db, cfg.SecretKey)
	projectStore := sqliteadapter.NewProjectRepo(db)
	integrationStore := sqliteadapter.NewIntegrationRepo(db)
	environmentStore := sqliteadapter.NewEnvironmentRepo(db, cfg.SecretKey)
	testAccountStore := sqliteadapter.NewTestAccountRepo(db, cfg.SecretKey)

	envReader := filesystem.NewEnvReader()
	prober := filesystem.NewSystemProber(cfg.ScanHome)

	verifier, err := githubadapter.NewVerifier(cfg.GitHubAPIURL)
	if err != nil {
		return err
	}

	// 6. Create application services.
	scanSvc := application.NewScanService(envReader, prober, accountStore, projectStore, cfg.EnvFiles)
	importSvc := application.NewImportService(scanSvc, accountStore, integrationStore)
	accountSvc := application.NewAccountService(accountStore, verifier)
	projectSvc := application.NewProjectService(projectStore, integrationStore, accountStore)
	environmentSvc := application.NewEnvironmentService(environmentStore, projectStore)
	testAccountSvc := application.NewTestAccountService(testAccountStore, projectStore)

	// 7. Create API and web handlers on one mux.
	apiHandler := httphandler.NewHandler(scanSvc, importSvc, accountSvc, projectSvc, environmentSvc, testAccountSvc, slog.Default())
	webHandler := webhandler.NewHandler(scanSvc, importSvc, accountSvc, projectSvc, environmentSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default(), func(mux *http.ServeMux) {
		webhandler.RegisterRoutes(mux, webHandler)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 8. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		return err
	}

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
