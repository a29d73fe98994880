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

	"github.com/AptS-1547/dns-orchestrator/internal/adapter/driven/memory"
	"github.com/AptS-1547/dns-orchestrator/internal/adapter/driven/provider"
	sqliteadapter "github.com/AptS-1547/dns-orchestrator/internal/adapter/driven/sqlite"
	httphandler "github.com/AptS-1547/dns-orchestrator/internal/adapter/driving/http"
	"github.com/AptS-1547/dns-orchestrator/internal/application"
	"github.com/AptS-1547/dns-orchestrator/internal/config"
	"github.com/AptS-1547/dns-orchestrator/internal/version"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on a missing or malformed secret key).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"version", version.Version,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
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

	// 5. Wire adapters.
	accountStore := sqliteadapter.NewAccountRepo(db)
	credentialStore, err := sqliteadapter.NewCredentialRepo(db, cfg.EncryptionKey)
	if err != nil {
		return err
	}
	registry := memory.NewRegistry()
	factory := provider.NewFactory(cfg.ProviderRPS, cfg.ProviderBurst)

	// 6. Wire services.
	sc := application.NewServiceContext(accountStore, credentialStore, registry)
	credentialSvc := application.NewCredentialService(sc, factory)
	accountSvc := application.NewAccountService(sc, credentialSvc)
	domainSvc := application.NewDomainService(sc)
	dnsSvc := application.NewDNSService(sc)
	exportSvc := application.NewExportService(sc, accountSvc)

	// 7. Rebuild the provider registry from persisted accounts.
	bootstrap := application.NewBootstrapService(sc, credentialSvc)
	restored, err := bootstrap.RestoreAccounts(ctx)
	if err != nil {
		return err
	}
	slog.Info("accounts restored",
		"succeeded", restored.SuccessCount,
		"failed", len(restored.FailedAccounts),
	)

	// 8. HTTP server.
	apiHandler := httphandler.NewHandler(accountSvc, domainSvc, dnsSvc, exportSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("dns-orchestrator started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
