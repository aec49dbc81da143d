// Package main is the entry point for the stockbook API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stockbook/internal/config"
	"stockbook/internal/core/id"
	"stockbook/internal/domain"
	"stockbook/internal/domain/auth"
	"stockbook/internal/domain/catalogs/category"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/location"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/movement"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/writeoff"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/posting"
	v1 "stockbook/internal/infrastructure/http/v1"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/auth_repo"
	"stockbook/internal/infrastructure/storage/postgres/catalog_repo"
	"stockbook/internal/infrastructure/storage/postgres/document_repo"
	"stockbook/internal/infrastructure/storage/postgres/ledger_repo"
	"stockbook/pkg/logger"
	"stockbook/pkg/numerator"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting stockbook server", "version", version, "env", cfg.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.MaxConnLifetime = cfg.DBConnLifetime
	poolCfg.MaxConnIdleTime = cfg.DBConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// Regular operations use default timeouts; posting gets a bounded
	// lock wait so contending postings fail fast and retry.
	txManager := postgres.NewTxManager(pool)
	postingTxManager := postgres.NewTxManagerWithOptions(pool, postgres.PostingTxOptions())

	// --- Infrastructure services ---
	// Numbers are drawn outside business transactions, straight from
	// the pool; a rolled-back document keeps its number.
	numeratorService := numerator.New(pool.Pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("audit service init failed", "error", err)
	}

	// --- Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	authService := auth.NewService(userRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Catalogs ---
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	locationRepo := catalog_repo.NewLocationRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)

	warehouseService := warehouse.NewService(warehouseRepo, txManager)
	locationService := location.NewService(locationRepo, warehouseRepo, txManager)
	itemService := item.NewService(itemRepo, categoryRepo, txManager)
	categoryService := category.NewService(categoryRepo, txManager)

	// --- Ledger and posting ---
	ledgerRepo := ledger_repo.NewLedgerRepo(txManager)
	ledgerService := ledger.NewService(ledgerRepo)

	resolver := documents.NewResolver(catalog_repo.NewReferenceRepo(txManager))

	// One engine per document type: each engine flips status in its own
	// document table.
	receiptEngine := posting.NewEngine(postingTxManager, ledgerRepo, document_repo.NewReceiptStatusStore(txManager))
	writeoffEngine := posting.NewEngine(postingTxManager, ledgerRepo, document_repo.NewWriteoffStatusStore(txManager))
	movementEngine := posting.NewEngine(postingTxManager, ledgerRepo, document_repo.NewMovementStatusStore(txManager))

	// --- Documents ---
	receiptRepo := document_repo.NewReceiptRepo(txManager)
	writeoffRepo := document_repo.NewWriteoffRepo(txManager)
	movementRepo := document_repo.NewMovementRepo(txManager)

	receiptService := receipt.NewService(receiptRepo, receiptEngine, numeratorService, resolver, txManager)
	writeoffService := writeoff.NewService(writeoffRepo, writeoffEngine, numeratorService, resolver, txManager)
	movementService := movement.NewService(movementRepo, movementEngine, numeratorService, resolver, txManager)

	registerAuditHooks(receiptService.Hooks(), auditService, "receipt")
	registerAuditHooks(writeoffService.Hooks(), auditService, "writeoff")
	registerAuditHooks(movementService.Hooks(), auditService, "movement")

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,

		Health: handlers.NewHealthHandler(pool.Pool, version),
		Auth:   handlers.NewAuthHandler(authService),

		Warehouses: handlers.NewWarehouseHandler(warehouseService),
		Locations:  handlers.NewLocationHandler(locationService),
		Items:      handlers.NewItemHandler(itemService),
		Categories: handlers.NewCategoryHandler(categoryService),

		Receipts:  handlers.NewReceiptHandler(receiptService),
		Writeoffs: handlers.NewWriteoffHandler(writeoffService),
		Movements: handlers.NewMovementHandler(movementService),

		Stock: handlers.NewStockHandler(ledgerService),
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Infow("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}

// registerAuditHooks records create and update events for a document
// type. After-hooks run outside the transaction; failures are logged
// by the services, not returned to the caller.
func registerAuditHooks[T interface {
	GetID() id.ID
}](hooks *domain.HookRegistry[T], audit *postgres.AuditService, entityType string) {
	log := func(action postgres.AuditAction) domain.Hook[T] {
		return func(ctx context.Context, doc T) error {
			changes, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshal %s for audit: %w", entityType, err)
			}
			return audit.Log(ctx, postgres.AuditEntry{
				EntityType: entityType,
				EntityID:   doc.GetID(),
				Action:     action,
				Changes:    changes,
			})
		}
	}

	hooks.On(domain.AfterCreate, log(postgres.AuditActionCreate))
	hooks.On(domain.AfterUpdate, log(postgres.AuditActionUpdate))
}
