package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/securefold/server/internal/api"
	"github.com/securefold/server/internal/api/handlers"
	"github.com/securefold/server/internal/api/services"
	"github.com/securefold/server/internal/config"
	"github.com/securefold/server/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// @title Securefold API
// @version 1.0
// @description Document-vault backend: PIN-protected identity documents, officer access ledger, failed-attempt alerts.
func main() {
	cfg := config.Envs
	if cfg.DBUrl == "" || cfg.DBName == "" {
		log.Fatal("DB_URL and DB_NAME must be set")
	}

	db, err := repositories.Connect(repositories.DSN(cfg.DBUrl, cfg.DBName))
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Successfully connected to database")

	h := handlers.New(
		repositories.NewUserStore(db),
		repositories.NewDocumentStore(db),
		repositories.NewAccessStore(db),
		services.NewMailer(cfg.Mail),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting Securefold server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
	}

	if err := repositories.Close(db); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
	log.Println("Server stopped")
}
