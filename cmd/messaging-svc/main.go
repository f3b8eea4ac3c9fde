package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/di"
)

func main() {
	app, cleanup, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize messaging service: %v", err)
	}
	defer cleanup()

	addr := fmt.Sprintf("%s:%s", app.Config.Server.Host, app.Config.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		app.Logger.WithField("addr", addr).Info("messaging service running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info("shutting down messaging service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		app.Logger.WithError(err).Warn("server shutdown")
	}
	app.Registry.CloseAll()

	if sqlDB, err := app.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	app.Logger.Info("messaging service stopped")
}
