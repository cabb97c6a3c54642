package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rawprouk/scrape/webui"
)

func handleServe(args []string) {
	// Parse flags for serve command
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", getEnv("CASESTUDIES_CONFIG", ""), "Path to config file (CASESTUDIES_CONFIG)")
	addr := fs.String("addr", "", "Listen address (default from config)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *logLevel)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger := newLogger(cfg.Log)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := webui.NewServer(newDriver(cfg, logger), cfg, logger)

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Request contexts derive from ctx so running scrapes stop on shutdown.
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "url", "http://"+cfg.Server.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown timeout exceeded, forcing exit", "err", err)
			os.Exit(1)
		}
		logger.Info("Server stopped")
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: server failed: %v\n", err)
			os.Exit(1)
		}
	}
}
