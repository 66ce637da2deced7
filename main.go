package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datagraph/internal"
	"datagraph/internal/config"
	"datagraph/internal/container"
	"datagraph/internal/registry"
	"datagraph/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)
	if level, err := internal.ParseLogLevel(appConfig.Server.LogLevel); err == nil {
		internal.SetLogLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Data.Uses(config.SourceDatabase) {
		if err := appContainer.OpenDatabase(ctx); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}

	if err := appContainer.LoadRegistry(ctx); err != nil {
		log.Fatalf("Failed to load dataset registry: %v", err)
	}
	log.Printf("Dataset registry loaded from %v (policy: %s)", appConfig.Data.Sources, appContainer.Policy)

	go sweepSessions(ctx, appContainer, appConfig.Server.SessionMaxIdle)

	if appConfig.Data.Watch {
		watcher := registry.NewDirWatcher(appConfig.Data.Dir, appContainer.Registry, appContainer.Loader, appConfig.Data.WatchDebounce)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Printf("Data directory watcher stopped: %v", err)
			}
		}()
	}

	server := ui.NewServer(appContainer.Sessions, appContainer.Analysis, appContainer.Registry)
	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var adminServer *http.Server
	if appConfig.Admin.Enabled {
		adminServer = &http.Server{
			Addr:              ":" + appConfig.Admin.Port,
			Handler:           ui.NewAdminApp(appContainer.Registry, appContainer.Loader, appContainer.Sessions),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("Admin server starting on :%s", appConfig.Admin.Port)
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Admin server failed: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("Server starting on :%s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
	if adminServer != nil {
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Admin server shutdown failed: %v", err)
		}
	}
}

// sweepSessions expires idle plot sessions until ctx is cancelled
func sweepSessions(ctx context.Context, c *container.Container, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	interval := maxIdle / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.Sessions.Sweep(now)
		}
	}
}
