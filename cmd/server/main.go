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

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/connectivity"
	"storefront-service/internal/persist"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	var gateway persist.Gateway
	if cfg.Redis.Enabled {
		redisGateway, err := persist.NewRedisGateway(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisGateway.Close()
		gateway = redisGateway
		log.Println("Redis connected")
	} else {
		gateway = persist.NewMemoryGateway()
		log.Println("Using in-memory persistence")
	}

	var source catalog.Source
	switch cfg.Catalog.Source {
	case "postgres":
		sqlSource, err := catalog.NewSQLSource(cfg.Catalog.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to catalog database: %v", err)
		}
		defer sqlSource.Close()
		source = sqlSource
		log.Println("Catalog database connected")
	default:
		staticSource, err := catalog.NewStaticSource(cfg.Catalog.FetchDelay)
		if err != nil {
			log.Fatalf("Failed to load embedded catalog: %v", err)
		}
		source = staticSource
		log.Println("Embedded catalog loaded")
	}

	var events *broker.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		events = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	writer := persist.NewBackgroundWriter(gateway, 5*time.Second)
	root := store.NewRoot(source, gateway, writer, events)

	// Cart and favorites snapshots are in place before the server accepts
	// traffic, like the app loading before first paint.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	root.LoadAll(startupCtx)
	startupCancel()

	monitor := connectivity.NewProber(cfg.Network.ProbeAddr, cfg.Network.ProbeInterval)
	proberCtx, proberCancel := context.WithCancel(context.Background())
	defer proberCancel()
	go func() {
		if err := monitor.Start(proberCtx); err != nil && err != context.Canceled {
			log.Printf("Connectivity prober error: %v", err)
		}
	}()

	refreshWorker := worker.NewRefreshWorker(monitor, root.Products)
	refreshWorker.Start(context.Background())
	defer refreshWorker.Stop()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(root)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	writer.Flush()

	log.Println("Server exited")
}
