package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/handler"
	mid "github.com/4lovek5346534/git-Supreme-Cofe/internal/middleware"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/router"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/service"
	"github.com/4lovek5346534/git-Supreme-Cofe/internal/store"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/config"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/database"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/jwtutil"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env is optional)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+appConfig.ServiceName, appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized", zap.String("path", appConfig.Metrics.Path))

	// Initialize databases
	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	mdb, err := database.InitMongo(context.Background(), &appConfig.Mongo)
	if err != nil {
		log.Fatal("Failed to initialize question store", zap.Error(err))
	}
	log.Info("Question store connection established")

	services := service.New(store.NewGormStore(db), store.NewMongoQuestions(mdb))

	h := handler.New(services, handler.Options{
		ServiceName:  appConfig.ServiceName,
		CookieName:   appConfig.JWT.CookieName,
		SecureCookie: appConfig.Server.Env == "production",
		Checks: map[string]func(ctx context.Context) error{
			"postgres": database.Ping,
			"mongo":    database.PingMongo,
		},
	})
	gate := mid.NewGate(appConfig.JWT.CookieName)

	e, err := router.New(h, gate, appConfig.Metrics.Path)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}
	e.HideBanner = true

	// Start server
	port := appConfig.Server.Port
	go func() {
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := database.CloseMongo(shutdownCtx); err != nil {
		log.Error("Failed to close question store", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	log.Info("Server stopped")
}
