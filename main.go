package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"haram/config"
	"haram/database"
	rothemRepo "haram/database/repository/rothem"
	"haram/handlers"
	"haram/middleware"
	"haram/routes"
	"haram/services/haram"
	"haram/services/reservation"
	"haram/services/session"
	"haram/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// reservationBackend is what both the Haram API client and the Mongo store provide.
type reservationBackend interface {
	reservation.Repository
	handlers.RoomDirectory
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	var (
		backend     reservationBackend
		mongoClient *mongo.Client
	)
	switch config.AppConfig.ReservationBackend {
	case config.BackendMongo:
		client, err := database.InitDB(logger)
		if err != nil {
			logger.Fatal("main: failed to initialize MongoDB", zap.Error(err))
		}
		mongoClient = client

		repo := rothemRepo.NewMongoRothemRepo(database.Database(client), logger)
		if err := repo.EnsureIndexes(); err != nil {
			logger.Warn("main: failed to create rothem indexes", zap.Error(err))
		}
		backend = repo
	default:
		backend = haram.NewClient(config.AppConfig.HaramAPIBaseURL, config.AppConfig.HaramAPITimeout, logger)
	}

	var store session.Store
	switch config.AppConfig.SessionStore {
	case config.SessionStoreMemory:
		store = session.NewMemoryStore()
	default:
		if err := utils.InitSessionCache(); err != nil {
			logger.Fatal("main: failed to initialize session cache", zap.Error(err))
		}
		store = session.NewRedisStore(utils.GetSessionCacheClient())
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(ctx, utils.GetSessionCacheClient(), mongoClient)

	sessions := session.NewService(store, backend, config.AppConfig.SessionTTL, logger)
	handlerBundle := handlers.NewHandlerBundle(handlers.NewReservationHandler(sessions, backend))

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (backend=%s, sessions=%s)...",
		srv.Addr, config.AppConfig.ReservationBackend, config.AppConfig.SessionStore)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	if client := utils.GetSessionCacheClient(); client != nil {
		_ = client.Close()
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
