package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DenizBitmez/event-hub/config"
	"github.com/DenizBitmez/event-hub/internal/database"
	"github.com/DenizBitmez/event-hub/internal/guard"
	"github.com/DenizBitmez/event-hub/internal/handler"
	"github.com/DenizBitmez/event-hub/internal/lease"
	"github.com/DenizBitmez/event-hub/internal/middleware"
	"github.com/DenizBitmez/event-hub/internal/queue"
	"github.com/DenizBitmez/event-hub/internal/repository"
	"github.com/DenizBitmez/event-hub/internal/service"
	"github.com/DenizBitmez/event-hub/internal/worker"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()
	gin.SetMode(cfg.Server.Mode)
	appLog := logger.WithComponent("server")

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	txm := repository.NewTxManager(pool)
	eventRepo := repository.NewEventRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	leaseStore := lease.NewRedisStore(rdb)
	seatLeases := lease.NewSeatLeaseManager(leaseStore, cfg.Booking.SeatHoldTTL)
	eventLocker := lease.NewEventLocker(leaseStore, cfg.Booking.EventLockTTL)

	capacityGuard, err := guard.New(cfg.Booking.Strategy, txm, eventRepo, eventLocker, cfg.Booking.OptimisticMaxRetries)
	if err != nil {
		log.Fatalf("Failed to build capacity guard: %v", err)
	}
	appLog.Info("Capacity guard ready", zap.String("strategy", cfg.Booking.Strategy))

	bookingQueue, err := queue.NewRedisStreamQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize booking event queue: %v", err)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	recorder := worker.NewSalesRecorder(rdb, bookingQueue)
	if err := recorder.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start sales recorder: %v", err)
	}

	bookingService := service.NewBookingService(txm, capacityGuard, seatLeases, eventRepo, seatRepo, ticketRepo, bookingQueue)
	eventService := service.NewEventService(eventRepo, seatRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT)
	reportService := service.NewReportService(eventRepo, ticketRepo, rdb)

	auth := middleware.JWTAuth(cfg.JWT.Secret)
	admin := middleware.RequireAdmin()

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewEventHandler(eventService).RegisterRoutes(router, auth)
	handler.NewBookingHandler(bookingService).RegisterRoutes(router, auth, admin)
	handler.NewAdminHandler(reportService).RegisterRoutes(router, auth, admin)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		appLog.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	appLog.Info("Server exiting")
}
