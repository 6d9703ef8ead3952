package main

import (
	"log"

	"github.com/counseling-platform/scheduling-service/config"
	"github.com/counseling-platform/scheduling-service/internal/consumer"
	"github.com/counseling-platform/scheduling-service/internal/handler"
	"github.com/counseling-platform/scheduling-service/internal/meeting"
	"github.com/counseling-platform/scheduling-service/internal/middleware"
	"github.com/counseling-platform/scheduling-service/internal/repository"
	"github.com/counseling-platform/scheduling-service/internal/service"
	"github.com/counseling-platform/scheduling-service/pkg/cache"
	"github.com/counseling-platform/scheduling-service/pkg/database"
	"github.com/counseling-platform/scheduling-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Lifecycle events out, counselor profile sync in.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	// Repositories
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	counselorRepo := repository.NewCounselorRepository(db)

	consumer.NewCounselorConsumer(counselorRepo).Start(msgs)

	// Collaborators and services
	rooms := meeting.NewClient(cfg.MeetingAPIURL, cfg.MeetingAPIKey)
	schedulingSvc := service.NewSchedulingService(slotRepo, bookingRepo, historyRepo, ratingRepo, counselorRepo, rooms, publisher)
	availabilitySvc := service.NewAvailabilityService(slotRepo, bookingRepo)

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if redisClient == nil {
		log.Println("[Cache] redis unavailable, availability cache disabled")
	}

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "scheduling-service"})
	})

	auth := middleware.JWTAuth(cfg.JWTSecret)

	students := e.Group("/api/v1", auth, middleware.RequireRole(middleware.RoleStudent))
	handler.NewBookingHandler(schedulingSvc).RegisterRoutes(students)

	counselors := e.Group("/api/v1/counselor", auth, middleware.RequireRole(middleware.RoleCounselor))
	handler.NewCounselorHandler(schedulingSvc, availabilitySvc).RegisterRoutes(counselors)

	public := e.Group("/api/v1/availability", middleware.ResponseCache(redisClient, "availability", cfg.CacheTTL))
	handler.NewAvailabilityHandler(availabilitySvc).RegisterRoutes(public)

	log.Printf("Scheduling Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
