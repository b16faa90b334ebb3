package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-operations-backend/internal/config"     // Internal config loader
	"github.com/iliyamo/hotel-operations-backend/internal/database"   // MySQL connection helper
	"github.com/iliyamo/hotel-operations-backend/internal/handler"    // HTTP handlers
	"github.com/iliyamo/hotel-operations-backend/internal/middleware" // Redis cache and rate limiting
	"github.com/iliyamo/hotel-operations-backend/internal/payment"    // Scenario payment pipeline
	"github.com/iliyamo/hotel-operations-backend/internal/queue"      // Booking-confirmed consumer
	"github.com/iliyamo/hotel-operations-backend/internal/repository" // Data access layer
	"github.com/iliyamo/hotel-operations-backend/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // Load .env if present; real deployments use the environment directly

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories share the one connection pool.
	employees := repository.NewEmployeeRepo(db)
	tokens := repository.NewTokenRepo(db)
	customers := repository.NewCustomerRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	services := repository.NewServiceRepo(db)
	transactions := repository.NewTransactionRepo(db)
	promotions := repository.NewPromotionRepo(db)
	histories := repository.NewHistoryRepo(db)

	processor := payment.NewProcessor(db, bookings, services, transactions, promotions, histories)

	authHandler := handler.NewAuthHandler(cfg, employees, tokens)
	bookingHandler := handler.NewBookingHandler(cfg, rooms, bookings, customers, transactions, histories)
	transactionHandler := handler.NewTransactionHandler(processor, transactions)
	customerHandler := handler.NewCustomerHandler(customers)
	serviceHandler := handler.NewServiceHandler(services, bookings, customers)
	promotionHandler := handler.NewPromotionHandler(promotions, customers)
	roomHandler := handler.NewRoomHandler(rooms)

	e := echo.New() // Create Echo instance

	// Redis-backed rate limiting and response caching.  The client is nil
	// when Redis is unreachable and both middlewares degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterDesk(e, bookingHandler, transactionHandler, customerHandler,
		serviceHandler, promotionHandler, roomHandler, cfg.JWTSecret)
	router.RegisterManager(e, roomHandler, serviceHandler, promotionHandler, cfg.JWTSecret)

	// Consume booking.confirmed events in the background; the consumer runs
	// its own reconnect loop and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
