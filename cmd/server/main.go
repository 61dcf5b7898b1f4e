package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/Dee-Rock/soucey/internal/adapter/events"
	"github.com/Dee-Rock/soucey/internal/adapter/handler"
	"github.com/Dee-Rock/soucey/internal/adapter/storage"
	"github.com/Dee-Rock/soucey/internal/config"
	"github.com/Dee-Rock/soucey/internal/core/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Initialize RabbitMQ
	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("failed to connect rabbitmq: %v", err)
	}
	log.Println("connected to rabbitmq")

	publisher, err := events.NewAMQPPublisher(amqpConn)
	if err != nil {
		log.Fatalf("failed to set up event publisher: %v", err)
	}

	// Initialize adapters and services
	redisAdapter := storage.NewRedisAdapter(rdb)
	mysqlAdapter := storage.NewMySQLAdapter(db)

	cartService := service.NewCartService(redisAdapter, cfg.CartWarningBuffer)
	orderService := service.NewOrderService(mysqlAdapter, mysqlAdapter, cartService, publisher)

	// Consume gateway payment confirmations
	consumer := events.NewPaymentUpdateConsumer(amqpConn, orderService)
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("failed to start payment update consumer: %v", err)
	}
	log.Println("payment update consumer started")

	// Drain cart persistence warnings; each one was already logged at
	// emission, the drain keeps the buffer from filling and counts them
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dropped := 0
		for range cartService.Warnings() {
			dropped++
		}
		if dropped > 0 {
			log.Printf("saw %d swallowed cart persistence failures this run", dropped)
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(orderService, cartService)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Recover(mux),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	cartService.Close()
	wg.Wait()

	amqpConn.Close()
	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
