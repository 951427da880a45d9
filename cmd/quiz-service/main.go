package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-session/internal/config"
	"quiz-session/internal/httpapi"
	"quiz-session/internal/opentdb"
	"quiz-session/internal/quiz"
	"quiz-session/internal/quiz/rediscache"
	"quiz-session/internal/quiz/sqlite"
)

const drainTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("quiz-service: %v", err)
	}
	log.Printf("quiz-service stopped")
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("ignoring .env: %v", err)
	}
	cfg := config.LoadService()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	redisAddr := flag.String("redis", cfg.RedisAddr, "Redis address for the result cache (empty = in-memory)")
	flag.Parse()

	store, err := sqlite.NewSQLiteStore(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	var results quiz.ResultCache
	if *redisAddr != "" {
		client, err := rediscache.Connect(context.Background(), *redisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		results = rediscache.NewResultCache(client, cfg.ResultCacheTTL)
		log.Printf("result cache: redis at %s", *redisAddr)
	} else {
		results = quiz.NewMemoryResultCache(cfg.ResultCacheTTL)
		log.Printf("result cache: in-memory")
	}

	trivia := opentdb.NewClientWithBaseURL(cfg.OpenTDBURL, &http.Client{Timeout: cfg.HTTPTimeout})
	service := quiz.NewService(store, store, trivia.FetchQuestions, results)

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(service, store.DB()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("quiz-service listening on %s (db=%s)", ln.Addr(), *dbPath)
	// Deferred closes run only after serve has drained in-flight requests.
	return serve(ctx, server, ln, drainTimeout)
}
