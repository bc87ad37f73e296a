package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mihircjain/localhealthrepo/internal/api"
	"github.com/mihircjain/localhealthrepo/internal/auth"
	"github.com/mihircjain/localhealthrepo/internal/config"
	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/insights"
	"github.com/mihircjain/localhealthrepo/internal/intent"
	"github.com/mihircjain/localhealthrepo/internal/persistence/memory"
	persistence "github.com/mihircjain/localhealthrepo/internal/persistence/postgres"
	"github.com/mihircjain/localhealthrepo/internal/query"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
	httptransport "github.com/mihircjain/localhealthrepo/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store domain.Store
	if cfg.StoreBackend == "memory" {
		store = memory.NewStore()
		log.Println("using in-memory store")
	} else {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		store = persistence.NewRepository(pool)
	}

	ranges := timerange.NewResolver()
	generator := insights.NewGenerator(store, store, store, store, store)

	activity := query.NewActivityHandler(store, store, ranges)
	food := query.NewFoodHandler(store, store, ranges)
	sleep := query.NewSleepHandler(store, store, ranges)
	blood := query.NewBloodHandler(store, ranges)
	medication := query.NewMedicationHandler(store, ranges)
	workout := query.NewWorkoutHandler(store, store, ranges)
	summary := query.NewSummaryComposer(activity, food, sleep, workout, generator, ranges)
	comparison := query.NewComparisonHandler(activity, food, sleep, workout, summary, ranges)

	engine := query.NewEngine(store, store, intent.NewClassifier(), map[intent.Intent]query.Handler{
		intent.Activity:   activity,
		intent.Food:       food,
		intent.Sleep:      sleep,
		intent.Blood:      blood,
		intent.Medication: medication,
		intent.Workout:    workout,
		intent.Summary:    summary,
		intent.Comparison: comparison,
	})

	handler := api.NewHandler(engine, store, store, generator)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(logger(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("health-query-api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
