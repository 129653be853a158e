package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bracula/internal/api/middleware"
	"bracula/internal/api/routes"
	"bracula/internal/config"
	"bracula/internal/core/comments"
	"bracula/internal/core/feed"
	"bracula/internal/core/notifications"
	"bracula/internal/core/saves"
	"bracula/internal/core/votes"
	"bracula/internal/localstate"
	"bracula/internal/remote"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	state, err := localstate.NewStore(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}
	defer state.Close()

	log.Println("Connected to local state store")

	client := remote.NewClient(cfg.APIBaseURL)

	feedStore := feed.NewStore(client, logger)

	manager := notifications.NewManager(client, state, logger)
	manager.SetFetchTimeout(cfg.FetchTimeout)
	manager.SetDegraded(cfg.DegradedBackend)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Initialize(rootCtx); err != nil {
		log.Fatal("Failed to initialize notifications:", err)
	}
	defer manager.Teardown()

	coordinator := votes.NewCoordinator(client, feedStore, manager, logger)
	toggler := saves.NewToggler(client, feedStore, manager, logger)
	commentService := comments.NewService(client, feedStore, logger)
	sessions := middleware.NewSessionManager(cfg.SessionSecret)

	// Background refresh of page 1 for the persisted viewer, matching
	// the idle feed refresh of the web client.
	if user, ok, err := state.LoadUser(rootCtx); err == nil && ok {
		go feedStore.AutoRefresh(rootCtx, user.UserID, cfg.AutoRefreshInterval)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.Prometheus)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	r.Use(rateLimiter.Middleware)

	r.Use(sessions.WithViewer)

	routes.RegisterSessionRoutes(r, sessions, state)
	routes.RegisterFeedRoutes(r, feedStore)
	routes.RegisterSaveRoutes(r, toggler, feedStore)
	routes.RegisterVoteRoutes(r, coordinator)
	routes.RegisterCommentRoutes(r, commentService)
	routes.RegisterNotificationRoutes(r, manager)
	routes.RegisterPreferenceRoutes(r, state)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		log.Printf("BRACULA feed gateway starting on %s", cfg.Addr)
		log.Printf("Backend API: %s", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Shutdown error:", err)
	}
}
