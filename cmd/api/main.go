package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"reserva/internal/availability"
	"reserva/internal/config"
	"reserva/internal/database"
	"reserva/internal/middleware"
	"reserva/internal/modules/admin"
	"reserva/internal/modules/auth"
	"reserva/internal/modules/calendar"
	"reserva/internal/modules/catalog"
	"reserva/internal/modules/reservation"
	"reserva/internal/notification"
	jwtsvc "reserva/internal/pkg/jwt"
	"reserva/internal/repository"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("database.dsn is empty")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is empty")
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	intentionRepo := repository.NewIntentionRepository(db)
	pushRepo := repository.NewPushSubscriptionRepository(db)

	jwtService := jwtsvc.New(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	policy := availability.Policy{
		MinLeadTime:   time.Duration(cfg.Booking.LockWindowHours) * time.Hour,
		CancelCutoff:  time.Duration(cfg.Booking.CancelCutoffHours) * time.Hour,
		LookaheadDays: cfg.Booking.LookaheadDays,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshotStore := availability.NewSnapshotStore()
	refresher := availability.NewRefresher(reservationRepo, snapshotStore, policy, cfg.Refresher.Interval, nil)
	go refresher.Run(ctx)

	hub := notification.NewHub()
	defer hub.Close()

	var pool *notification.WorkerPool
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, pushRepo, &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		})
		pool.Start(ctx)
	} else {
		log.Println("VAPID keys not configured, web push disabled; websocket feed stays on")
	}
	notifier := notification.NewNotifier(pool, hub)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(resourceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	reservationService := reservation.NewService(
		reservationRepo, intentionRepo, catalogService, snapshotStore, policy, notifier)
	reservationHandler := reservation.NewHandler(reservationService)

	calendarService := calendar.NewService(snapshotStore, catalogService, policy)
	calendarHandler := calendar.NewHandler(calendarService)

	adminService := admin.NewService(
		reservationRepo, intentionRepo, catalogService, snapshotStore, policy, notifier)
	adminHandler := admin.NewHandler(adminService)

	notificationHandler := notification.NewHandler(pushRepo, hub, cfg.Push.PublicKey)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), int(cfg.Server.RateLimitPerSec)*2))

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	catalogCache := gocache.New(cacheTTL, 2*cacheTTL)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.Auth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			reservationHandler.RegisterProtectedRoutes(protected)
			calendarHandler.RegisterProtectedRoutes(protected)
			notificationHandler.RegisterProtectedRoutes(protected)

			cached := protected.Group("")
			cached.Use(middleware.Cache(catalogCache, cacheTTL))
			catalogHandler.RegisterProtectedRoutes(cached)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterAdminRoutes(adminGroup)
				authHandler.RegisterAdminRoutes(adminGroup)
				catalogHandler.RegisterAdminRoutes(adminGroup)
			}
		}
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutdown signal received, stopping services")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server shutdown: %v", err)
	}

	log.Println("server gracefully stopped")
}
