package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/example/bookmyroom/internal/auth"
	"github.com/example/bookmyroom/internal/config"
	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/handlers"
	"github.com/example/bookmyroom/internal/httpx"
	"github.com/example/bookmyroom/internal/kafkax"
	"github.com/example/bookmyroom/internal/model"
	"github.com/example/bookmyroom/internal/notifier"
	"github.com/example/bookmyroom/internal/otelx"
	"github.com/example/bookmyroom/internal/outbox"
	"github.com/example/bookmyroom/internal/runtime"
	"github.com/example/bookmyroom/internal/storage"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "bookmyroom")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		logger.Warn("migration file not found, skipping", "err", err)
	} else if _, err := pool.Exec(ctx, string(migration)); err != nil {
		logger.Error("migration failed", "err", err)
		panic(err)
	} else {
		logger.Info("migration applied")
	}

	defaultLoc, err := time.LoadLocation(config.String("DEFAULT_TIMEZONE", "Europe/Bratislava"))
	if err != nil {
		panic(err)
	}

	var rdb *redis.Client
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
	}

	users := storage.NewUserRepository(pool)
	rooms := storage.NewRoomRepository(pool)
	buildings := storage.NewBuildingRepository(pool)
	reservations := storage.NewReservationRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	brokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	if brokers != "" {
		sender := notifier.NewSMTPSender(
			config.String("SMTP_HOST", "localhost"),
			config.String("SMTP_PORT", "1025"),
			config.String("SMTP_FROM", ""),
		)
		mailer := notifier.New(users, rooms, notifier.NewNotificationRepository(pool), sender, logger, defaultLoc)
		consumer := notifier.NewConsumer(logger, notifier.NewInboxRepository(pool), notifier.ConsumerConfig{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", "bookmyroom-notifier"),
			Topics:  []string{outbox.TopicReservationCreated, outbox.TopicReservationCancelled},
		}, mailer.Handle)
		go consumer.Run(ctx)
	}

	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}
	tokens := auth.NewTokenIssuer(jwtSecret, time.Duration(config.Int("TOKEN_TTL_HOURS", 8))*time.Hour)
	sessions := auth.NewSessionManager(
		[]byte(config.String("SESSION_HASH_KEY", jwtSecret)),
		[]byte(config.String("SESSION_BLOCK_KEY", "")),
	)

	var stateStore auth.StateStore
	if rdb != nil {
		stateStore = auth.NewRedisStateStore(rdb)
	} else {
		stateStore = auth.NewMemoryStateStore()
	}

	github := auth.NewGitHubClient(
		config.String("GITHUB_CLIENT_ID", ""),
		config.String("GITHUB_CLIENT_SECRET", ""),
		config.String("OAUTH_REDIRECT_URL", "http://localhost:"+port+"/auth/github/callback"),
	)
	frontendURL := config.String("FRONTEND_URL", "http://localhost:3000")

	authmw := auth.NewMiddleware(tokens, sessions, users.Get)

	authHandler := handlers.NewAuthHandler(github, stateStore, sessions, tokens, users, logger, frontendURL)
	roomsHandler := handlers.NewRoomsHandler(rooms, buildings, reservations, logger, defaultLoc)
	bookingHandler := handlers.NewBookingHandler(reservations, rooms, outboxRepo, logger, defaultLoc)
	profileHandler := handlers.NewProfileHandler(users, buildings, logger)
	adminHandler := handlers.NewAdminHandler(users, rooms, buildings, logger)
	csvHandler := handlers.NewCSVHandler(users, rooms, buildings, logger)

	readyChecks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}
	if brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMux(readyChecks...)

	mux.HandleFunc("/auth/github", authHandler.Login)
	mux.HandleFunc("/auth/github/callback", authHandler.Callback)
	mux.HandleFunc("/auth/logout", authHandler.Logout)

	mux.Handle("/api/rooms", authmw.Require(http.HandlerFunc(roomsHandler.List)))
	mux.Handle("/api/schedule", authmw.Require(http.HandlerFunc(roomsHandler.Schedule)))
	mux.Handle("/api/buildings", authmw.Require(http.HandlerFunc(roomsHandler.Buildings)))
	mux.Handle("/api/book-room", authmw.Require(http.HandlerFunc(bookingHandler.Book)))
	mux.Handle("/api/cancel-reservation/", authmw.Require(http.HandlerFunc(bookingHandler.Cancel)))
	mux.Handle("/api/user/profile", authmw.Require(http.HandlerFunc(profileHandler.Profile)))
	mux.Handle("/api/user/update-name", authmw.Require(http.HandlerFunc(profileHandler.UpdateName)))
	mux.Handle("/api/user/update-building", authmw.Require(http.HandlerFunc(profileHandler.UpdateBuilding)))

	admin := func(h http.HandlerFunc) http.Handler {
		return authmw.RequireRole(h, model.RoleAdmin)
	}
	mux.Handle("/api/admin/users", admin(adminHandler.ListUsers))
	mux.Handle("/api/admin/add-user", admin(adminHandler.AddUser))
	mux.Handle("/api/admin/delete-user/", admin(adminHandler.DeleteUser))
	mux.Handle("/api/admin/change-role", admin(adminHandler.ChangeRole))
	mux.Handle("/api/admin/update-user", admin(adminHandler.UpdateUser))
	mux.Handle("/api/admin/add-room", admin(adminHandler.AddRoom))
	mux.Handle("/api/admin/delete-room/", admin(adminHandler.DeleteRoom))
	mux.Handle("/api/admin/add-building", admin(adminHandler.AddBuilding))
	mux.Handle("/api/admin/delete-building/", admin(adminHandler.DeleteBuilding))
	mux.Handle("/api/admin/import/users", admin(csvHandler.ImportUsers))
	mux.Handle("/api/admin/export/users", admin(csvHandler.ExportUsers))
	mux.Handle("/api/admin/import/rooms", admin(csvHandler.ImportRooms))
	mux.Handle("/api/admin/export/rooms", admin(csvHandler.ExportRooms))

	middleware := []httpx.Middleware{
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   config.List("CORS_ALLOWED_ORIGINS", frontendURL),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(int64(config.Int("MAX_BODY_BYTES", 1<<20))),
		httpx.WithTimeout(30 * time.Second),
	}
	limit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if rdb != nil {
		middleware = append(middleware, httpx.NewRedisRateLimiter(rdb, limit, time.Minute, service).Middleware(logger, true))
	} else {
		middleware = append(middleware, httpx.NewRateLimiter(limit, time.Minute).Middleware())
	}

	httpHandler := httpx.Chain(mux, middleware...)
	httpHandler = otelhttp.NewHandler(httpHandler, service)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
