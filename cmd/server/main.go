package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pulseboard/backend/internal/activity"
	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/auth"
	"github.com/pulseboard/backend/internal/config"
	"github.com/pulseboard/backend/internal/media"
	"github.com/pulseboard/backend/internal/middleware"
	"github.com/pulseboard/backend/internal/post"
	"github.com/pulseboard/backend/internal/profile"
	"github.com/pulseboard/backend/internal/store"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Dev() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── MongoDB (activity trail, optional) ───────────────────
	var events activity.EventStore
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect")
		}
		defer mongoClient.Disconnect(ctx)
		events = store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
	} else {
		log.Warn().Msg("MONGO_URI not set, activity trail disabled")
	}

	// ── Redis (rate limiting, optional) ──────────────────────
	var limiter middleware.RateLimitClient
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		limiter = rdb
	} else {
		log.Warn().Msg("REDIS_ADDR not set, rate limiting disabled")
	}

	// ── MinIO (media storage, optional) ──────────────────────
	var minioStore *store.MinioStore
	if cfg.MinioEndpoint != "" {
		minioStore, err = store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio connect")
		}
	} else {
		log.Warn().Msg("MINIO_ENDPOINT not set, avatar uploads disabled")
	}

	// ── Services ─────────────────────────────────────────────
	respond := api.NewResponder(cfg.Dev(), log)
	recorder := activity.NewRecorder(events, log)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := auth.NewService(pgStore, tokens, log)
	profileSvc := profile.NewService(pgStore, log)
	postSvc := post.NewService(pgStore, log)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(authSvc, respond, recorder)
	postHandler := post.NewHandler(postSvc, respond, recorder)
	activityHandler := activity.NewHandler(events, respond)

	var mediaUploads profile.FileStore
	var mediaDownloads media.FileStore
	if minioStore != nil {
		mediaUploads = minioStore
		mediaDownloads = minioStore
	}
	profileHandler := profile.NewHandler(profileSvc, mediaUploads, cfg.MediaBaseURL, respond, recorder)
	mediaHandler := media.NewHandler(mediaDownloads, respond)

	requireAuth := middleware.RequireAuth(tokens, pgStore, respond)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Credential routes
	r.With(middleware.RateLimit(limiter, "signup", cfg.SignupRateLimit, respond, log)).
		Post("/signup", authHandler.Signup)
	r.With(middleware.RateLimit(limiter, "login", cfg.LoginRateLimit, respond, log)).
		Post("/login", authHandler.Login)
	r.With(requireAuth).Get("/users", authHandler.GetUsers)
	r.Get("/users/{id}", authHandler.GetUserByID)
	r.Get("/users/email/{email}", authHandler.GetUserByEmail)

	// Profile routes
	r.Route("/profile", func(r chi.Router) {
		r.Get("/public/{id}", profileHandler.GetPublic)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", profileHandler.GetOwn)
			r.Put("/", profileHandler.Update)
			r.Post("/complete", profileHandler.Complete)
			r.Post("/avatar", profileHandler.UploadAvatar)
		})
	})

	// Post routes
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.Get("/{id}", postHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.Create)
			r.Get("/my/posts", postHandler.MyPosts)
			r.Put("/{id}", postHandler.Update)
			r.Delete("/{id}", postHandler.Delete)
		})
	})

	// Activity trail
	r.With(requireAuth).Get("/activity", activityHandler.List)

	// Media
	r.Get("/media/*", mediaHandler.Serve)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
