package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"cmsapi/docs"
	"cmsapi/internal/config"
	"cmsapi/internal/database"
	"cmsapi/internal/database/migration"
	handlers "cmsapi/internal/http/handler"
	"cmsapi/internal/http/middleware"
	"cmsapi/internal/logger"
	"cmsapi/internal/media"
	"cmsapi/internal/model"
	tracing "cmsapi/internal/otel"
	"cmsapi/internal/repository"
	"cmsapi/internal/repository/mongodb"
	"cmsapi/internal/repository/postgres"
	"cmsapi/internal/service"
	"cmsapi/internal/storage"
)

// stores is the set of document stores the services run on, plus the backend's health probe.
type stores struct {
	posts      repository.PostRepository
	files      repository.FileRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	ping       handlers.PingFunc
	close      func(context.Context) error
}

// @title						CMS API
// @version					1.0
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize document store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	objStore, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	uploader := media.NewUploader(objStore, storage.PublicBaseURL(cfg.Storage), log)

	postSvc := service.NewPostService(service.PostStores{
		Posts:      st.posts,
		Files:      st.files,
		Categories: st.categories,
		Tags:       st.tags,
		Users:      st.users,
	}, uploader, cfg.Upload.MaxFiles, log)
	categorySvc := service.NewCategoryService(st.categories)
	tagSvc := service.NewTagService(st.tags)
	profileSvc := service.NewProfileService(st.profiles, st.users, uploader, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Upload.MaxBytes,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		Pinger:      st.ping,
		Posts:       postSvc,
		Categories:  categorySvc,
		Tags:        tagSvc,
		Profiles:    profileSvc,
		JWTSecret:   []byte(cfg.JWTSecret),
		MaxFiles:    cfg.Upload.MaxFiles,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute),
		Gatherer:    reg,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("server_starting", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server_stopped", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("server_shutting_down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server_shutdown_failed", zap.Error(err))
		}
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.close(cleanupCtx); err != nil {
		log.Warn("store_close_failed", zap.Error(err))
	}
	if err := shutdownTracing(cleanupCtx); err != nil {
		log.Warn("tracing_shutdown_failed", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*stores, error) {
	switch cfg.DBDriver {
	case "", "mongo":
		db, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := migration.EnsureMongoIndexes(ctx, db, log); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return mongoStores(db), nil
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgresStores(db), nil
	default:
		return nil, errors.New("unsupported DB_DRIVER " + cfg.DBDriver)
	}
}

func mongoStores(db *mongo.Database) *stores {
	return &stores{
		posts:      mongodb.NewStore[model.Post](db),
		files:      mongodb.NewStore[model.File](db),
		categories: mongodb.NewStore[model.Category](db),
		tags:       mongodb.NewStore[model.Tag](db),
		users:      mongodb.NewStore[model.User](db),
		profiles:   mongodb.NewStore[model.UserProfile](db),
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
		close: db.Client().Disconnect,
	}
}

func postgresStores(db *sql.DB) *stores {
	return &stores{
		posts:      postgres.NewStore[model.Post](db),
		files:      postgres.NewStore[model.File](db),
		categories: postgres.NewStore[model.Category](db),
		tags:       postgres.NewStore[model.Tag](db),
		users:      postgres.NewStore[model.User](db),
		profiles:   postgres.NewStore[model.UserProfile](db),
		ping:       db.PingContext,
		close:      func(context.Context) error { return db.Close() },
	}
}
