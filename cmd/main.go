package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/config"
	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/internal/container"
	"github.com/oksasatya/docvault-api/internal/infrastructure/filestore"
	"github.com/oksasatya/docvault-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/docvault-api/internal/infrastructure/postgres"
	"github.com/oksasatya/docvault-api/internal/infrastructure/search"
	"github.com/oksasatya/docvault-api/internal/interface/middleware"
	"github.com/oksasatya/docvault-api/internal/router"
	"github.com/oksasatya/docvault-api/pkg/helpers"
	"github.com/oksasatya/docvault-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Record stores
	switch cfg.StoreDriver {
	case "postgres":
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		container.SetPGPool(pool)
		container.SetRepositories(container.Repositories{
			Users:         pginfra.NewUserRepository(pool),
			Vaults:        pginfra.NewVaultRepository(pool),
			Documents:     pginfra.NewDocumentRepository(pool),
			Notifications: pginfra.NewNotificationRepository(pool),
		})
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		container.SetRepositories(container.Repositories{
			Users:         store.Users(),
			Vaults:        store.Vaults(),
			Documents:     store.Documents(),
			Notifications: store.Notifications(),
		})
	}

	// Redis
	if cfg.RedisEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			helpers.LogError(logger, "redis ping failed; sessions and rate limits will error until it is reachable", err,
				logrus.Fields{"addr": cfg.RedisAddr})
		}
		container.SetRedis(rdb)
	}

	files, closeFiles, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init file storage: %v", err)
	}
	defer closeFiles()
	container.SetFileStore(files)

	// Elasticsearch
	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		idx := search.NewDocumentIndex(es, cfg.ESDocumentsIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			helpers.LogError(logger, "document index not ready; search requests will fail until it is", err,
				logrus.Fields{"index": cfg.ESDocumentsIndex})
		}
		container.SetES(es)
		container.SetIndexer(idx)
	}

	// RabbitMQ (notification emails)
	if cfg.NotificationEmailEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotificationsQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; notification emails disabled", err,
				logrus.Fields{"queue": cfg.RabbitMQNotificationsQueue})
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// JWT
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))

	// Gin engine and global middleware
	r := gin.New()
	r.MaxMultipartMemory = cfg.UploadMaxBytes
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	if cfg.FileStorage == "local" {
		r.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, router.DepsFromContainer())
	reg.RegisterAll()
	for _, line := range reg.PolicyTable() {
		logger.Debug("route " + line)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{
			"port": cfg.Port, "store": cfg.StoreDriver, "files": cfg.FileStorage, "search": cfg.SearchEnabled,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// newFileStore builds the configured attachment backend. The returned func
// releases its client, if any.
func newFileStore(ctx context.Context, cfg *config.Config) (application.FileStore, func(), error) {
	noop := func() {}
	switch cfg.FileStorage {
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, err
		}
		container.SetGCS(client)
		return filestore.NewGCS(client, cfg.StorageBucket, cfg.StorageFolder), func() { _ = client.Close() }, nil
	case "s3":
		s, err := filestore.NewS3(ctx, filestore.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.StorageBucket,
			Folder:    cfg.StorageFolder,
		})
		return s, noop, err
	default:
		l, err := filestore.NewLocal(cfg.UploadDir, cfg.UploadURLPrefix)
		return l, noop, err
	}
}
