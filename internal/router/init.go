package router

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/config"
	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/internal/container"
	handlers "github.com/oksasatya/docvault-api/internal/interface/http"
	"github.com/oksasatya/docvault-api/internal/interface/middleware"
	"github.com/oksasatya/docvault-api/internal/router/modules"
	"github.com/oksasatya/docvault-api/pkg/helpers"
)

// Deps is everything the modules are built from. Optional collaborators
// (Redis, Indexer, Publisher) may be nil.
type Deps struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Redis     *redis.Client
	JWT       *helpers.JWTManager
	Repos     container.Repositories
	Files     application.FileStore
	Indexer   application.DocumentIndexer
	Publisher application.JobPublisher
}

// DepsFromContainer collects Deps from the process-wide singletons.
func DepsFromContainer() Deps {
	d := Deps{
		Config:  container.GetConfig(),
		Logger:  container.GetLogger(),
		Redis:   container.GetRedis(),
		JWT:     container.GetJWT(),
		Repos:   container.GetRepositories(),
		Files:   container.GetFileStore(),
		Indexer: container.GetIndexer(),
	}
	// keep the interface nil when no publisher was configured
	if p := container.GetRabbitPub(); p != nil {
		d.Publisher = p
	}
	return d
}

// Services are the application services built by InitModules.
type Services struct {
	Users         *application.UserService
	Vaults        *application.VaultService
	Documents     *application.DocumentService
	Notifications *application.NotificationService
}

func buildServices(d Deps) Services {
	cfg := d.Config
	notifications := application.NewNotificationService(d.Repos.Notifications, d.Repos.Users, d.Publisher, d.Logger,
		cfg.NotificationEmailEnabled, cfg.AppName)
	return Services{
		Users:         application.NewUserService(d.Repos.Users, d.JWT, d.Redis, d.Logger),
		Vaults:        application.NewVaultService(d.Repos.Vaults, notifications, d.Logger),
		Documents:     application.NewDocumentService(d.Repos.Documents, d.Repos.Vaults, d.Files, d.Indexer, d.Logger),
		Notifications: notifications,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, d Deps) Services {
	cfg := d.Config
	svc := buildServices(d)

	r.SetProtect(middleware.Auth(d.Redis, d.JWT, d.Repos.Users))

	authWindow := cfg.AuthRateWindow
	if authWindow <= 0 {
		authWindow = time.Minute
	}
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, d.Logger, cfg.CookieDomain, cfg.CookieSecure),
		d.Redis, cfg.AuthRateLimit, authWindow))
	r.Add(modules.NewVaultModule(handlers.NewVaultHandler(svc.Vaults, d.Logger)))
	r.Add(modules.NewDocumentModule(handlers.NewDocumentHandler(svc.Documents, d.Logger, cfg.UploadMaxBytes), d.Redis))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(svc.Notifications, d.Logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(d.Redis))
	}
	return svc
}
