package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/config"
	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	pginfra "github.com/oksasatya/docvault-api/internal/infrastructure/postgres"
	"github.com/oksasatya/docvault-api/pkg/helpers"
)

// seed creates the administrator account from ADMIN_* settings, or promotes
// the existing account with that email.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	svc := application.NewUserService(users, nil, nil, logger)

	u, err := svc.Register(ctx, application.RegisterInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Mobile:   cfg.AdminMobile,
		IsAdmin:  true,
	})
	if err != nil {
		if apperror.KindOf(err) != apperror.KindValidation {
			log.Fatalf("failed to seed admin: %v", err)
		}
		existing, gErr := users.GetByEmail(ctx, cfg.AdminEmail)
		if gErr != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		if u, err = svc.SetAdmin(ctx, existing.ID, true); err != nil {
			log.Fatalf("failed to promote admin: %v", err)
		}
		helpers.LogInfo(logger, "admin already existed; ensured admin flag", logrus.Fields{"id": u.ID, "email": u.Email})
		return
	}
	helpers.LogInfo(logger, "seeded admin", logrus.Fields{"id": u.ID, "email": u.Email})
}
