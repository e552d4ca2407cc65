package app

import (
	"context"
	"time"

	"team-forge/internal/config"
	"team-forge/internal/database"
	dbpostgres "team-forge/internal/database/postgres"
	"team-forge/internal/database/schema"
	"team-forge/internal/delivery/http/handler"
	"team-forge/internal/delivery/http/routes"
	"team-forge/internal/infrastructure/cache"
	"team-forge/internal/repository"
	"team-forge/internal/usecase"
	"team-forge/internal/ws"

	"go.uber.org/zap"
)

// Container holds every long-lived dependency, wired bottom-up from config.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Registry *routes.Registry
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := schema.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redis := cache.NewRedis(cfg.Redis, logger)

	hub := ws.NewHub(logger)
	notifier := ws.NewNotifier(hub)

	skillRepo := repository.NewPostgresSkillRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)
	projectRepo := repository.NewPostgresProjectRepository(db)
	requirementRepo := repository.NewPostgresRequirementRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)

	io := cfg.App.IOTimeout
	skillUC := usecase.NewSkillUsecase(skillRepo, redis, cfg.Redis.TTL, io)
	userUC := usecase.NewUserUsecase(userRepo, skillUC, io)
	projectUC := usecase.NewProjectUsecase(projectRepo, io)
	requirementUC := usecase.NewRequirementUsecase(requirementRepo, projectRepo, io)
	teamUC := usecase.NewTeamUsecase(teamRepo, io)
	matchingUC := usecase.NewMatchingUsecase(projectRepo, requirementRepo, userRepo, teamRepo, notifier, io)

	registry := routes.NewRegistry(routes.Handlers{
		Health:       handler.NewHealthHandler(db, redis),
		Skills:       handler.NewSkillHandler(skillUC),
		Users:        handler.NewUserHandler(userUC),
		Projects:     handler.NewProjectHandler(projectUC),
		Requirements: handler.NewRequirementHandler(requirementUC, userUC),
		Match:        handler.NewMatchHandler(matchingUC),
		Teams:        handler.NewTeamHandler(teamUC),
		WS:           ws.NewHandler(hub, logger),
	})

	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Cache:    redis,
		Hub:      hub,
		Registry: registry,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
