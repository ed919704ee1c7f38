package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/escala-acolitos/escala-api/internal/repository"
	"github.com/escala-acolitos/escala-api/internal/server"
	"github.com/escala-acolitos/escala-api/internal/service"
	"github.com/escala-acolitos/escala-api/pkg/config"
	"github.com/escala-acolitos/escala-api/pkg/database"
	"github.com/escala-acolitos/escala-api/pkg/logger"
	"github.com/escala-acolitos/escala-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	volunteerRepo := repository.NewVolunteerRepository(db)
	qualificationRepo := repository.NewQualificationRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	mail := mailer.FromConfig(cfg.SMTP)

	authService := service.NewAuthService(volunteerRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: "escala-api",
	})
	volunteerService := service.NewVolunteerService(volunteerRepo, validate, logr)
	qualificationService := service.NewQualificationService(qualificationRepo, volunteerRepo, validate, logr)
	catalogService := service.NewCatalogService(serviceRepo, volunteerRepo, validate, logr)
	assignmentService := service.NewAssignmentService(serviceRepo, volunteerRepo, logr)
	archivalService := service.NewArchivalService(serviceRepo, cfg.Archival.RetentionDays, logr)
	substitutionService := service.NewSubstitutionService(assignmentService, volunteerRepo, mail, logr)
	setupService := service.NewSetupService(volunteerService, qualificationService, service.SetupConfig{
		Secret:         cfg.Setup.Secret,
		AdminName:      cfg.Setup.AdminName,
		AdminEmail:     cfg.Setup.AdminEmail,
		AdminPassword:  cfg.Setup.AdminPassword,
		Qualifications: cfg.Setup.Qualifications,
	}, logr)
	metricsService := service.NewMetricsService()

	router := server.New(cfg, logr, server.Services{
		Auth:          authService,
		Volunteers:    volunteerService,
		Qualification: qualificationService,
		Catalog:       catalogService,
		Assignments:   assignmentService,
		Archival:      archivalService,
		Substitutions: substitutionService,
		Setup:         setupService,
		Metrics:       metricsService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := router.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
