package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/handler"
	"github.com/escala-acolitos/escala-api/internal/middleware"
	"github.com/escala-acolitos/escala-api/internal/service"
	"github.com/escala-acolitos/escala-api/pkg/config"
	"github.com/escala-acolitos/escala-api/pkg/logger"
	corsmiddleware "github.com/escala-acolitos/escala-api/pkg/middleware/cors"
	reqidmiddleware "github.com/escala-acolitos/escala-api/pkg/middleware/requestid"
)

// Services bundles the wired application services the router needs.
type Services struct {
	Auth          *service.AuthService
	Volunteers    *service.VolunteerService
	Qualification *service.QualificationService
	Catalog       *service.CatalogService
	Assignments   *service.AssignmentService
	Archival      *service.ArchivalService
	Substitutions *service.SubstitutionService
	Setup         *service.SetupService
	Metrics       *service.MetricsService
}

// New assembles the HTTP router: global middleware, public endpoints, the
// authenticated volunteer API, and the administrator surface.
func New(cfg *config.Config, log *zap.Logger, svcs Services) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svcs.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if svcs.Metrics != nil {
		r.GET("/metrics", gin.WrapH(svcs.Metrics.Handler()))
	}

	authHandler := handler.NewAuthHandler(svcs.Auth)
	setupHandler := handler.NewSetupHandler(svcs.Setup)
	scheduleHandler := handler.NewScheduleHandler(svcs.Catalog, svcs.Substitutions)
	catalogHandler := handler.NewCatalogHandler(svcs.Catalog)
	assignmentHandler := handler.NewAssignmentHandler(svcs.Assignments)
	volunteerHandler := handler.NewVolunteerHandler(svcs.Volunteers, svcs.Qualification)
	qualificationHandler := handler.NewQualificationHandler(svcs.Qualification)
	archiveHandler := handler.NewArchiveHandler(svcs.Archival, svcs.Metrics)

	r.POST("/auth/login", authHandler.Login)
	r.POST("/setup", setupHandler.Run)

	sweep := middleware.OpportunisticSweep(svcs.Archival, svcs.Metrics, cfg.Archival.SweepInterval, log)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(svcs.Auth))
	{
		api.GET("/services", sweep, scheduleHandler.List)
		api.POST("/slots/:id/release", scheduleHandler.Release)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.JWT(svcs.Auth), middleware.RequireAdmin())
	{
		admin.GET("/services", sweep, catalogHandler.List)
		admin.POST("/services", catalogHandler.Create)
		admin.PUT("/services/:id", catalogHandler.Edit)
		admin.DELETE("/services/:id", catalogHandler.Delete)

		admin.POST("/slots/:id/assign", assignmentHandler.Assign)
		admin.POST("/slots/:id/unassign", assignmentHandler.Unassign)

		admin.GET("/volunteers", volunteerHandler.List)
		admin.POST("/volunteers", volunteerHandler.Register)
		admin.GET("/volunteers/:id", volunteerHandler.Get)
		admin.GET("/volunteers/:id/qualifications", volunteerHandler.Qualifications)
		admin.PUT("/volunteers/:id/qualifications", volunteerHandler.BindQualifications)

		admin.GET("/qualifications", qualificationHandler.List)

		admin.POST("/archive/sweep", archiveHandler.Sweep)
	}

	return r
}
