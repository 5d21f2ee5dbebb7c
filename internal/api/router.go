package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ballotworks/election-api/docs"
	"github.com/ballotworks/election-api/internal/api/handler"
	"github.com/ballotworks/election-api/internal/api/middleware"
	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Log          zerolog.Logger
	Auth         ports.AuthService
	Users        ports.UserService
	Geography    ports.GeographyService
	Elections    ports.ElectionService
	Votes        ports.VoteService
	Results      ports.ResultService
	Audit        ports.AuditService
	HealthChecks map[string]handler.HealthCheck
	// Swagger mounts the OpenAPI UI under /swagger/*.
	Swagger bool
	// Registry receives the HTTP metrics. Defaults to the global registry,
	// which also holds the domain metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "election_http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	geoHandler := handler.NewGeographyHandler(deps.Geography)
	electionHandler := handler.NewElectionHandler(deps.Elections)
	voteHandler := handler.NewVoteHandler(deps.Votes)
	resultHandler := handler.NewResultHandler(deps.Results)
	auditHandler := handler.NewAuditHandler(deps.Audit)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	authn := middleware.Auth(deps.Auth)
	superadmin := middleware.RBAC(domain.RoleSuperAdmin)
	staff := middleware.RBAC(domain.RoleSuperAdmin, domain.RoleAdmin)
	voter := middleware.RBAC(domain.RoleVoter)

	// --- Public ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Authenticated ---
	g := e.Group("", authn)
	g.GET("/auth/me", authHandler.Me)

	g.GET("/users", userHandler.List, staff)
	g.POST("/users", userHandler.Create, staff)
	g.PATCH("/users/:id/status", userHandler.SetStatus, staff)

	g.GET("/constituencies", geoHandler.ListConstituencies)
	g.POST("/constituencies", geoHandler.CreateConstituency, superadmin)
	g.GET("/booths", geoHandler.ListBooths)
	g.POST("/booths", geoHandler.CreateBooth, staff)

	g.GET("/elections", electionHandler.List)
	g.GET("/elections/:id", electionHandler.Get)
	g.POST("/elections", electionHandler.Create, superadmin)
	g.PATCH("/elections/:id/status", electionHandler.SetStatus, superadmin)
	g.GET("/elections/:id/candidates", electionHandler.ListCandidates)
	g.POST("/candidates", electionHandler.CreateCandidate, staff)
	g.PATCH("/candidates/:id/status", electionHandler.SetCandidateStatus, superadmin)

	g.POST("/votes/cast", voteHandler.Cast, voter)
	g.GET("/votes/status/:electionId", voteHandler.Status, voter)

	g.POST("/results/generate", resultHandler.Generate, staff)
	g.PATCH("/results/:id/publish", resultHandler.Publish, superadmin)
	g.GET("/results", resultHandler.List)
	g.GET("/results/:id", resultHandler.Get)

	g.GET("/audit", auditHandler.List, superadmin)

	return e
}
