package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "callportal-backend/internal/auth"
	"callportal-backend/internal/candidates"
	"callportal-backend/internal/companies"
	"callportal-backend/internal/convert"
	"callportal-backend/internal/importer"
	"callportal-backend/internal/patterns"
	"callportal-backend/internal/shared/config"
	"callportal-backend/internal/shared/metrics"
	"callportal-backend/internal/shared/server/middleware"
	"callportal-backend/internal/shared/server/respond"
	"callportal-backend/internal/staff"
)

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config            config.Config
	CandidatesHandler *candidates.Handler
	CompaniesHandler  *companies.Handler
	PatternsHandler   *patterns.Handler
	ImportHandler     *importer.Handler
	ConvertHandler    *convert.Handler
	StaffHandler      *staff.Handler
	GoogleAuth        *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.StaffHandler != nil {
		deps.StaffHandler.RegisterRoutes(api)
	}
	if deps.CompaniesHandler != nil {
		deps.CompaniesHandler.RegisterRoutes(api)
	}
	if deps.PatternsHandler != nil {
		deps.PatternsHandler.RegisterRoutes(api)
	}
	if deps.CandidatesHandler != nil {
		deps.CandidatesHandler.RegisterRoutes(api)
	}
	if deps.ImportHandler != nil {
		deps.ImportHandler.RegisterRoutes(api)
	}
	if deps.ConvertHandler != nil {
		deps.ConvertHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig throttles the chatty routes per operator: lock
// keepalives poll from every open edit screen, and imports are heavy.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"POLLING": {Rate: 2, Burst: 10},
			"IMPORT":  {Rate: 0.5, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case strings.HasSuffix(path, "/lock"):
				return "POLLING"
			case strings.HasSuffix(path, "/import"):
				return "IMPORT"
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
