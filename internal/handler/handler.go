package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"nursery-service/internal/format"
	"nursery-service/internal/records"
	"nursery-service/internal/repository"
	"nursery-service/pkg/jwtutil"
	"nursery-service/prometheus"
)

// Handler serves the HTTP API.
type Handler struct {
	records   *records.Service
	users     repository.UserRepository
	jwt       *jwtutil.JWTUtil
	metrics   *prometheus.Metrics
	formatter format.Formatter
	// secureCookie marks the session cookie Secure; off for plain HTTP in development.
	secureCookie bool
	serviceName  string
}

// Options configures New.
type Options struct {
	Records      *records.Service
	Users        repository.UserRepository
	JWT          *jwtutil.JWTUtil
	Metrics      *prometheus.Metrics
	Formatter    format.Formatter
	SecureCookie bool
	ServiceName  string
}

// New creates a Handler.
func New(opts Options) *Handler {
	return &Handler{
		records:      opts.Records,
		users:        opts.Users,
		jwt:          opts.JWT,
		metrics:      opts.Metrics,
		formatter:    opts.Formatter,
		secureCookie: opts.SecureCookie,
		serviceName:  opts.ServiceName,
	}
}

// Register mounts every route on e. auth protects /api; login throttles
// POST /auth/login.
func (h *Handler) Register(e *echo.Echo, auth, login echo.MiddlewareFunc) {
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	authGroup := e.Group("/auth")
	authGroup.POST("/login", h.Login, login)
	authGroup.POST("/logout", h.Logout)

	api := e.Group("/api", auth)
	api.GET("/me", h.Me)

	tables := api.Group("/tables")
	tables.GET("", h.ListTables)
	tables.GET("/:slug", h.GetTable)
	tables.GET("/:slug/form", h.NewForm)
	tables.GET("/:slug/schema", h.FormSchema)
	tables.POST("/:slug/validate", h.ValidateForm)
	tables.GET("/:slug/options/:column", h.Options)
	tables.GET("/:slug/records", h.ListRecords)
	tables.POST("/:slug/records", h.CreateRecord)
	tables.GET("/:slug/records/:id", h.GetRecord)
	tables.GET("/:slug/records/:id/form", h.EditForm)
	tables.PUT("/:slug/records/:id", h.UpdateRecord)
	tables.DELETE("/:slug/records/:id", h.DeleteRecord)
}

// HealthCheck handles the health check endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.serviceName,
	})
}
