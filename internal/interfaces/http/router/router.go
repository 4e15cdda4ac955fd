package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/infrastructure/config"
	"github.com/skute123/genai-defect-management/internal/infrastructure/logger"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/middleware"
)

// RouteRegistrar is implemented by handlers that mount their own routes
type RouteRegistrar interface {
	RegisterRoutes(g *DomainGroup)
}

// DomainGroup wraps a gin router group with the verbs handlers use
type DomainGroup struct {
	group *gin.RouterGroup
}

// NewDomainGroup wraps an existing gin group, used by tests and by
// the registration helpers below
func NewDomainGroup(group *gin.RouterGroup) *DomainGroup {
	return &DomainGroup{group: group}
}

// GET registers a GET route
func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) {
	g.group.GET(path, handlers...)
}

// POST registers a POST route
func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) {
	g.group.POST(path, handlers...)
}

// PUT registers a PUT route
func (g *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) {
	g.group.PUT(path, handlers...)
}

// PATCH registers a PATCH route
func (g *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) {
	g.group.PATCH(path, handlers...)
}

// DELETE registers a DELETE route
func (g *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) {
	g.group.DELETE(path, handlers...)
}

// Router assembles the HTTP surface
type Router struct {
	engine     *gin.Engine
	apiVersion string
}

// Option configures the router
type Option func(*Router)

// WithAPIVersion overrides the API version prefix (default v1)
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// New builds the gin engine with the standard middleware chain
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register mounts public handlers under /api/<version>
func (r *Router) Register(registrars ...RouteRegistrar) {
	group := r.engine.Group("/api/" + r.apiVersion)
	dg := &DomainGroup{group: group}
	for _, reg := range registrars {
		reg.RegisterRoutes(dg)
	}
}

// RegisterProtected mounts handlers behind extra middleware, used for
// the JWT-guarded admin surface
func (r *Router) RegisterProtected(mw gin.HandlerFunc, registrars ...RouteRegistrar) {
	group := r.engine.Group("/api/"+r.apiVersion, mw)
	dg := &DomainGroup{group: group}
	for _, reg := range registrars {
		reg.RegisterRoutes(dg)
	}
}

// Engine exposes the underlying gin engine for the HTTP server
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
