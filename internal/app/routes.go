package app

import (
	"context"
	"net/http"
	"time"

	"github.com/dunamismax/hypermedia/internal/config"
	"github.com/dunamismax/hypermedia/internal/handlers"
	"github.com/dunamismax/hypermedia/internal/metrics"
	"github.com/dunamismax/hypermedia/internal/middleware"
	"github.com/dunamismax/hypermedia/internal/service"
	"github.com/dunamismax/hypermedia/internal/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingFunc reports whether the app's backing stores are reachable.
type pingFunc func(ctx context.Context) error

func todoRouter(cfg config.Config, svc *service.TodoService, ping pingFunc, log *zap.Logger) (*gin.Engine, error) {
	tmpl, err := view.ParseTodo()
	if err != nil {
		return nil, err
	}
	r := newRouter(cfg, string(KindTodo), ping, log)
	r.SetHTMLTemplate(tmpl)

	h := handlers.NewTodoHandler(svc, KindTodo.title(), log)
	registerTodoRoutes(r, h)
	return r, nil
}

func galleryRouter(cfg config.Config, svc *service.GalleryService, uploadDir string, ping pingFunc, log *zap.Logger) (*gin.Engine, error) {
	tmpl, err := view.ParseGallery()
	if err != nil {
		return nil, err
	}
	r := newRouter(cfg, string(KindGallery), ping, log)
	r.SetHTMLTemplate(tmpl)

	uploads := r.Group("/uploads", noSniff)
	uploads.Static("/", uploadDir)

	h := handlers.NewGalleryHandler(svc, KindGallery.title(), cfg.Upload.MaxBytes, log)
	registerGalleryRoutes(r, h)
	return r, nil
}

// newRouter builds an engine with the shared middleware and the
// health, version, metrics and static routes.
func newRouter(cfg config.Config, name string, ping pingFunc, log *zap.Logger) *gin.Engine {
	m := metrics.NewHTTPMetrics(name)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		m.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:  cfg.HTTP.AllowOrigins,
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
			ExposeHeaders: []string{"Content-Length", "Content-Type", handlers.HeaderTrigger, handlers.HeaderRetarget, handlers.HeaderReswap},
			MaxAge:        12 * time.Hour,
		}),
	)

	r.GET("/health", healthHandler(cfg, ping))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", m.Handler())
	r.StaticFS("/static", view.StaticFS())
	return r
}

func healthHandler(cfg config.Config, ping pingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": cfg.App.Env, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func noSniff(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Next()
}

func registerTodoRoutes(r *gin.Engine, h *handlers.TodoHandler) {
	r.GET("/", h.Index)
	r.GET("/todos/remaining", h.Remaining)
	r.POST("/todos", h.Create)
	r.PATCH("/todos/:id", h.Toggle)
	r.DELETE("/todos/:id", h.Delete)
}

func registerGalleryRoutes(r *gin.Engine, h *handlers.GalleryHandler) {
	r.GET("/", h.Index)
	r.POST("/upload", h.Upload)
}
