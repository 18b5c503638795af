package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"diagrammer/internal/application"
)

// Options configures the router
type Options struct {
	// CORSOrigins lists the allowed browser origins; empty allows any origin
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter registers the diagram routes on a new gin engine
func NewRouter(session *application.Session, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions}
	router.Use(cors.New(corsConfig))

	h := NewDiagramHandler(session, opts.Logger)

	router.GET("/healthz", Health)

	api := router.Group("/api")
	{
		api.GET("/:kind", h.GetSnapshot)
		api.PUT("/:kind", h.PutSnapshot)
		api.DELETE("/:kind", h.ClearDiagram)
		api.GET("/:kind/sql", h.GetSQL)
		api.GET("/:kind/integrity", h.GetIntegrity)
	}

	return router
}

// NewServer wraps the handler in an http.Server with the usual timeouts
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
