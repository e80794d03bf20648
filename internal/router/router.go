package router

import (
	"fmt"
	"net/http"
	"time"

	"NPTEL-Assignment-Analyzer/internal/api"
	"NPTEL-Assignment-Analyzer/internal/monitoring"
	"NPTEL-Assignment-Analyzer/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	API   *api.AnalyzerHandler
	Pages *api.PageHandler
}

func SetupRouter(h Handlers, metrics *monitoring.Metrics, allowedOrigins []string, log *zap.Logger) (*gin.Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "Content-Type")
	r.Use(cors.New(config))

	if metrics != nil {
		r.Use(metrics.MetricsMiddleware())
		r.GET("/metrics", metrics.PrometheusHandler())
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.Pages.IndexHandler)
	r.POST("/login", h.Pages.LoginHandler)
	r.POST("/logout", h.Pages.LogoutHandler)
	r.POST("/selector", h.Pages.SelectorHandler)
	r.POST("/questions/:num/toggle", h.Pages.ToggleHandler)
	r.POST("/analyze/selected", h.Pages.AnalyzeSelectedHandler)
	r.POST("/analyze/all", h.Pages.AnalyzeAllHandler)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
		apiV1.GET("/state", h.API.StateHandler)
		apiV1.POST("/auth", h.API.AuthenticateHandler)
		apiV1.POST("/logout", h.API.LogoutHandler)
		apiV1.PUT("/selector", h.API.SelectorHandler)
		apiV1.POST("/questions/:num/toggle", h.API.ToggleHandler)
		apiV1.POST("/analyze/selected", h.API.AnalyzeSelectedHandler)
		apiV1.POST("/analyze/all", h.API.AnalyzeAllHandler)
		apiV1.GET("/image-url", h.API.ImageURLHandler)
	}

	return r, nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
