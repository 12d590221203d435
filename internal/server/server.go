// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naka-gawa/contrib-stats/internal/render"
	"github.com/naka-gawa/contrib-stats/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server serves the dashboard page, its project info fragment and operational endpoints.
type Server struct {
	dashboard *usecase.Dashboard
	logger    logrus.FieldLogger
	engine    *gin.Engine
}

// New wires the routes. gatherer backs the /metrics endpoint; timeout bounds
// the upstream work of a single request.
func New(dashboard *usecase.Dashboard, gatherer prometheus.Gatherer, timeout time.Duration, logger logrus.FieldLogger) *Server {
	s := &Server{
		dashboard: dashboard,
		logger:    logger,
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), securityHeaders(), requestTimeout(timeout))
	s.engine.SetHTMLTemplate(render.Templates())

	s.engine.GET("/", s.index)
	s.engine.GET("/project-info", s.projectInfo)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// index reloads the repository list like a fresh page load, then applies ?project=.
// Each request renders the outcome of its own load.
func (s *Server) index(c *gin.Context) {
	ctx := c.Request.Context()
	repos := s.dashboard.LoadRepositories(ctx)
	view := s.dashboard.Resolve(ctx, c.Query("project"))
	c.HTML(http.StatusOK, "page", render.PageData{Repos: repos, View: view})
}

// projectInfo renders only the project info container against the cached list.
func (s *Server) projectInfo(c *gin.Context) {
	view := s.dashboard.Resolve(c.Request.Context(), c.Query("project"))
	c.HTML(http.StatusOK, "projectInfo", render.PageData{Repos: s.dashboard.Repositories(), View: view})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("Handled request")
	}
}

func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}
