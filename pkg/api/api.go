package api

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supra126/worker-email-notifier/pkg/apiresponses"
	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/metrics"
	"github.com/supra126/worker-email-notifier/pkg/system"
)

// APIController is implemented by every component that exposes HTTP routes.
type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

type Server struct {
	gin          *gin.Engine
	config       config.Config
	log          *zap.Logger
	originPolicy gin.HandlerFunc

	httpServer *http.Server
}

func NewServer(log *zap.Logger, cfg config.Config, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.CustomRecoveryWithZap(log, true, func(c *gin.Context, _ any) {
			apiresponses.InternalServerError(c)
		}),
		system.RequestLogger(log.Sugar()),
	)

	// A configured origin policy guards only controller routes (see
	// RegisterAll), so probes and scrapers reach /healthz and /metrics
	// without an Origin header.
	strictOrigins := len(cfg.CORS.AllowedOrigins) > 0 || cfg.CORS.Origin != ""
	if !strictOrigins {
		engine.Use(permissiveCORS())
	}

	// Non-POST requests to a known route get the explicit 405, not a 404.
	// OPTIONS has no registered route, so preflight lands here too; the
	// origin check stays ahead of the method check.
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		origin := ResolveOrigin(c.GetHeader("Origin"), cfg.CORS)
		if c.Request.Method == http.MethodOptions {
			if origin == "" {
				c.String(http.StatusForbidden, "Forbidden")
				c.Abort()
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", allowedMethods)
			c.Header("Access-Control-Allow-Headers", allowedHeaders)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if strictOrigins && origin == "" {
			apiresponses.Error(c, http.StatusForbidden, "Origin not allowed")
			return
		}
		apiresponses.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	s := &Server{
		gin:    engine,
		config: cfg,
		log:    log,
	}
	if strictOrigins {
		s.originPolicy = OriginPolicy(cfg.CORS)
	}
	return s
}

func (s *Server) RegisterAll(controllers []APIController) error {
	var mw []gin.HandlerFunc
	if s.originPolicy != nil {
		mw = append(mw, s.originPolicy)
	}
	r := s.gin.Group("/", mw...)
	for _, c := range controllers {
		if err := c.Register(r.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

// Handler exposes the underlying engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Listen serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Listen(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Server.ListenAddress,
		Handler:           s.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.config.Server.TLSCertFile != "" && s.config.Server.TLSKeyFile != "" {
			err = s.httpServer.ListenAndServeTLS(s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("forcing server close after shutdown timeout", zap.Error(err))
		return s.httpServer.Close()
	}
	return nil
}
