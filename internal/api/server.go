package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradedash/dashboard"
	"github.com/rustyeddy/tradedash/journal"
	"github.com/rustyeddy/tradedash/market"
	"github.com/rustyeddy/tradedash/risk"
	"github.com/rustyeddy/tradedash/worldclock"
)

// History lists journaled balance updates. Implemented by journal.SQLite.
type History interface {
	ListBetween(inst market.Instrument, start, end time.Time) ([]journal.BalanceRecord, error)
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	ProductionMode bool
	Risk           risk.Policy    // zero value means risk.DefaultPolicy
	Location       *time.Location // calendar days for history queries; nil means time.Local
}

// Server is the JSON API over the dashboard controllers.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     ServerConfig
	dash       *dashboard.Registry
	history    History // nil when no journal is configured
	clock      *worldclock.Clock
	log        zerolog.Logger
}

func NewServer(cfg ServerConfig, dash *dashboard.Registry, history History, log zerolog.Logger) *Server {
	if cfg.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Risk == (risk.Policy{}) {
		cfg.Risk = risk.DefaultPolicy()
	}

	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
		router.Use(cors.New(corsConfig))
	}

	wc, err := worldclock.New(worldclock.Sessions, false)
	if err != nil {
		log.Warn().Err(err).Msg("world clock disabled")
	}

	s := &Server{
		router:  router,
		config:  cfg,
		dash:    dash,
		history: history,
		clock:   wc,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.GET("/instruments", s.handleInstruments)
		v1.GET("/clock", s.handleClock)
		v1.POST("/compounding", s.handleCompounding)
		v1.POST("/withdrawal", s.handleWithdrawal)

		inst := v1.Group("/:instrument")
		inst.GET("/dashboard", s.handleDashboard)
		inst.PUT("/balance", s.handleUpdateBalance)
		inst.POST("/levels", s.handleLevels)
		inst.GET("/history", s.handleHistory)
	}
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.config.Addr).Msg("api listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("api shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) location() *time.Location {
	if s.config.Location == nil {
		return time.Local
	}
	return s.config.Location
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}
