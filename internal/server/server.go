// Package server wires the node together and exposes its HTTP surface:
// utterance submission, health, metrics, and the websocket event stream.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voicekit/voicenode/internal/api/middleware"
	"github.com/voicekit/voicenode/internal/commandcenter"
	"github.com/voicekit/voicenode/internal/config"
	"github.com/voicekit/voicenode/internal/conversation"
	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/monitoring"
	"github.com/voicekit/voicenode/internal/providers/calculator"
	"github.com/voicekit/voicenode/internal/providers/clock"
	"github.com/voicekit/voicenode/internal/providers/convert"
	timerTools "github.com/voicekit/voicenode/internal/providers/timers"
	"github.com/voicekit/voicenode/internal/timers"
	"github.com/voicekit/voicenode/internal/tools"
	"github.com/voicekit/voicenode/internal/ws"
)

// validationTimeout is how long an interactive client gets to answer a
// clarification question before the default policy applies.
const validationTimeout = 30 * time.Second

// Server hosts the node's HTTP API and owns its long-lived services.
type Server struct {
	router       *gin.Engine
	httpServer   *http.Server
	orchestrator *conversation.Orchestrator
	registry     *tools.Registry
	timerService *timers.Service
	hub          *ws.Hub
	logger       *logging.Logger
	config       *config.Config
	metrics      *monitoring.Metrics
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing voice node",
		zap.String("node_id", cfg.Node.ID),
		zap.String("room", cfg.Node.Room),
		zap.String("command_center", cfg.CommandCenter.URL),
	)

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	hub := ws.NewHub(logger, metrics)

	var timerService *timers.Service
	timerService = timers.NewService(logger, func(info timers.Info) {
		hub.Broadcast("timer_completed", map[string]any{
			"timer_id": info.ID,
			"label":    info.Label,
		})
		metrics.TimersActive.Set(float64(timerService.Count()))
	})

	registry := tools.NewRegistry()
	registerTools(registry, timerService, cfg, logger)

	peer := commandcenter.New(
		commandcenter.Config{
			BaseURL:        cfg.CommandCenter.URL,
			APIKey:         cfg.CommandCenter.APIKey,
			CommandTimeout: cfg.CommandCenter.CommandTimeout,
			StartTimeout:   cfg.CommandCenter.StartTimeout,
		},
		commandcenter.NodeContext{
			NodeID:   cfg.Node.ID,
			Room:     cfg.Node.Room,
			Timezone: cfg.Node.Timezone,
		},
		logger,
	).WithMetrics(metrics)

	dispatcher := conversation.NewDispatcher(registry, logger, cfg.Conversation.ToolTimeout).
		WithMetrics(metrics)
	broker := conversation.NewBroker(logger)
	orchestrator := conversation.NewOrchestrator(peer, registry, dispatcher, broker, logger).
		WithMaxIterations(cfg.Conversation.MaxIterations).
		WithNodeInfo(cfg.Node.ID, cfg.Node.Room).
		WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		router:       router,
		orchestrator: orchestrator,
		registry:     registry,
		timerService: timerService,
		hub:          hub,
		logger:       logger,
		config:       cfg,
		metrics:      metrics,
	}

	router.GET("/health", s.handleHealth)
	router.GET("/tools", s.handleListTools)
	router.POST("/api/v1/command", s.handleCommand)
	router.GET("/ws", hub.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("voice node initialized", zap.Strings("tools", registry.Names()))
	return s, nil
}

func registerTools(registry *tools.Registry, timerService *timers.Service, cfg *config.Config, logger *logging.Logger) {
	all := []tools.Tool{
		calculator.New(),
		calculator.NewStatistics(),
		convert.New(),
		clock.New(cfg.Node.Timezone),
		timerTools.NewSet(timerService),
		timerTools.NewCancel(timerService),
		timerTools.NewCheck(timerService),
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			logger.Error("failed to register tool", zap.Error(err))
		}
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("starting HTTP server", zap.String("addr", addr))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	s.logger.Info("shutting down voice node")
	s.timerService.Stop()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}
