package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/internal/agents"
	"github.com/yourusername/agent-orchestrator/models"
)

// Server exposes the orchestration and agent-processing tiers over HTTP
type Server struct {
	app    *Application
	engine *gin.Engine
	http   *http.Server
}

// NewServer builds the HTTP server and attaches all routes
func NewServer(application *Application) *Server {
	switch application.config.App.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	server := &Server{
		app:    application,
		engine: engine,
	}
	server.attachRoutes()
	return server
}

func (s *Server) attachRoutes() {
	s.engine.GET("/health", s.handleHealth)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/orchestrate", s.handleOrchestrate)

		agentGroup := v1.Group("/agents")
		{
			agentGroup.POST("/process", s.handleAgentProcess)
			agentGroup.GET("/health", s.handleAgentHealth)
			agentGroup.GET("/capabilities", s.handleAgentCapabilities)
		}
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.app.config.Server.Host, s.app.config.Server.Port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.app.logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// handleOrchestrate is the orchestration entry point. Invalid requests
// get a structured validation-error list; everything else returns the
// response envelope, including per-agent failures.
func (s *Server) handleOrchestrate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  string(models.ErrCodeValidation),
			"issues": []models.ValidationIssue{{Field: "body", Message: "unable to read request body"}},
		})
		return
	}

	if issues := ValidateRequestBody(body); len(issues) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  string(models.ErrCodeValidation),
			"issues": issues,
		})
		return
	}

	var request models.OrchestrationRequest
	if err := json.Unmarshal(body, &request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  string(models.ErrCodeValidation),
			"issues": []models.ValidationIssue{{Field: "body", Message: "request body is not valid JSON"}},
		})
		return
	}

	response, err := s.app.Orchestrate(c.Request.Context(), &request)
	if err != nil {
		var agentErr *models.AgentError
		if errors.As(err, &agentErr) && agentErr.Code == models.ErrCodeValidation {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  string(models.ErrCodeValidation),
				"issues": []models.ValidationIssue{{Field: "query", Message: agentErr.Message}},
			})
			return
		}
		s.app.logger.Error("orchestration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   string(models.ErrCodeUnhandled),
			"message": "internal error before dispatch",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// handleAgentProcess is the agent-tier invocation endpoint
func (s *Server) handleAgentProcess(c *gin.Context) {
	var request models.AgentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   string(models.ErrCodeValidation),
			"message": "invalid agent request body",
		})
		return
	}

	if !agents.IsSupported(request.AgentType) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   string(models.ErrCodeAgentUnsupported),
			"message": fmt.Sprintf("agent type %s is not supported", request.AgentType),
		})
		return
	}

	result := s.app.ProcessAgentRequest(c.Request.Context(), &request)
	c.JSON(http.StatusOK, result)
}

// handleAgentHealth reports on the agent tier and its providers
func (s *Server) handleAgentHealth(c *gin.Context) {
	providers := s.app.ProviderHealth(c.Request.Context())

	status := "healthy"
	if len(providers) == 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"primary":   s.app.llmManager.GetPrimaryProvider(),
		"providers": providers,
		"timestamp": time.Now().UTC(),
	})
}

// handleAgentCapabilities lists the supported agent types
func (s *Server) handleAgentCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"agents": agents.All(),
	})
}

// handleHealth is the process liveness probe
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.app.config.App.Name,
		"version": s.app.config.App.Version,
	})
}
