package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/config"
	"github.com/yourusername/agent-orchestrator/internal/agents"
	"github.com/yourusername/agent-orchestrator/internal/dispatch"
	"github.com/yourusername/agent-orchestrator/internal/llm"
	"github.com/yourusername/agent-orchestrator/internal/logger"
	"github.com/yourusername/agent-orchestrator/internal/nlp"
	"github.com/yourusername/agent-orchestrator/internal/router"
	"github.com/yourusername/agent-orchestrator/models"
	"github.com/yourusername/agent-orchestrator/storage"
)

// Application represents the orchestration service: the NLP pipeline,
// the task router, the agent dispatcher and the agent-processing tier
// wired together.
type Application struct {
	config       *config.Config
	logger       *zap.Logger
	storage      *storage.SQLiteDB
	llmManager   *llm.Manager
	analyzer     *nlp.Analyzer
	taskRouter   *router.TaskRouter
	communicator *dispatch.Communicator
	processor    *agents.Processor
}

// New creates a new application instance
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires the application from an already loaded config
func NewWithConfig(cfg *config.Config) (*Application, error) {
	app := &Application{config: cfg}

	if err := app.initializeLogger(); err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}

	if err := app.initializeStorage(); err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	if err := app.initializeLLM(); err != nil {
		app.logger.Warn("LLM initialization failed, NLP runs rule-based only", zap.Error(err))
		// Continue without providers - keyword classification still works,
		// agent processing will surface a configuration error.
	}

	app.initializePipeline()

	return app, nil
}

// initializeLogger sets up structured logging
func (app *Application) initializeLogger() error {
	log, err := logger.New(app.config.Logging.Level, app.config.Logging.Format)
	if err != nil {
		return err
	}
	app.logger = log
	return nil
}

// initializeStorage opens the session store
func (app *Application) initializeStorage() error {
	db, err := storage.NewSQLiteDB(app.config.Database.Path, app.config.GetTimeout())
	if err != nil {
		return err
	}
	app.storage = db
	return nil
}

// initializeLLM builds the provider manager
func (app *Application) initializeLLM() error {
	manager, err := llm.NewManager(app.config.AI)
	if err != nil {
		return err
	}
	app.llmManager = manager
	return nil
}

// initializePipeline wires the NLP, routing and dispatch stages
func (app *Application) initializePipeline() {
	app.analyzer = nlp.NewAnalyzer(app.llmManager, app.logger)
	app.taskRouter = router.NewTaskRouter(app.logger)
	app.communicator = dispatch.NewCommunicator(
		app.config.Agents.BaseURL,
		app.config.GetDispatchTimeout(),
		app.logger)

	if app.llmManager == nil {
		app.llmManager = llm.NewManagerWithProviders(app.config.AI.Primary, app.config.AI.Fallbacks, nil)
	}
	selector := agents.NewServiceSelector(app.llmManager, app.config.AI, app.logger)
	app.processor = agents.NewProcessor(selector, app.llmManager, app.logger)
}

// Orchestrate runs the full pipeline for one validated request:
// analysis, routing, dispatch, persistence and response assembly.
func (app *Application) Orchestrate(ctx context.Context, request *models.OrchestrationRequest) (*models.OrchestrationResponse, error) {
	if len(request.Query) == 0 || len(request.Query) > models.MaxQueryLength {
		return nil, &models.AgentError{
			Code:    models.ErrCodeValidation,
			Message: fmt.Sprintf("query length must be between 1 and %d characters", models.MaxQueryLength),
		}
	}

	requestID := uuid.New().String()
	started := time.Now()

	app.logger.Info("orchestrating request",
		zap.String("request_id", requestID),
		zap.Int("query_length", len(request.Query)))

	analysis := app.analyzer.Analyze(ctx, request.Query)
	decision := app.taskRouter.Route(analysis, request.Preferences)
	results := app.communicator.Dispatch(ctx, decision, request, requestID)

	processingTime := time.Since(started).Milliseconds()
	response := &models.OrchestrationResponse{
		RequestID: requestID,
		Status:    models.StatusFor(results),
		Results:   results,
		Metadata: models.ResponseMetadata{
			NLPAnalysis:    analysis,
			Routing:        decision.Summary(),
			ProcessingTime: processingTime,
			Timestamp:      time.Now().UTC(),
		},
	}

	app.persist(request, response)

	app.logger.Info("request complete",
		zap.String("request_id", requestID),
		zap.String("status", string(response.Status)),
		zap.Int("results", len(results)),
		zap.Int64("processing_time_ms", processingTime))

	return response, nil
}

// ProcessAgentRequest handles one agent-tier invocation
func (app *Application) ProcessAgentRequest(ctx context.Context, request *models.AgentRequest) *models.AgentResult {
	return app.processor.Process(ctx, request)
}

// persist writes the conversation and metrics. Storage failures are
// logged and never fail the orchestration request.
func (app *Application) persist(request *models.OrchestrationRequest, response *models.OrchestrationResponse) {
	if app.storage == nil || request.Context == nil || request.Context.SessionID == "" {
		return
	}

	sessionID := request.Context.SessionID
	userID := request.Context.UserID

	if err := app.storage.EnsureSession(sessionID, userID, request.Context.Source); err != nil {
		app.logger.Warn("failed to ensure session", zap.Error(err))
		return
	}
	if err := app.storage.StoreUserMessage(sessionID, userID, request.Query); err != nil {
		app.logger.Warn("failed to store user message", zap.Error(err))
	}
	if err := app.storage.StoreAssistantMessage(sessionID, userID,
		string(response.Status), response.Metadata); err != nil {
		app.logger.Warn("failed to store assistant message", zap.Error(err))
	}
	if err := app.storage.StorePerformanceMetric(response.RequestID,
		"processing_time_ms", float64(response.Metadata.ProcessingTime)); err != nil {
		app.logger.Warn("failed to store metric", zap.Error(err))
	}
}

// ProviderHealth reports per-provider availability for health probes
func (app *Application) ProviderHealth(ctx context.Context) map[string]bool {
	health := make(map[string]bool)
	if app.llmManager == nil {
		return health
	}
	for name, info := range app.llmManager.GetAllProviders() {
		health[name] = info.Status.Available
	}
	return health
}

// Logger exposes the application logger
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Close gracefully shuts down the application
func (app *Application) Close() error {
	if app.storage != nil {
		if err := app.storage.Close(); err != nil {
			return err
		}
	}
	if app.logger != nil {
		app.logger.Sync()
	}
	return nil
}
