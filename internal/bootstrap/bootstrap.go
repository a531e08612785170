package bootstrap

import (
	"log/slog"

	httpadapter "github.com/secureai/docshield-console/internal/adapters/http"
	mcpadapter "github.com/secureai/docshield-console/internal/adapters/mcp"
	"github.com/secureai/docshield-console/internal/config"
	"github.com/secureai/docshield-console/internal/core/ports"
	"github.com/secureai/docshield-console/internal/core/session"
	"github.com/secureai/docshield-console/internal/core/state"
	"github.com/secureai/docshield-console/internal/infrastructure/backend"
	"github.com/secureai/docshield-console/internal/infrastructure/extract"
	"github.com/secureai/docshield-console/internal/infrastructure/markdown"
	"github.com/secureai/docshield-console/internal/infrastructure/resilience"
	"github.com/secureai/docshield-console/internal/observability/logging"
	"github.com/secureai/docshield-console/internal/observability/metrics"
	"github.com/secureai/docshield-console/internal/view"
)

// Version is stamped at build time.
var Version = "dev"

// App wires one console process: a single workspace, its sessions, the
// backend gateway chain, and the adapters in front of them.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Workspace   *state.Workspace
	Transformer ports.Transformer
	Asker       ports.Asker
	Metrics     *metrics.ConsoleMetrics

	view       *view.CategoryView
	statusLine *view.StatusLine
	gateway    ports.BackendGateway
	extractor  ports.TextExtractor
	renderer   ports.MarkdownRenderer
}

func New(cfg config.Config, service string) *App {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	consoleMetrics := metrics.NewConsoleMetrics(service)

	guard := resilience.NewGuard(resilience.Config{
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      cfg.BreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenMaxCalls),
	})

	var gateway ports.BackendGateway = backend.New(cfg.BackendURL, cfg.BackendTimeout, guard)
	gateway = backend.NewCachedGateway(gateway, cfg.ExampleCacheTTL)
	gateway = backend.NewInstrumentedGateway(gateway, consoleMetrics, service)

	workspace := state.NewWorkspace()
	statusLine := view.NewStatusLine()
	categoryView := view.NewCategoryView(workspace, cfg.HighlightDuration)

	transformer := session.NewTransformSession(gateway, workspace, statusLine)
	asker := session.NewAskSession(gateway, workspace, statusLine)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Workspace:   workspace,
		Transformer: transformer,
		Asker:       asker,
		Metrics:     consoleMetrics,
		view:        categoryView,
		statusLine:  statusLine,
		gateway:     gateway,
		extractor:   extract.New(),
		renderer:    markdown.NewRenderer(),
	}
}

// Router builds the HTTP gateway handler over the app's workspace.
func (a *App) Router() *httpadapter.Router {
	return httpadapter.NewRouter(
		a.Transformer,
		a.Asker,
		a.gateway,
		a.extractor,
		a.renderer,
		a.Workspace,
		a.view,
		a.statusLine,
		a.Metrics,
		httpadapter.RateLimitConfig{
			PerSecond: a.Config.RateLimitPerSecond,
			Burst:     a.Config.RateLimitBurst,
		},
	)
}

// MCPServer builds the stdio MCP surface over the same workspace.
func (a *App) MCPServer() *mcpadapter.Server {
	return mcpadapter.NewServer(
		a.Config.MCPServerName,
		Version,
		a.Transformer,
		a.Asker,
		a.Workspace,
		a.view,
	)
}
