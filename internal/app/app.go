// Package app wires configuration, storage, the analytics services, and
// the MCP tool surface into the shared core used by both moneta-server
// and the stdio proxy.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/services/budget"
	"github.com/bobmcallan/moneta/internal/services/health"
	"github.com/bobmcallan/moneta/internal/services/networth"
	"github.com/bobmcallan/moneta/internal/services/spending"
	"github.com/bobmcallan/moneta/internal/storage"
)

// App holds the initialized storage, analytics services, and MCP server.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.StorageManager
	Spending    interfaces.SpendingService
	NetWorth    interfaces.NetWorthService
	Budget      interfaces.BudgetService
	Health      interfaces.HealthService
	MCPServer   *server.MCPServer
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, services, and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, MONETA_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("MONETA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "moneta.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/moneta.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative data dir to binary directory
	if config.Storage.DataDir != "" && !filepath.IsAbs(config.Storage.DataDir) {
		config.Storage.DataDir = filepath.Join(binDir, config.Storage.DataDir)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Optional ledger seed for fresh installs and the test harness
	if seedPath := os.Getenv("MONETA_SEED_FILE"); seedPath != "" {
		ctx := context.Background()
		if _, err := storage.ImportSeed(ctx, storageManager, logger, common.ResolveUserID(ctx), seedPath); err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to import seed file: %w", err)
		}
	}

	// Initialize services
	spendingService := spending.NewService(storageManager, config, logger)
	netWorthService := networth.NewService(storageManager, config, logger)
	budgetService := budget.NewService(storageManager, config, logger)
	healthService := health.NewService(storageManager, netWorthService, config, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"moneta",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		Spending:    spendingService,
		NetWorth:    netWorthService,
		Budget:      budgetService,
		Health:      healthService,
		MCPServer:   mcpServer,
		StartupTime: startupStart,
	}

	// Register all MCP tools
	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetFinancialSnapshotTool(), handleGetFinancialSnapshot(a.NetWorth, logger))
	s.AddTool(createAnalyzeSpendingTool(), handleAnalyzeSpending(a.Spending, logger))
	s.AddTool(createGetBudgetVsActualTool(), handleGetBudgetVsActual(a.Budget, logger))
	s.AddTool(createGetFinancialHealthSummaryTool(), handleGetFinancialHealthSummary(a.Health, logger))
	s.AddTool(createAnalyzeForecastEvolutionTool(), handleAnalyzeForecastEvolution(a.Budget, logger))
	s.AddTool(createGetNetWorthTrendTool(), handleGetNetWorthTrend(a.NetWorth, logger))
	s.AddTool(createAnalyzeMonthlyCategoryTrendsTool(), handleAnalyzeMonthlyCategoryTrends(a.Spending, logger))
	s.AddTool(createGetCashRunwayTool(), handleGetCashRunway(a.Spending, logger))
}
