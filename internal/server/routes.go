package server

import (
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/finance"
)

// registerRoutes mounts the MCP endpoint and the system API on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// MCP over Streamable HTTP. Stateless: each tools/call carries its own
	// arguments, so no session state survives between requests.
	httpMCP := mcpserver.NewStreamableHTTPServer(s.app.MCPServer,
		mcpserver.WithStateLess(true),
	)
	mux.Handle("/mcp", httpMCP)

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	// Report the effective exclusion set, not the raw override list (which
	// is empty when the defaults apply).
	policy := finance.NewCategoryPolicy(cfg.Finance.ExcludedCategories)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":         cfg.Environment,
		"storage_backend":     cfg.Storage.Backend,
		"storage_data_dir":    cfg.Storage.DataDir,
		"logging_level":       cfg.Logging.Level,
		"default_currency":    cfg.Finance.DefaultCurrency,
		"fallback_gbp_usd":    cfg.Finance.FallbackGBPUSD,
		"excluded_categories": policy.Excluded(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
