package handler

import (
	"net/http"
	"strings"

	"github.com/EpocDotFr/server-patrol/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	monitoringHandler *MonitoringHandler
	historyHandler    *HistoryHandler
	runHandler        *RunHandler
	statusHandler     *StatusHandler
	rssHandler        *RSSHandler
	healthHandler     *HealthHandler
	corsConfig        middleware.CORSConfig
	adminUsers        map[string]string
}

// NewRouter creates a new router
func NewRouter(
	monitoringHandler *MonitoringHandler,
	historyHandler *HistoryHandler,
	runHandler *RunHandler,
	statusHandler *StatusHandler,
	rssHandler *RSSHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
	adminUsers map[string]string,
) *Router {
	return &Router{
		monitoringHandler: monitoringHandler,
		historyHandler:    historyHandler,
		runHandler:        runHandler,
		statusHandler:     statusHandler,
		rssHandler:        rssHandler,
		healthHandler:     healthHandler,
		corsConfig:        corsConfig,
		adminUsers:        adminUsers,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.BasicAuth(rt.adminUsers)
	optionalAuth := middleware.OptionalBasicAuth(rt.adminUsers)

	// Health endpoints (no middleware)
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)

	// Public surface: status listing and RSS feed. Credentials are
	// honored when supplied, revealing non-public monitorings.
	mux.Handle("/api/v1/status", optionalAuth(http.HandlerFunc(rt.statusHandler.Status)))
	mux.Handle("/rss", optionalAuth(http.HandlerFunc(rt.rssHandler.Feed)))

	// Management API
	mux.Handle("/api/v1/monitorings", requireAuth(http.HandlerFunc(rt.handleMonitorings)))
	mux.Handle("/api/v1/monitorings/", requireAuth(http.HandlerFunc(rt.handleMonitoringsWithID)))
	mux.Handle("/api/v1/checks/run", requireAuth(http.HandlerFunc(rt.handleRun)))
	mux.Handle("/api/v1/checks/run/", requireAuth(http.HandlerFunc(rt.handleRunJob)))

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

// handleMonitorings routes monitoring collection endpoints
func (rt *Router) handleMonitorings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.monitoringHandler.List(w, r)
	case http.MethodPost:
		rt.monitoringHandler.Create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleMonitoringsWithID routes individual monitoring endpoints
func (rt *Router) handleMonitoringsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/monitorings/")

	if strings.HasSuffix(path, "/checks") {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rt.historyHandler.Checks(w, r)
		return
	}

	if strings.HasSuffix(path, "/latency") {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rt.historyHandler.Latency(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.monitoringHandler.Get(w, r)
	case http.MethodPut:
		rt.monitoringHandler.Update(w, r)
	case http.MethodDelete:
		rt.monitoringHandler.Delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleRun routes the check run trigger endpoint
func (rt *Router) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rt.runHandler.Run(w, r)
}

// handleRunJob routes the async run job status endpoint
func (rt *Router) handleRunJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rt.runHandler.JobStatus(w, r)
}
