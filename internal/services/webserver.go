package services

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"

	"atlassian-utils/internal/common"
	"atlassian-utils/internal/handlers"
	"atlassian-utils/internal/interfaces"
	"atlassian-utils/internal/middleware"
)

// webServer provides HTTP endpoints for monitoring and status
type webServer struct {
	config  *common.Config
	server  *http.Server
	logger  arbor.ILogger
	api     *handlers.APIHandlers
	wsHub   *handlers.WebSocketHub
	running atomic.Bool
}

// NewWebServer creates the monitoring server and returns it together with
// the handlers other services feed (sync reports, live events).
func NewWebServer(cfg *common.Config, store interfaces.Storage, logger arbor.ILogger) (interfaces.WebService, *handlers.APIHandlers, *handlers.WebSocketHub) {
	mux := http.NewServeMux()

	wsHub := handlers.NewWebSocketHub(logger)
	api := handlers.NewAPIHandlers(cfg, store, logger)

	ws := &webServer{
		config: cfg,
		logger: logger,
		api:    api,
		wsHub:  wsHub,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Service.Port),
			Handler: mux,
		},
	}

	logMiddleware := middleware.Logging(logger)
	corsMiddleware := middleware.CORS

	mux.HandleFunc("/health", logMiddleware(corsMiddleware(api.HealthHandler)))
	mux.HandleFunc("/version", logMiddleware(corsMiddleware(api.VersionHandler)))
	mux.HandleFunc("/status", logMiddleware(corsMiddleware(api.StatusHandler)))
	mux.HandleFunc("/projects", logMiddleware(corsMiddleware(api.ProjectsHandler)))
	mux.HandleFunc("/config", logMiddleware(corsMiddleware(api.ConfigHandler)))
	mux.HandleFunc("/ws", corsMiddleware(wsHub.WebSocketHandler))

	return ws, api, wsHub
}

// Start starts the web server
func (ws *webServer) Start(ctx context.Context) error {
	ws.running.Store(true)

	go func() {
		ws.logger.Info().Int("port", ws.config.Service.Port).Msg("Starting web server")
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.logger.Error().Err(err).Msg("Web server error")
		}
	}()
	return nil
}

// Stop stops the web server
func (ws *webServer) Stop() error {
	ws.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ws.server.Shutdown(ctx)
}

// IsRunning reports whether the server has been started
func (ws *webServer) IsRunning() bool {
	return ws.running.Load()
}
