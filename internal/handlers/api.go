package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"atlassian-utils/internal/common"
	"atlassian-utils/internal/interfaces"
)

// APIHandlers contains the monitoring endpoint handlers.
type APIHandlers struct {
	config    *common.Config
	storage   interfaces.Storage
	logger    arbor.ILogger
	startTime time.Time

	mu         sync.RWMutex
	lastReport *interfaces.SyncReport
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Build     string    `json:"build"`
	Uptime    float64   `json:"uptime_seconds"`
	Services  struct {
		Database   bool `json:"database"`
		Jira       bool `json:"jira"`
		Confluence bool `json:"confluence"`
	} `json:"services"`
}

// VersionResponse represents version information
type VersionResponse struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// StatusResponse represents the sync service status
type StatusResponse struct {
	Uptime     float64                `json:"uptime_seconds"`
	Issues     int                    `json:"cached_issues"`
	Pages      int                    `json:"cached_pages"`
	LastReport *interfaces.SyncReport `json:"last_report,omitempty"`
}

// ProjectStatus represents the cache state of a single project
type ProjectStatus struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	IssueCount int       `json:"issue_count"`
	LastSync   time.Time `json:"last_sync,omitempty"`
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(config *common.Config, storage interfaces.Storage, logger arbor.ILogger) *APIHandlers {
	return &APIHandlers{
		config:    config,
		storage:   storage,
		logger:    logger,
		startTime: time.Now(),
	}
}

// SetLastReport records the most recent sync report for /status.
func (h *APIHandlers) SetLastReport(report *interfaces.SyncReport) {
	h.mu.Lock()
	h.lastReport = report
	h.mu.Unlock()
}

// HealthHandler returns system health status
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   common.GetVersion(),
		Build:     common.GetBuild(),
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if _, _, err := h.storage.Counts(); err == nil {
		health.Services.Database = true
	}
	health.Services.Jira = h.config.HasJira()
	health.Services.Confluence = h.config.HasConfluence()

	writeJSON(w, http.StatusOK, health)
}

// VersionHandler returns build information
func (h *APIHandlers) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: common.GetVersion(),
		Build:   common.GetBuild(),
		Commit:  common.GetGitCommit(),
	})
}

// StatusHandler returns cache counts and the last sync report
func (h *APIHandlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	issues, pages, err := h.storage.Counts()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read cache counts")
		writeError(w, http.StatusInternalServerError, "failed to read cache")
		return
	}

	h.mu.RLock()
	report := h.lastReport
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Uptime:     time.Since(h.startTime).Seconds(),
		Issues:     issues,
		Pages:      pages,
		LastReport: report,
	})
}

// ProjectsHandler returns per-project cache state
func (h *APIHandlers) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects := make([]ProjectStatus, 0, len(h.config.Jira.Projects))
	for _, project := range h.config.Jira.Projects {
		status := ProjectStatus{
			Key:  project.Key,
			Name: project.Name,
		}
		if keys, err := h.storage.IssueKeys(project.Key); err == nil {
			status.IssueCount = len(keys)
		}
		if lastSync, err := h.storage.LastSync("jira:" + project.Key); err == nil {
			status.LastSync = lastSync
		}
		projects = append(projects, status)
	}
	writeJSON(w, http.StatusOK, projects)
}

// ConfigHandler returns the active configuration with secrets redacted
func (h *APIHandlers) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	redacted := *h.config
	if redacted.Jira.APIToken != "" {
		redacted.Jira.APIToken = "[redacted]"
	}
	if redacted.Confluence.APIToken != "" {
		redacted.Confluence.APIToken = "[redacted]"
	}
	writeJSON(w, http.StatusOK, redacted)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
