//nolint:revive // Package name 'api' is intentionally generic for the HTTP API layer
package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/movierecs/movierecs/internal/logger"
)

// logFileName is the attachment name of a downloaded log file.
const logFileName = "movierecs.log"

// LogsProvider provides access to log data.
type LogsProvider interface {
	GetRecentLogs() []logger.LogEntry
	GetLogFilePath() string
}

// LogsHandlers handles log-related HTTP endpoints.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates a new logs handlers instance.
func NewLogsHandlers(provider LogsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// GetRecentLogs returns recent log entries from the ring buffer.
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	logs := h.provider.GetRecentLogs()
	if logs == nil {
		logs = []logger.LogEntry{}
	}
	return c.JSON(http.StatusOK, logs)
}

// DownloadLogFile serves the current log file for download.
func (h *LogsHandlers) DownloadLogFile(c echo.Context) error {
	logPath := h.provider.GetLogFilePath()
	if logPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no log file configured")
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return echo.NewHTTPError(http.StatusNotFound, "log file not found")
	}

	return c.Attachment(logPath, logFileName)
}

func (s *Server) logsHandlers() (*LogsHandlers, error) {
	if s.logsProvider == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "log capture not enabled")
	}
	return NewLogsHandlers(s.logsProvider), nil
}

// GET /api/v1/system/logs
func (s *Server) getRecentLogs(c echo.Context) error {
	h, err := s.logsHandlers()
	if err != nil {
		return err
	}
	return h.GetRecentLogs(c)
}

// GET /api/v1/system/logs/download
func (s *Server) downloadLogFile(c echo.Context) error {
	h, err := s.logsHandlers()
	if err != nil {
		return err
	}
	return h.DownloadLogFile(c)
}
