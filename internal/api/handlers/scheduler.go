package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/movierecs/movierecs/internal/scheduler"
)

// TaskRunner is the part of the scheduler exposed over HTTP.
type TaskRunner interface {
	ListTasks() []scheduler.TaskInfo
	GetTask(taskID string) (*scheduler.TaskInfo, error)
	RunNow(taskID string) error
}

// SchedulerHandler handles scheduler-related API requests.
type SchedulerHandler struct {
	runner func() TaskRunner
}

// NewSchedulerHandler creates a new scheduler handler. The runner is
// resolved per request since the scheduler starts after the routes exist.
func NewSchedulerHandler(runner func() TaskRunner) *SchedulerHandler {
	return &SchedulerHandler{runner: runner}
}

func (h *SchedulerHandler) scheduler() (TaskRunner, error) {
	r := h.runner()
	if r == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "scheduler not running")
	}
	return r, nil
}

// ListTasks returns all scheduled tasks.
// GET /api/v1/scheduler/tasks
func (h *SchedulerHandler) ListTasks(c echo.Context) error {
	r, err := h.scheduler()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.ListTasks())
}

// GetTask returns information about a specific task.
// GET /api/v1/scheduler/tasks/:id
func (h *SchedulerHandler) GetTask(c echo.Context) error {
	r, err := h.scheduler()
	if err != nil {
		return err
	}
	task, err := r.GetTask(c.Param("id"))
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// RunTask manually triggers a task to run.
// POST /api/v1/scheduler/tasks/:id/run
func (h *SchedulerHandler) RunTask(c echo.Context) error {
	r, err := h.scheduler()
	if err != nil {
		return err
	}
	taskID := c.Param("id")
	if err := r.RunNow(taskID); err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Task started",
		"taskId":  taskID,
	})
}

func taskError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, scheduler.ErrTaskRunning):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
