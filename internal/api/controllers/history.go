package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/domain"
)

type HistoryController struct {
	App *app.Context
}

// List returns past downloads, newest first. ?status=failed lists the URLs
// worth retrying.
func (ctrl *HistoryController) List(c *echo.Context) error {
	filter := domain.HistoryFilter{Status: domain.TaskState(c.QueryParam("status"))}

	switch filter.Status {
	case "", domain.TaskDone, domain.TaskFailed:
	default:
		return writeError(c, domain.NewValidationError("status", "must be %q or %q", domain.TaskDone, domain.TaskFailed))
	}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return writeError(c, domain.NewValidationError("limit", "must be a positive number"))
		}
		filter.Limit = n
	}

	entries, err := ctrl.App.Store.ListDownloads(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
