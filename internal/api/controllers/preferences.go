package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/domain"
)

type PreferencesController struct {
	App *app.Context
}

func (ctrl *PreferencesController) Get(c *echo.Context) error {
	key := c.Param("key")
	if key != domain.PrefDownloadPath {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown preference " + key})
	}

	value, _, err := ctrl.App.Store.GetPreference(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PreferenceResponse{Key: key, Value: value})
}

// Put saves a new download folder. The folder must exist.
func (ctrl *PreferencesController) Put(c *echo.Context) error {
	key := c.Param("key")
	if key != domain.PrefDownloadPath {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown preference " + key})
	}

	var req PreferenceRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}
	if req.Value == "" {
		return writeError(c, domain.NewValidationError("value", "must not be empty"))
	}

	dir, err := ctrl.App.DownloadDir(c.Request().Context(), req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, PreferenceResponse{Key: key, Value: dir})
}
