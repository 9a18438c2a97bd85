package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/godemo/internal/domain"
)

// -- REQUESTS --
type DownloadRequest struct {
	ShareCode    string `json:"shareCode"`
	DownloadPath string `json:"downloadPath"`
}

type ResolveRequest struct {
	Codes []string `json:"codes"`
	// Text is split line by line when Codes is empty
	Text string `json:"text"`
}

type BatchRequest struct {
	URLs    []string `json:"urls"`
	Path    string   `json:"path"`
	Workers int      `json:"workers"`
}

type RetryRequest struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type PreferenceRequest struct {
	Value string `json:"value"`
}

// -- RESPONSES --
type AcceptedResponse struct {
	Status       string `json:"status"`
	Total        int    `json:"total"`
	DownloadPath string `json:"downloadPath"`
}

type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func accepted(c *echo.Context, total int, dir string) error {
	return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Total: total, DownloadPath: dir})
}

// bindRequest binds the request body into v. Malformed bodies are validation
// errors.
func bindRequest(c *echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// writeError maps domain errors to status codes.
func writeError(c *echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrResolver), errors.Is(err, domain.ErrFetch):
		status = http.StatusBadGateway
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
