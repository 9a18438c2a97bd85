package controllers

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/progress"
	"github.com/datallboy/godemo/internal/resolver"
	"github.com/datallboy/godemo/internal/sharecode"
)

// DemoController starts downloads. Work runs in the background and reports
// through the event hub; requests only wait for validation.
type DemoController struct {
	App *app.Context
	Hub *progress.Hub

	// Background jobs outlive the request, so they hang off this context.
	BaseCtx context.Context

	jobs sync.WaitGroup
}

// Wait blocks until every background job returned.
func (ctrl *DemoController) Wait() {
	ctrl.jobs.Wait()
}

func (ctrl *DemoController) spawn(fn func(ctx context.Context)) {
	ctrl.jobs.Add(1)
	go func() {
		defer ctrl.jobs.Done()
		fn(ctrl.BaseCtx)
	}()
}

// HandleDownload resolves one share code and downloads its replay.
func (ctrl *DemoController) HandleDownload(c *echo.Context) error {
	var req DownloadRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	code, err := sharecode.Parse(req.ShareCode)
	if err != nil {
		return writeError(c, err)
	}

	dir, err := ctrl.App.DownloadDir(c.Request().Context(), req.DownloadPath)
	if err != nil {
		return writeError(c, err)
	}

	ctrl.spawn(func(ctx context.Context) {
		if _, err := ctrl.App.Engine.DownloadOne(ctx, code, dir, ctrl.Hub); err != nil {
			ctrl.App.Logger.Debug("download of %s ended with: %v", code, err)
		}
	})

	return accepted(c, 1, dir)
}

// HandleResolve maps share codes to URLs synchronously. Resolving ticks are
// published on the hub while it runs.
func (ctrl *DemoController) HandleResolve(c *echo.Context) error {
	var req ResolveRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	res := &domain.Resolution{Found: []domain.ResolvedURL{}, NotFound: []domain.UnresolvedCode{}}
	var codes []domain.ShareCode

	if len(req.Codes) > 0 {
		for _, raw := range req.Codes {
			code, err := sharecode.Parse(raw)
			if err != nil {
				res.NotFound = append(res.NotFound, domain.UnresolvedCode{Code: domain.ShareCode(raw), Error: err.Error()})
				continue
			}
			codes = append(codes, code)
		}
	} else {
		codes = sharecode.ExtractLines(req.Text)
	}

	if len(codes) == 0 && len(res.NotFound) == 0 {
		return writeError(c, domain.NewValidationError("codes", "no share codes given"))
	}

	resolved := resolver.ResolveAll(c.Request().Context(), ctrl.App.Resolver, codes, func(current, total int) {
		ctrl.Hub.Progress(domain.ProgressEvent{Stage: domain.StageResolving, Current: current, Total: total})
	})
	res.Found = append(res.Found, resolved.Found...)
	res.NotFound = append(res.NotFound, resolved.NotFound...)

	return c.JSON(http.StatusOK, res)
}

// HandleBatch downloads a list of already resolved URLs.
func (ctrl *DemoController) HandleBatch(c *echo.Context) error {
	var req BatchRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	if len(req.URLs) == 0 {
		return writeError(c, domain.NewValidationError("urls", "no URLs to download"))
	}
	for _, u := range req.URLs {
		if err := domain.ValidateURL(u); err != nil {
			return writeError(c, err)
		}
	}

	dir, err := ctrl.App.DownloadDir(c.Request().Context(), req.Path)
	if err != nil {
		return writeError(c, err)
	}

	urls := append([]string(nil), req.URLs...)
	ctrl.spawn(func(ctx context.Context) {
		if _, err := ctrl.App.Engine.RunBatch(ctx, urls, dir, req.Workers, ctrl.Hub); err != nil {
			ctrl.App.Logger.Error("Batch aborted: %v", err)
			ctrl.Hub.Status(domain.StatusEvent{Status: domain.StatusError, Message: err.Error(), IsError: true})
		}
	})

	return accepted(c, len(urls), dir)
}

// HandleRetry downloads one URL again in single-file mode.
func (ctrl *DemoController) HandleRetry(c *echo.Context) error {
	var req RetryRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := domain.ValidateURL(req.URL); err != nil {
		return writeError(c, err)
	}

	dir, err := ctrl.App.DownloadDir(c.Request().Context(), req.Path)
	if err != nil {
		return writeError(c, err)
	}

	ctrl.spawn(func(ctx context.Context) {
		if _, err := ctrl.App.Engine.Retry(ctx, req.URL, dir, ctrl.Hub); err != nil {
			ctrl.App.Logger.Debug("retry of %s ended with: %v", req.URL, err)
		}
	})

	return accepted(c, 1, dir)
}
