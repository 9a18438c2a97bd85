package resolver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/logger"
	"github.com/datallboy/godemo/internal/platform"
)

// SubCommand is the first argument passed to the lookup tool.
const SubCommand = "demo-url"

// ProcessResolver shells out to the share code lookup tool.
type ProcessResolver struct {
	BinaryPath string
	Args       []string // placed before SubCommand, e.g. the script path
	Dir        string
	Timeout    time.Duration

	logger *logger.Logger
}

func NewProcessResolver(install *platform.ResolverInstall, timeout time.Duration, log *logger.Logger) *ProcessResolver {
	return &ProcessResolver{
		BinaryPath: install.BinaryPath,
		Args:       install.Args(),
		Dir:        install.Dir,
		Timeout:    timeout,
		logger:     log,
	}
}

func (p *ProcessResolver) Resolve(ctx context.Context, code domain.ShareCode) (domain.ResolvedURL, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(p.Args)+2)
	args = append(args, p.Args...)
	args = append(args, SubCommand, string(code))

	cmd := exec.CommandContext(ctx, p.BinaryPath, args...)
	cmd.Dir = p.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			p.debug("resolver exited %d for %s, stderr: %s", exitErr.ExitCode(), code, stderr.String())
			return domain.ResolvedURL{}, &domain.ResolverError{
				Code:     code,
				Kind:     domain.ResolverExitFailure,
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}
		return domain.ResolvedURL{}, &domain.ResolverError{Code: code, Kind: domain.ResolverStartFailure, Err: err}
	}

	url, ok := FirstURL(stdout.String())
	if !ok {
		p.debug("resolver returned no URL for %s. Full output: %q", code, stdout.String())
		return domain.ResolvedURL{}, &domain.ResolverError{
			Code:   code,
			Kind:   domain.ResolverNoURL,
			Stdout: stdout.String(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	return domain.ResolvedURL{Code: code, URL: url}, nil
}

func (p *ProcessResolver) debug(format string, v ...any) {
	if p.logger != nil {
		p.logger.Debug(format, v...)
	}
}

// FirstURL returns the first token of the first output line that starts
// with "http".
func FirstURL(output string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "http") {
			continue
		}
		return strings.Fields(line)[0], true
	}
	return "", false
}
