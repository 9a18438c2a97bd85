package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"resolver", &ResolverError{Kind: ResolverNoURL}, ErrResolver},
		{"fetch", &FetchError{URL: "http://x", StatusCode: 404}, ErrFetch},
		{"decompress", &DecompressError{Path: "a.dem"}, ErrDecompress},
		{"validation", &ValidationError{Message: "bad"}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
		})
	}

	if errors.Is(&FetchError{}, ErrDecompress) {
		t.Error("FetchError must not match ErrDecompress")
	}
}

func TestResolverErrorMessages(t *testing.T) {
	exit := &ResolverError{Code: "CSGO-a", Kind: ResolverExitFailure, ExitCode: 2, Stderr: "boom"}
	if !strings.Contains(exit.Error(), "boom") {
		t.Errorf("exit failure message should carry stderr, got %q", exit.Error())
	}

	noURL := &ResolverError{Code: "CSGO-a", Kind: ResolverNoURL}
	if exit.Error() == noURL.Error() {
		t.Error("exit and no-url failures should be distinguishable")
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	err := &FetchError{URL: "http://x", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("FetchError should unwrap to its cause")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("downloadPath", "%s is not a directory", "/tmp/x")
	if err.Error() != "downloadPath: /tmp/x is not a directory" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
