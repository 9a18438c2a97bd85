package domain

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var badChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// DeriveFileName picks the file name for a download from the last URL path
// segment. Query strings are ignored and OS-illegal characters replaced. When
// nothing usable remains the name falls back to demo_<index>.
func DeriveFileName(rawURL string, index int) string {
	fallback := fmt.Sprintf("demo_%d", index)

	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return fallback
	}

	name := path.Base(u.Path)
	name = badChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewValidationError("url", "%q is not an http(s) URL", raw)
	}
	return nil
}
