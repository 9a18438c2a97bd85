// Package sharecode pulls match share codes out of free-form user input.
package sharecode

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/datallboy/godemo/internal/domain"
)

var pattern = regexp.MustCompile(`CSGO-[a-zA-Z0-9]{5}-[a-zA-Z0-9]{5}-[a-zA-Z0-9]{5}-[a-zA-Z0-9]{5}-[a-zA-Z0-9]{5}`)

// Extract returns the first share code found anywhere in text.
func Extract(text string) (domain.ShareCode, bool) {
	match := pattern.FindString(text)
	if match == "" {
		return "", false
	}
	return domain.ShareCode(match), true
}

// Parse is Extract with a ValidationError for input that holds no code.
func Parse(text string) (domain.ShareCode, error) {
	code, ok := Extract(text)
	if !ok {
		return "", domain.NewValidationError("shareCode", "no valid share code found in %q", strings.TrimSpace(text))
	}
	return code, nil
}

// ExtractLines reads one candidate per line, skips lines without a code and
// drops repeats so the same demo is never downloaded twice into one folder.
func ExtractLines(text string) []domain.ShareCode {
	seen := make(map[domain.ShareCode]struct{})
	codes := make([]domain.ShareCode, 0)

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		code, ok := Extract(sc.Text())
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}
