package ai

import (
	"errors"
	"strings"
)

// ErrNoCompletion is returned when the chat model responds without any choices.
var ErrNoCompletion = errors.New("chat model returned no completion")

// IsRateLimitError reports whether an error from a provider client looks
// like a rate-limit rejection. Provider clients wrap HTTP errors as plain
// strings, so this is a best-effort textual check.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429")
}
