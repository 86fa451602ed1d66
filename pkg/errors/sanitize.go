package errors

import "regexp"

// Patterns for content that must never reach a client response body:
// internal URLs, IP addresses, and anything that looks like a credential.
var (
	urlPattern   = regexp.MustCompile(`https?://[^\s"']+`)
	ipPattern    = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}(:\d+)?\b`)
	tokenPattern = regexp.MustCompile(`(?i)\b(token|key|secret|password|authorization|cookie)[=:]\s*\S+`)
)

// Sanitize redacts URLs, IP addresses, and key-like tokens from a message
// before it is placed into an HTTP response. Correlation ids are left
// untouched so operators can still match the log stream.
func Sanitize(message string) string {
	message = urlPattern.ReplaceAllString(message, "[redacted-url]")
	message = ipPattern.ReplaceAllString(message, "[redacted-address]")
	message = tokenPattern.ReplaceAllString(message, "$1=[redacted]")
	return message
}
