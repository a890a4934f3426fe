// Package redact strips credentials, tokens, personal data and infrastructure
// details from error text before it is logged.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules consume text later ones would partially match.
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|redis)://[^@\s]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*`), "Bearer " + RedactedTokenPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`), "[REDACTED_HASH]"},
	{regexp.MustCompile(`(?i)\b(?:password|passwd|pwd|secret)\s*[=:]\s*['"]?[^'"&\s]+['"]?`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(?i)\bVALUES\s*\([^\n]*`), "VALUES [SQL_VALUES_REDACTED]"},
	{regexp.MustCompile(`(?i)\b(UPDATE\s+\w+\s+SET)\b[^\n]*`), "$1 [SQL_VALUES_REDACTED]"},
	{regexp.MustCompile(`(?i)\bWHERE\b[^\n]*`), "WHERE [SQL_WHERE_REDACTED]"},
	{regexp.MustCompile(`goroutine \d+ \[[^\]]*\]:[\s\S]*`), "[STACK_TRACE_REDACTED]"},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?::\d{1,5})?\b`), RedactedHostPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9.-]*:\d{2,5}\b`), RedactedHostPlaceholder},
}

// String returns input with every sensitive fragment replaced by a placeholder.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
