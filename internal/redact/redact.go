// Package redact strips sensitive fragments from strings before they are
// logged. Database errors in particular can carry connection strings, SQL
// text, and host names that must never reach log aggregation.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

// Precompiled patterns, applied in order. Credentials go first so a
// connection string is scrubbed before the host pattern sees it.
var redactions = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	{
		// Database connection strings with embedded credentials
		regexp.MustCompile(`(?i)(postgres(ql)?|mysql|db|database)://[^@\s]+@`),
		RedactedCredentialPlaceholder,
	},
	{
		// password=... / password: ... fragments
		regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`),
		RedactedCredentialPlaceholder,
	},
	{
		// SQL statement fragments leaked through driver errors
		regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"]+)?`),
		RedactedSQLPlaceholder,
	},
	{
		// Filesystem paths
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		RedactedPathPlaceholder,
	},
	{
		// host:port endpoints
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		RedactedHostPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range redactions {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
