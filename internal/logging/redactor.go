package logging

import (
	"regexp"
	"strings"
)

// Redacted replaces the value of a sensitive key.
const Redacted = "[REDACTED]"

var keySeparators = regexp.MustCompile(`[^a-z0-9]+`)

// redactor redacts sensitive values in log key-value pairs.
type redactor struct {
	sensitiveWords map[string]bool
}

// newRedactor creates a redactor for credentials and client identifiers.
func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "credential", "user", "sin", "email", "phone"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact walks flattened key-value pairs and replaces the value of every key
// with a sensitive segment. The input slice is not modified.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		if key, ok := result[i].(string); ok && r.isSensitive(key) {
			result[i+1] = Redacted
		}
	}
	return result
}

// isSensitive reports whether any separator-delimited segment of key is a
// sensitive word. "api_token" matches, "apitoken" and "username" do not.
func (r *redactor) isSensitive(key string) bool {
	for _, part := range keySeparators.Split(strings.ToLower(key), -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}
