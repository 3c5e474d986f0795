package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"passwd",
	"passphrase",
	"secret",
	"apikey",
	"api_key",
	"access_key",
	"private_key",
	"credential",
	"authorization",
	"bearer",
	"cookie",
	"session",
	"jwt",
	"signature",
}

// RedactToolInput returns a copy of the tool input with sensitive values
// replaced. Only log and audit copies are redacted; the approval service
// receives the original input so the human reviews what actually runs.
func RedactToolInput(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if isSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
