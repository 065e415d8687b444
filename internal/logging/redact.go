package logging

import "strings"

// sensitiveKeyPatterns are substrings that mark an attribute key as carrying
// secret material. Matching is case-insensitive.
var sensitiveKeyPatterns = []string{
	"PASSWORD",
	"PASSPHRASE",
	"SECRET",
	"TOKEN",
	"CREDENTIAL",
	"API_KEY",
	"PRIVATE",
}

// shouldMask reports whether values logged under key must be redacted.
func shouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// maskValue redacts a secret value, keeping a short suffix for identification
// when the value is long enough to survive it.
func maskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}
