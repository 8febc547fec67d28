package utils

import (
	"strings"
)

func containsRateLimitPhrases(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "rate limit") ||
		strings.Contains(s, "requests per minute") ||
		strings.Contains(s, "rpm exceeded") ||
		strings.Contains(s, "rate exceeded") ||
		strings.Contains(s, "quota exceeded") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "insufficient_quota") ||
		strings.Contains(s, "insufficient quota") ||
		(strings.Contains(s, "quota") && strings.Contains(s, "exceeded")) ||
		strings.Contains(s, "current quota")
}

// IsRateLimitError checks if an error or HTTP status indicates a rate limit.
// A zero status means no HTTP response was available.
func IsRateLimitError(err error, status int) bool {
	// HTTP 429 is generally a reliable indicator
	if status == 429 {
		return true
	}

	if err != nil {
		errStr := strings.ToLower(err.Error())
		// Providers often format as "status 429".
		if strings.Contains(errStr, "status 429") || strings.Contains(errStr, "http 429") {
			return true
		}

		// 403 is only a rate limit when the body says so (OpenAI specific)
		if status == 403 || strings.Contains(errStr, "status 403") {
			return containsRateLimitPhrases(errStr)
		}

		return containsRateLimitPhrases(errStr)
	}

	return false
}

// IsAuthError checks if an error or HTTP status indicates rejected credentials.
func IsAuthError(err error, status int) bool {
	if status == 401 {
		return true
	}
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "invalid api key") ||
		strings.Contains(s, "incorrect api key") ||
		strings.Contains(s, "invalid_api_key") ||
		strings.Contains(s, "unauthorized") ||
		strings.Contains(s, "status 401")
}
