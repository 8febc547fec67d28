package utils

// EstimateTokens provides a rough estimate of the number of tokens in a given text.
// A common heuristic is 4 characters per token for English text.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TruncateString truncates a string to at most maxLength runes,
// appending "..." if truncation occurs.
func TruncateString(s string, maxLength int) string {
	if maxLength < 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
