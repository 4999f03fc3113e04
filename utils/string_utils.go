package utils

// TruncateString shortens the provided string to at most n runes, appending an ellipsis when truncation occurred.
// Diagnostic messages attached to transaction outcomes are truncated with this to keep logs readable.
func TruncateString(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
