package devotional

// extractJSONObject locates the first balanced JSON object embedded in text.
// Model output often wraps the object in prose or fenced code blocks; we scan
// from the first '{' tracking brace depth and ignore everything outside the
// matching span. Returns nil when no balanced object exists.
func extractJSONObject(text string) []byte {
	start := -1
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return []byte(text[start : i+1])
			}
		}
	}
	return nil
}
