package llm

import "strings"

// FirstJSONObject returns the first balanced {...} block in s.
// Braces inside JSON strings are ignored.
func FirstJSONObject(s string) (string, bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}

			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}

			depth++
		case '}':
			if depth == 0 {
				continue
			}

			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// jsonPayload picks the object to decode from a model reply.
func jsonPayload(reply string) string {
	if obj, ok := FirstJSONObject(reply); ok {
		return obj
	}

	return strings.TrimSpace(reply)
}
