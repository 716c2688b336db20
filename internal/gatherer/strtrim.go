package gatherer

import "strings"

// TrimToRect clips a multi-line string to at most maxHeight lines of
// maxWidth characters, marking each cut with "[...]". Streamed payloads are
// display material; full output travels in the terminal result message.
func TrimToRect(s string, maxHeight, maxWidth int) string {
	if s == "" {
		return ""
	}
	res := ""
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	for i, line := range lines {
		if i > 0 {
			res += "\n"
		}
		if len(line) > maxWidth {
			res += line[:maxWidth] + "[...]"
		} else {
			res += line
		}
	}
	return res
}
