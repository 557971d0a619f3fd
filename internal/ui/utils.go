package ui

// truncate shortens s to at most length runes, marking the cut with "...".
func truncate(s string, length int) string {
	if length <= 3 {
		return "..."
	}
	r := []rune(s)
	if len(r) > length {
		return string(r[:length-3]) + "..."
	}
	return s
}
