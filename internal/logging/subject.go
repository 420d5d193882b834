package logging

import "strings"

// FormatSubject builds the source/rendition subject string used in console output.
// Batch IDs are shortened to their first segment.
func FormatSubject(batchID, source, rendition string) string {
	batchID = strings.TrimSpace(batchID)
	source = strings.TrimSpace(source)
	rendition = strings.TrimSpace(rendition)
	if idx := strings.IndexByte(batchID, '-'); idx > 0 {
		batchID = batchID[:idx]
	}
	parts := make([]string, 0, 2)
	if batchID != "" {
		parts = append(parts, "#"+batchID)
	}
	switch {
	case source != "" && rendition != "":
		parts = append(parts, source+" ("+rendition+")")
	case source != "":
		parts = append(parts, source)
	case rendition != "":
		parts = append(parts, rendition)
	}
	return strings.Join(parts, " · ")
}
