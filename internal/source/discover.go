package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var videoExtensions = []string{
	".mp4", ".avi", ".mkv", ".mov", ".wmv",
	".flv", ".webm", ".m4v", ".mpeg", ".mpg",
}

// IsVideoFile reports whether name has a recognized video extension.
func IsVideoFile(name string) bool {
	return slices.Contains(videoExtensions, strings.ToLower(filepath.Ext(name)))
}

// Discover lists the non-hidden video files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !IsVideoFile(name) {
			continue
		}
		if !entry.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}

// Filter keeps the paths whose base name contains query, case-insensitively.
// An empty query keeps everything.
func Filter(paths []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(paths)
	}
	var matches []string
	for _, p := range paths {
		if strings.Contains(strings.ToLower(filepath.Base(p)), query) {
			matches = append(matches, p)
		}
	}
	return matches
}
