package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath makes a relative file path absolute against the working
// directory. Absolute paths and http(s) URLs are returned unchanged.
func ResolvePath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) || IsURL(path) {
		return path, nil
	}

	root, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, path), nil
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
