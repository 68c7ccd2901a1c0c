package util

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// SafeName replaces path separators, spaces and control characters so s can
// be used inside a file name.
func SafeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == filepath.Separator, r == '/', r == '\\', r == ':':
			return '_'
		case unicode.IsSpace(r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return s
}
