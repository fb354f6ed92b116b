package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const fallbackFilename = "file"

// SanitizeFilename reduces a client-supplied name to a single safe path
// element: NFKD folded to ASCII, separators turned into underscores, and
// everything outside [A-Za-z0-9._-] dropped.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	s := strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	s = strings.Join(strings.Fields(s), "_")

	b.Reset()
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	s = strings.Trim(b.String(), "._")
	if s == "" {
		return fallbackFilename
	}
	return s
}

// storedName prefixes name with a microsecond timestamp. attempt > 0 adds a
// numeric suffix before the extension for retries after a collision.
func storedName(now time.Time, name string, attempt int) string {
	ts := now.Format("20060102150405") + fmt.Sprintf("%06d", now.Nanosecond()/1000)
	if attempt > 0 {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), attempt, ext)
	}
	return ts + "_" + name
}
