package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.txt", "report.txt"},
		{"../../etc/passwd", "etc_passwd"},
		{`..\..\windows\system32.dll`, "windows_system32.dll"},
		{"my file (1).pdf", "my_file_1.pdf"},
		{"résumé.doc", "resume.doc"},
		{".hidden", "hidden"},
		{"日本語", "file"},
		{"", "file"},
		{"...", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, `\`)
		})
	}
}

func TestStoredName(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 678901234, time.UTC)

	assert.Equal(t, "20240102030405678901_report.txt", storedName(now, "report.txt", 0))
	assert.Equal(t, "20240102030405678901_report-2.txt", storedName(now, "report.txt", 2))
	assert.Equal(t, "20240102030405678901_Makefile-1", storedName(now, "Makefile", 1))
}
