package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer drops characters that are invalid on common filesystems.
var fileNameReplacer = strings.NewReplacer(
	"<", "",
	">", "",
	":", "",
	"\"", "",
	"/", "",
	"\\", "",
	"|", "",
	"?", "",
	"*", "",
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFileName removes filesystem-unsafe characters, normalizes the
// string to NFC, and collapses whitespace runs.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	name = fileNameReplacer.Replace(name)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
}

// Underscored replaces spaces with underscores, as used in torrent file names.
func Underscored(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), " ", "_")
}

// Dotted replaces spaces with dots, as used in scene-style release names.
func Dotted(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), " ", ".")
}

var folder = cases.Fold()

// FoldKey returns a case-folded key for case-insensitive ordering.
func FoldKey(value string) string {
	return folder.String(value)
}
