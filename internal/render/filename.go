package render

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when no title is supplied.
const DefaultTitle = "notes"

const (
	PageExt   = ".pdf"
	OfficeExt = ".docx"

	PageContentType   = "application/pdf"
	OfficeContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var trailingExt = regexp.MustCompile(`\.[^/.]+$`)

// Title returns the trimmed title, or DefaultTitle when it is blank.
func Title(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultTitle
}

// PageFilename is the download name for a page-description artifact.
func PageFilename(title string) string {
	return Title(title) + PageExt
}

// OfficeFilename is the download name for an office artifact. Any extension
// on the title (e.g. the uploaded "lecture.pdf") is dropped first.
func OfficeFilename(title string) string {
	return Title(trailingExt.ReplaceAllString(strings.TrimSpace(title), "")) + OfficeExt
}
