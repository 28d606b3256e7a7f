package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	FormatPDF  = "pdf"
	FormatEPUB = "epub"
)

var ErrUnsupportedFormat = errors.New("unsupported document format, only pdf and epub are supported")

// Text extracts the plain text of a document. The format tag decides the
// extractor; an unreadable document fails, an unreadable page or spine item
// only contributes no text.
func Text(data []byte, format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case FormatPDF:
		return fromPDF(data)
	case FormatEPUB:
		return fromEPUB(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatFromPath maps a file path to a format tag by extension. Unknown
// extensions are returned as-is so Text can reject them.
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
