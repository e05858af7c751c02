package extraction

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEPPT  = "application/vnd.ms-powerpoint"
	MIMEPPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

var extensionMIME = map[string]string{
	".pdf":  MIMEPDF,
	".ppt":  MIMEPPT,
	".pptx": MIMEPPTX,
}

// DetectMIME sniffs the file content and falls back to the extension of
// filename when the content is only recognised as a generic container.
func DetectMIME(path, filename string) string {
	if m, err := mimetype.DetectFile(path); err == nil {
		for _, want := range []string{MIMEPDF, MIMEPPT, MIMEPPTX} {
			if m.Is(want) {
				return want
			}
		}
		if !isContainer(m) {
			return m.String()
		}
	}
	if byExt := MIMEFromName(filename); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// MIMEFromName maps a lecture file extension to its MIME type, or "".
func MIMEFromName(filename string) string {
	return extensionMIME[strings.ToLower(filepath.Ext(filename))]
}

func isContainer(m *mimetype.MIME) bool {
	return m.Is("application/zip") || m.Is("application/x-ole-storage") || m.Is("application/octet-stream")
}

func isPowerPoint(mime string) bool {
	return mime == MIMEPPT || mime == MIMEPPTX
}
