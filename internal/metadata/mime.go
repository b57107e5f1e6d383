package metadata

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	octetStream = "application/octet-stream"
	plainText   = "text/plain"
)

// DetectMime determines the MIME type of a regular file. Content
// sniffing reads only the header bytes the signature library needs.
// When sniffing fails, is inconclusive, or yields only generic plain
// text, the normalized extension decides; files that defeat both come
// back as octet-stream.
func DetectMime(path, ext string) string {
	detected := ""
	if mtype, err := mimetype.DetectFile(path); err == nil {
		detected = cleanMime(mtype.String())
	}
	if detected == octetStream {
		detected = ""
	}
	if detected != "" && detected != plainText {
		return detected
	}

	if ext != "" {
		if byExt := cleanMime(mime.TypeByExtension("." + ext)); byExt != "" {
			return byExt
		}
	}

	if detected != "" {
		return detected
	}
	return octetStream
}

// cleanMime strips parameters like "; charset=utf-8"
func cleanMime(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
