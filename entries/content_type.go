package entries

import (
	"mime"
	"strings"
)

// Common MIME types produced by the bundled database
const (
	MIMETypeTextPlain       = "text/plain"
	MIMETypeTextHTML        = "text/html"
	MIMETypeTextXML         = "text/xml"
	MIMETypeApplicationJSON = "application/json"
	MIMETypeApplicationXML  = "application/xml"
	MIMETypeImageJPEG       = "image/jpeg"
	MIMETypeImagePNG        = "image/png"
	MIMETypeImageGIF        = "image/gif"
	MIMETypeImageWebP       = "image/webp"
	MIMETypeAudioMP3        = "audio/mpeg"
	MIMETypeAudioOGG        = "audio/ogg"
	MIMETypeApplicationPDF  = "application/pdf"
	MIMETypeApplicationZip  = "application/zip"
	MIMETypeApplicationGzip = "application/gzip"
	MIMETypeOctetStream     = "application/octet-stream"
)

// ContentType is what a matching entry reports about the data.
type ContentType struct {
	// Message is the human readable description assembled from every
	// matching entry in the tree, e.g. "PNG image data, 640 x 480, 8-bit".
	Message string

	// MIMEType is the MIME type attached with "!:mime", empty when the
	// matching entries carry none.
	MIMEType string
}

// String returns the message, falling back to the MIME type.
func (c *ContentType) String() string {
	if c == nil {
		return ""
	}
	if c.Message != "" {
		return c.Message
	}
	return c.MIMEType
}

// Name returns a short name for the type derived from the MIME subtype,
// e.g. "png" for image/png and "sqlite3" for application/vnd.sqlite3.
func (c *ContentType) Name() string {
	if c == nil || c.MIMEType == "" {
		return ""
	}
	sub := baseMIME(c.MIMEType)
	if idx := strings.Index(sub, "/"); idx != -1 {
		sub = sub[idx+1:]
	}
	sub = strings.TrimPrefix(sub, "x-")
	sub = strings.TrimPrefix(sub, "vnd.")
	if idx := strings.Index(sub, "+"); idx != -1 {
		sub = sub[:idx]
	}
	return sub
}

// Extension returns a suitable file extension for the MIME type
func (c *ContentType) Extension() string {
	if c == nil {
		return ""
	}
	switch baseMIME(c.MIMEType) {
	case "":
		return ""
	case MIMETypeTextPlain:
		return ".txt"
	case MIMETypeTextHTML:
		return ".html"
	case MIMETypeTextXML, MIMETypeApplicationXML:
		return ".xml"
	case MIMETypeApplicationJSON:
		return ".json"
	case MIMETypeImageJPEG:
		return ".jpg"
	case MIMETypeImagePNG:
		return ".png"
	case MIMETypeImageGIF:
		return ".gif"
	case MIMETypeImageWebP:
		return ".webp"
	case MIMETypeAudioMP3:
		return ".mp3"
	case MIMETypeAudioOGG:
		return ".ogg"
	case MIMETypeApplicationPDF:
		return ".pdf"
	case MIMETypeApplicationZip:
		return ".zip"
	case MIMETypeApplicationGzip:
		return ".gz"
	}

	exts, err := mime.ExtensionsByType(baseMIME(c.MIMEType))
	if err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// IsText returns true if the MIME type is a text type
func (c *ContentType) IsText() bool {
	m := c.mimeType()
	return strings.HasPrefix(m, "text/") ||
		m == MIMETypeApplicationJSON ||
		m == MIMETypeApplicationXML ||
		m == "application/javascript"
}

// IsImage returns true if the MIME type is an image type
func (c *ContentType) IsImage() bool {
	return strings.HasPrefix(c.mimeType(), "image/")
}

// IsAudio returns true if the MIME type is an audio type
func (c *ContentType) IsAudio() bool {
	return strings.HasPrefix(c.mimeType(), "audio/")
}

// IsVideo returns true if the MIME type is a video type
func (c *ContentType) IsVideo() bool {
	return strings.HasPrefix(c.mimeType(), "video/")
}

// IsArchive returns true if the MIME type is an archive or compressed type
func (c *ContentType) IsArchive() bool {
	switch c.mimeType() {
	case MIMETypeApplicationZip,
		MIMETypeApplicationGzip,
		"application/x-tar",
		"application/x-bzip2",
		"application/x-xz",
		"application/x-7z-compressed",
		"application/x-rar-compressed",
		"application/vnd.rar":
		return true
	}
	return false
}

// IsExecutable returns true for native executable formats
func (c *ContentType) IsExecutable() bool {
	switch c.mimeType() {
	case "application/x-executable",
		"application/x-sharedlib",
		"application/x-dosexec",
		"application/x-mach-binary":
		return true
	}
	return false
}

func (c *ContentType) mimeType() string {
	if c == nil {
		return ""
	}
	return baseMIME(c.MIMEType)
}

// baseMIME strips parameters such as "; charset=binary".
func baseMIME(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
