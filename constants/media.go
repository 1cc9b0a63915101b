package constants

import "strings"

// MediaType is the accepted document media type for ingestion.
type MediaType string

const (
	MediaPDF  MediaType = "application/pdf"
	MediaJPEG MediaType = "image/jpeg"
	MediaPNG  MediaType = "image/png"
)

// AcceptedMediaTypes holds the media types the pipeline will process.
// Anything else is rejected before OCR is attempted.
var AcceptedMediaTypes = map[MediaType]struct{}{
	MediaPDF:  {},
	MediaJPEG: {},
	MediaPNG:  {},
}

// AllowedExtensions holds the default allowed file extensions for ingestion.
var AllowedExtensions = map[string]MediaType{
	"pdf":  MediaPDF,
	"jpg":  MediaJPEG,
	"jpeg": MediaJPEG,
	"png":  MediaPNG,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// NormalizeMediaType strips parameters and lowercases a Content-Type value,
// e.g. "image/JPEG; charset=binary" -> "image/jpeg".
func NormalizeMediaType(mt string) MediaType {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return MediaType(strings.TrimSpace(strings.ToLower(mt)))
}

// IsAccepted reports whether mt is one of the accepted media types.
func IsAccepted(mt string) bool {
	_, ok := AcceptedMediaTypes[NormalizeMediaType(mt)]
	return ok
}

// MapExtToMediaType maps a (normalized or raw) extension to its media type.
// Returns "" when the extension is not allowed.
func MapExtToMediaType(ext string) MediaType {
	return AllowedExtensions[NormalizeExt(ext)]
}

// IsImage reports whether mt is one of the accepted raster image types.
func IsImage(mt MediaType) bool {
	return mt == MediaJPEG || mt == MediaPNG
}
