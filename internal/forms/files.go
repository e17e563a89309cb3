package forms

import (
	"errors"
	"fmt"
	"strings"
)

// MaxReferenceImages caps the reference images attached to one RFQ.
const MaxReferenceImages = 5

// MaxImageBytes is the per-file size ceiling for reference images.
const MaxImageBytes = 5 << 20

var imageContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var (
	ErrTooManyFiles   = errors.New("too many reference images")
	ErrFileTooLarge   = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// FileMeta is the local descriptor for a selected file before upload.
type FileMeta struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// HumanSize renders the size like "1.2 MB" for display.
func (f FileMeta) HumanSize() string {
	return HumanSize(f.SizeBytes)
}

// HumanSize formats a byte count with a binary unit suffix.
func HumanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// IsImageContentType reports whether the content type is an accepted image.
func IsImageContentType(contentType string) bool {
	_, ok := imageContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}

// BuildFileMetas validates a selection of reference images against count,
// size and type limits without uploading anything. The first violation per
// file is reported; valid files are still returned so one bad file never
// blocks its siblings.
func BuildFileMetas(files []FileMeta, existing int) ([]FileMeta, map[string]error) {
	errs := make(map[string]error)
	if existing < 0 {
		existing = 0
	}
	allowed := MaxReferenceImages - existing
	if allowed < 0 {
		allowed = 0
	}

	out := make([]FileMeta, 0, len(files))
	for i, f := range files {
		if len(out) >= allowed {
			errs[f.FileName] = ErrTooManyFiles
			continue
		}
		if f.SizeBytes > MaxImageBytes {
			errs[f.FileName] = ErrFileTooLarge
			continue
		}
		if !IsImageContentType(f.ContentType) {
			errs[f.FileName] = ErrUnsupportedType
			continue
		}
		if strings.TrimSpace(f.FileName) == "" {
			errs[fmt.Sprintf("file-%d", i)] = errors.New("missing file name")
			continue
		}
		out = append(out, f)
	}
	return out, errs
}
