/*
Package upload stages the statement files a user picked before one of them
is sent for analysis: validation, de-duplication and previews.
*/
package upload

import (
	"net/http"
	"strings"

	"finsight/src/pkg/failure"
)

// MaxSize is the largest accepted upload, in bytes.
const MaxSize int64 = 10 * 1024 * 1024

const (
	MimePDF  = "application/pdf"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"

	mimeUnknown = "application/octet-stream"
)

var validMimeTypes = map[string]bool{
	MimePDF:  true,
	MimeJPEG: true,
	MimePNG:  true,
	MimeWebP: true,
}

// Kind is the backend's name for the upload: the multipart field and the "type" value.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

type Candidate struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Raw      []byte `json:"-"`
}

/*
NewCandidate builds a candidate from a picked file. When the client sent no
MIME type (or the generic octet-stream) it is sniffed from the content.
*/
func NewCandidate(name string, mimeType string, raw []byte) Candidate {
	mimeType = normalizeMimeType(mimeType)
	if mimeType == "" || mimeType == mimeUnknown {
		mimeType = normalizeMimeType(http.DetectContentType(raw))
	}

	return Candidate{
		Name:     name,
		Size:     int64(len(raw)),
		MimeType: mimeType,
		Raw:      raw,
	}
}

func normalizeMimeType(mimeType string) string {
	mediaType, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Kind returns KindPDF for PDFs and KindImage for everything else.
func (c Candidate) Kind() Kind {
	if c.MimeType == MimePDF {
		return KindPDF
	}
	return KindImage
}

/*
Validate checks the MIME type first, then the size. A nil result means the
candidate may be staged.
*/
func Validate(candidate Candidate) *failure.Failure {
	if !validMimeTypes[candidate.MimeType] {
		return failure.InvalidFileType()
	}
	if candidate.Size > MaxSize {
		return failure.FileTooLarge()
	}
	return nil
}
