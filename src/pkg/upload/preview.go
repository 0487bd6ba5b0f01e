package upload

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/ledongthuc/pdf"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	_ "golang.org/x/image/webp"

	"finsight/src/pkg/format"
)

// Preview is one line of the staged file list.
type Preview struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Size         string `json:"size"`
	Kind         Kind   `json:"kind"`
	Pages        int    `json:"pages"` // 0 when unknown or not a PDF
	HasThumbnail bool   `json:"has_thumbnail"`
}

/*
NewPreview describes the candidate at index. For PDFs it tries to count the
pages; a document the reader cannot open (encrypted, damaged) just shows no
page count.
*/
func NewPreview(index int, candidate Candidate) Preview {
	preview := Preview{
		Index:        index,
		Name:         candidate.Name,
		Size:         format.FormatFileSize(candidate.Size),
		Kind:         candidate.Kind(),
		HasThumbnail: candidate.Kind() == KindImage,
	}

	if candidate.Kind() == KindPDF {
		pages, e := PageCount(candidate.Raw)
		if e != nil {
			tl.Log(tl.Verbose, palette.Purple, "%s for '%s'", "No page count", candidate.Name)
		}
		preview.Pages = pages
	}

	return preview
}

/*
Thumbnail decodes an image candidate (JPEG, PNG or WebP) and returns it
scaled to fit in a maxSide x maxSide box, encoded as PNG.
*/
func Thumbnail(candidate Candidate, maxSide int) (content []byte, e *xerr.Error) {
	if candidate.Kind() != KindImage {
		e = xerr.NewError(fmt.Errorf("'%s' is not an image", candidate.MimeType), "create thumbnail", candidate.Name)
		return content, e
	}

	decoded, decodeErr := imaging.Decode(bytes.NewReader(candidate.Raw), imaging.AutoOrientation(true))
	if decodeErr != nil {
		e = xerr.NewError(decodeErr, "decode image for thumbnail", candidate.Name)
		return content, e
	}

	fitted := imaging.Fit(decoded, maxSide, maxSide, imaging.Lanczos)

	var buffer bytes.Buffer
	encodeErr := imaging.Encode(&buffer, fitted, imaging.PNG)
	if encodeErr != nil {
		e = xerr.NewError(encodeErr, "encode thumbnail", candidate.Name)
		return content, e
	}

	return buffer.Bytes(), e
}

/*
PageCount returns the number of pages of a PDF held in memory. The PDF
reader panics on some malformed input; that is reported as an error.
*/
func PageCount(raw []byte) (pages int, e *xerr.Error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			pages = 0
			e = xerr.NewError(fmt.Errorf("pdf reader panic: %v", recovered), "count PDF pages", nil)
		}
	}()

	reader, openErr := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if openErr != nil {
		e = xerr.NewError(openErr, "open PDF", nil)
		return pages, e
	}

	return reader.NumPage(), e
}
