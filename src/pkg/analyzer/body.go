package analyzer

import (
	"compress/flate"
	"compress/gzip"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// AcceptEncoding is sent with every upload; readBody decodes each of these.
const AcceptEncoding = "br, gzip, deflate"

/*
readBody reads the whole response body, undoing the Content-Encoding the
backend chose. Unknown encodings are read as-is.
*/
func readBody(response *http.Response, endpoint string) (body []byte, e *xerr.Error) {
	var reader io.Reader
	contentEncoding := response.Header.Get("Content-Encoding")

	tl.Log(tl.Verbose5, palette.BlueDim, "Reading body (content encoding is '%s') from '%s'", contentEncoding, endpoint)
	switch contentEncoding {
	case "gzip":
		gzipReader, gzipErr := gzip.NewReader(response.Body)
		if gzipErr != nil {
			e = xerr.NewError(gzipErr, "open gzip response body", endpoint)
			return body, e
		}
		defer func() {
			_ = gzipReader.Close()
		}()
		reader = gzipReader
	case "deflate":
		flateReader := flate.NewReader(response.Body)
		defer func() {
			_ = flateReader.Close()
		}()
		reader = flateReader
	case "br":
		reader = brotli.NewReader(response.Body)
	case "", "identity":
		reader = response.Body
	default:
		reader = response.Body
		tl.Log(tl.Warning, palette.YellowDim, "Unsupported %s: '%s'", "Content-Encoding", contentEncoding)
	}

	body, readErr := io.ReadAll(reader)
	if readErr != nil {
		e = xerr.NewError(readErr, "read response body", endpoint)
		return body, e
	}
	tl.Log(tl.Verbose6, palette.GreenDim, "Read %s body bytes from '%s'", len(body), endpoint)

	return body, e
}
