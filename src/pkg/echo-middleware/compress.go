package echomw

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/labstack/echo/v4"
)

const brotliScheme = "br"

type brotliResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *brotliResponseWriter) WriteHeader(code int) {
	w.Header().Del(echo.HeaderContentLength)
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliResponseWriter) Write(content []byte) (int, error) {
	if w.Header().Get(echo.HeaderContentType) == "" {
		w.Header().Set(echo.HeaderContentType, http.DetectContentType(content))
	}
	return w.Writer.Write(content)
}

func (w *brotliResponseWriter) Flush() {
	if flusher, ok := w.Writer.(interface{ Flush() error }); ok {
		_ = flusher.Flush()
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

/*
BrotliMiddleware compresses responses for clients that accept "br". A
response that wrote nothing (an error handled further up, a redirect
without body) is left uncompressed.
*/
func BrotliMiddleware(level int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !acceptsBrotli(c.Request().Header.Get(echo.HeaderAcceptEncoding)) {
				return next(c)
			}

			response := c.Response()
			response.Header().Add(echo.HeaderVary, echo.HeaderAcceptEncoding)
			response.Header().Set(echo.HeaderContentEncoding, brotliScheme)

			original := response.Writer
			compressor := brotli.NewWriterLevel(original, level)
			response.Writer = &brotliResponseWriter{Writer: compressor, ResponseWriter: original}

			defer func() {
				if response.Size == 0 {
					if response.Header().Get(echo.HeaderContentEncoding) == brotliScheme {
						response.Header().Del(echo.HeaderContentEncoding)
					}
					compressor.Reset(io.Discard)
				}
				_ = compressor.Close()
				response.Writer = original
			}()

			return next(c)
		}
	}
}

func acceptsBrotli(acceptEncoding string) bool {
	for _, encoding := range strings.Split(acceptEncoding, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(encoding), ";")
		if strings.EqualFold(name, brotliScheme) {
			return true
		}
	}
	return false
}
