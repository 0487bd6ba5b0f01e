package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echomw "finsight/src/pkg/echo-middleware"
	"finsight/src/pkg/failure"
	"finsight/src/pkg/session"
	"finsight/src/pkg/statement"
	"finsight/src/pkg/upload"
)

type fakeAnalyzer struct {
	result  statement.AnalysisResult
	failure *failure.Failure
	calls   atomic.Int32
	seen    upload.Candidate
	// when set, Analyze signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func (f *fakeAnalyzer) Analyze(_ context.Context, candidate upload.Candidate) (statement.AnalysisResult, *failure.Failure) {
	f.calls.Add(1)
	f.seen = candidate
	if f.release != nil {
		f.started <- struct{}{}
		<-f.release
	}
	return f.result, f.failure
}

func (f *fakeAnalyzer) Endpoint() string {
	return "http://backend.test/upload"
}

func loadResult(t *testing.T) statement.AnalysisResult {
	t.Helper()
	result, e := statement.LoadFromFile("../statement/testdata/result.json")
	require.Nil(t, e)
	return result
}

func newTestServer(t *testing.T, analyzer *fakeAnalyzer) (*Server, *session.State) {
	t.Helper()
	echomw.UpdateRateLimits(1000, 1000)

	state := session.New()
	server, e := NewServer(state, analyzer)
	require.Nil(t, e)
	server.now = func() time.Time {
		return time.Date(2025, 12, 10, 14, 5, 0, 0, time.UTC)
	}
	return server, state
}

type filePart struct {
	name        string
	contentType string
	content     []byte
}

func uploadRequest(t *testing.T, parts ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, part := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+FilesField+`"; filename="`+part.name+`"`)
		header.Set("Content-Type", part.contentType)
		partWriter, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = partWriter.Write(part.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/files", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

func serve(server *Server, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func get(server *Server, path string) *httptest.ResponseRecorder {
	return serve(server, httptest.NewRequest(http.MethodGet, path, nil))
}

func post(server *Server, path string) *httptest.ResponseRecorder {
	return serve(server, httptest.NewRequest(http.MethodPost, path, nil))
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, image.NewNRGBA(image.Rect(0, 0, 400, 200))))
	return buffer.Bytes()
}

func TestIndexShowsUploadForm(t *testing.T) {
	server, _ := newTestServer(t, &fakeAnalyzer{})

	response := get(server, "/")

	assert.Equal(t, http.StatusOK, response.Code)
	body := response.Body.String()
	assert.Contains(t, body, `id="uploadForm"`)
	assert.Contains(t, body, `name="files"`)
	assert.NotContains(t, body, `id="previewSection"`)
	assert.NotContains(t, body, `id="dataSection"`)
}

func TestAddFilesStagesPreviews(t *testing.T) {
	server, state := newTestServer(t, &fakeAnalyzer{})

	response := serve(server, uploadRequest(t,
		filePart{name: "statement.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")},
		filePart{name: "receipt.png", contentType: upload.MimePNG, content: pngFile(t)},
	))
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/", response.Header().Get("Location"))

	page := get(server, "/").Body.String()
	assert.Contains(t, page, `id="previewSection"`)
	assert.Contains(t, page, "statement.pdf")
	assert.Contains(t, page, "receipt.png")
	assert.Contains(t, page, `src="/files/1/preview"`)
	assert.NotContains(t, page, `src="/files/0/preview"`)
	assert.Equal(t, session.StagePreview, state.Snapshot().Stage)

	thumbnail := get(server, "/files/1/preview")
	assert.Equal(t, http.StatusOK, thumbnail.Code)
	assert.Equal(t, "image/png", thumbnail.Header().Get("Content-Type"))
	decoded, err := png.Decode(thumbnail.Body)
	require.NoError(t, err)
	assert.Equal(t, Cfg.ThumbnailSize, decoded.Bounds().Dx())

	assert.Equal(t, http.StatusNotFound, get(server, "/files/0/preview").Code)
	assert.Equal(t, http.StatusNotFound, get(server, "/files/7/preview").Code)
	assert.Equal(t, http.StatusNotFound, get(server, "/files/x/preview").Code)
}

func TestAddFilesRejectsInvalidType(t *testing.T) {
	server, _ := newTestServer(t, &fakeAnalyzer{})

	serve(server, uploadRequest(t, filePart{name: "notes.txt", contentType: "text/plain", content: []byte("hello")}))

	page := get(server, "/").Body.String()
	assert.Contains(t, page, failure.MessageInvalidFileType)
	assert.Contains(t, page, `class="upload-status error"`)
	assert.NotContains(t, page, `id="previewSection"`)
}

func TestRemoveAndCancel(t *testing.T) {
	server, state := newTestServer(t, &fakeAnalyzer{})
	serve(server, uploadRequest(t,
		filePart{name: "a.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\na")},
		filePart{name: "b.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\nbb")},
	))

	assert.Equal(t, http.StatusSeeOther, post(server, "/files/0/remove").Code)
	snapshot := state.Snapshot()
	require.Len(t, snapshot.Previews, 1)
	assert.Equal(t, "b.pdf", snapshot.Previews[0].Name)

	assert.Equal(t, http.StatusSeeOther, post(server, "/cancel").Code)
	snapshot = state.Snapshot()
	assert.Empty(t, snapshot.Previews)
	assert.Equal(t, session.StageUpload, snapshot.Stage)
}

func TestAnalyzeShowsResults(t *testing.T) {
	analyzer := &fakeAnalyzer{result: loadResult(t)}
	server, state := newTestServer(t, analyzer)
	serve(server, uploadRequest(t,
		filePart{name: "first.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n1")},
		filePart{name: "second.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n22")},
	))

	response := post(server, "/analyze")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, int32(1), analyzer.calls.Load())
	assert.Equal(t, "first.pdf", analyzer.seen.Name)
	assert.Equal(t, session.StageResults, state.Snapshot().Stage)

	page := get(server, "/").Body.String()
	assert.Contains(t, page, `id="dataSection"`)
	assert.Contains(t, page, "$2367.20")
	assert.Contains(t, page, "$2239.05")
	assert.Contains(t, page, "PRIME SUPERMARKET")
	assert.Contains(t, page, "Food &amp; Dining")
	assert.Contains(t, page, "rgb(99, 102, 241)")
	assert.NotContains(t, page, "ZgotmplZ")
	assert.Contains(t, page, "<h3>Financial Overview</h3>")
	assert.Contains(t, page, `id="chartData"`)
	assert.Contains(t, page, Cfg.ChartJSURL)
	assert.NotContains(t, page, `id="uploadForm"`)
}

func TestAnalyzeWithNothingStagedRedirects(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	server, _ := newTestServer(t, analyzer)

	assert.Equal(t, http.StatusSeeOther, post(server, "/analyze").Code)
	assert.Equal(t, int32(0), analyzer.calls.Load())
}

func TestAnalyzeEncryptedDocument(t *testing.T) {
	analyzer := &fakeAnalyzer{failure: failure.FromServerMessage("PDF is encrypted")}
	server, state := newTestServer(t, analyzer)
	serve(server, uploadRequest(t, filePart{name: "locked.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")}))

	post(server, "/analyze")
	assert.Equal(t, session.StageEncrypted, state.Snapshot().Stage)
	assert.Contains(t, get(server, "/").Body.String(), `id="encryptedWarning"`)

	post(server, "/screenshot")
	page := get(server, "/").Body.String()
	assert.Contains(t, page, `id="uploadForm"`)
	assert.Contains(t, page, failure.MessageUploadScreenshot)
	assert.Contains(t, page, `class="upload-status info"`)
}

func TestAnalyzeFailureAlertsOnce(t *testing.T) {
	analyzer := &fakeAnalyzer{failure: failure.New(failure.KindServerError, "Statement could not be parsed")}
	server, state := newTestServer(t, analyzer)
	serve(server, uploadRequest(t, filePart{name: "bad.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")}))

	post(server, "/analyze")

	first := get(server, "/").Body.String()
	assert.Contains(t, first, `alert("Statement could not be parsed")`)
	assert.Contains(t, first, `id="uploadForm"`)
	assert.NotContains(t, get(server, "/").Body.String(), "alert(")

	_, analysisID := state.Result()
	assert.Empty(t, analysisID)
}

func TestExportWithoutResultAlerts(t *testing.T) {
	server, _ := newTestServer(t, &fakeAnalyzer{})

	for _, path := range []string{"/export/report.html", "/export/report.md", "/export/report.xlsx"} {
		response := get(server, path)
		assert.Equal(t, http.StatusConflict, response.Code, path)
		assert.Contains(t, response.Body.String(), `alert("`+failure.MessageNoReportAvailable+`")`, path)
	}
}

func TestExportsAfterAnalysis(t *testing.T) {
	server, _ := newTestServer(t, &fakeAnalyzer{result: loadResult(t)})
	serve(server, uploadRequest(t, filePart{name: "s.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")}))
	post(server, "/analyze")

	page := get(server, "/export/report.html")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Press Ctrl+P")
	assert.Contains(t, page.Body.String(), "FinSight Premium")

	markdownExport := get(server, "/export/report.md")
	assert.Equal(t, http.StatusOK, markdownExport.Code)
	assert.Equal(t, `attachment; filename="finsight-report-2025-12-10.md"`, markdownExport.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(markdownExport.Body.String(), "# "))

	workbook := get(server, "/export/report.xlsx")
	assert.Equal(t, http.StatusOK, workbook.Code)
	assert.Equal(t, xlsxContentType, workbook.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(workbook.Body.Bytes(), []byte("PK")))
}

func TestExportCompressesWithBrotli(t *testing.T) {
	server, _ := newTestServer(t, &fakeAnalyzer{result: loadResult(t)})
	serve(server, uploadRequest(t, filePart{name: "s.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")}))
	post(server, "/analyze")

	request := httptest.NewRequest(http.MethodGet, "/export/report.md", nil)
	request.Header.Set("Accept-Encoding", "gzip, br")
	response := serve(server, request)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "br", response.Header().Get("Content-Encoding"))
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, &fakeAnalyzer{})

	response := get(server, "/health")
	require.Equal(t, http.StatusOK, response.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "http://backend.test/upload", health["backend"])
	assert.Equal(t, []any{"pdf", "image"}, health["features"])
	assert.Equal(t, false, health["analyzing"])
	assert.Equal(t, "2025-12-10T14:05:00Z", health["timestamp"])
}

func TestAPIResultRequiresToken(t *testing.T) {
	t.Setenv(echomw.EnvAPIToken, "secret")
	server, _ := newTestServer(t, &fakeAnalyzer{result: loadResult(t)})

	assert.Equal(t, http.StatusUnauthorized, get(server, "/api/result").Code)

	authorized := func() *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/api/result", nil)
		request.Header.Set("Authorization", "Bearer secret")
		return serve(server, request)
	}
	assert.Equal(t, http.StatusNotFound, authorized().Code)

	serve(server, uploadRequest(t, filePart{name: "s.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")}))
	post(server, "/analyze")

	response := authorized()
	require.Equal(t, http.StatusOK, response.Code)
	var body struct {
		AnalysisID string `json:"analysis_id"`
		View       struct {
			Summary struct {
				EndBalance string `json:"end_balance"`
			} `json:"summary"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AnalysisID)
	assert.Equal(t, "$2239.05", body.View.Summary.EndBalance)
}

func TestResetClearsResult(t *testing.T) {
	server, state := newTestServer(t, &fakeAnalyzer{result: loadResult(t)})
	serve(server, uploadRequest(t, filePart{name: "s.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n")}))
	post(server, "/analyze")

	assert.Equal(t, http.StatusSeeOther, post(server, "/reset").Code)

	result, _ := state.Result()
	assert.Nil(t, result)
	assert.Equal(t, session.StageUpload, state.Snapshot().Stage)
}

func TestResetDuringAnalysisKeepsSingleRequest(t *testing.T) {
	analyzer := &fakeAnalyzer{
		result:  loadResult(t),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	server, state := newTestServer(t, analyzer)
	serve(server, uploadRequest(t, filePart{name: "first.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n1")}))

	done := make(chan int, 1)
	go func() {
		done <- post(server, "/analyze").Code
	}()
	<-analyzer.started

	assert.Equal(t, http.StatusSeeOther, post(server, "/reset").Code)
	assert.True(t, state.Analyzing())

	serve(server, uploadRequest(t, filePart{name: "second.pdf", contentType: upload.MimePDF, content: []byte("%PDF-1.4\n22")}))
	assert.Equal(t, http.StatusConflict, post(server, "/analyze").Code)
	assert.Equal(t, int32(1), analyzer.calls.Load())

	close(analyzer.release)
	assert.Equal(t, http.StatusSeeOther, <-done)
	assert.Equal(t, session.StageResults, state.Snapshot().Stage)
	assert.Equal(t, "first.pdf", analyzer.seen.Name)
}
