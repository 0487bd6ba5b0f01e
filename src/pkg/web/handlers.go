package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/export"
	"finsight/src/pkg/render"
	"finsight/src/pkg/session"
	"finsight/src/pkg/statement"
	"finsight/src/pkg/upload"
)

// FilesField is the multipart field the upload form sends files under.
const FilesField = "files"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderPage(c, http.StatusOK)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"backend":   s.analyzer.Endpoint(),
		"features":  []upload.Kind{upload.KindPDF, upload.KindImage},
		"analyzing": s.state.Analyzing(),
	})
}

func (s *Server) handleAddFiles(c echo.Context) error {
	form, formErr := c.MultipartForm()
	if formErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a multipart form with files")
	}

	headers := form.File[FilesField]
	candidates := make([]upload.Candidate, 0, len(headers))
	for _, header := range headers {
		candidate, e := readCandidate(header)
		if e != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unable to read uploaded file")
		}
		candidates = append(candidates, candidate)
	}

	s.state.AddFiles(candidates...)
	return redirectHome(c)
}

/*
readCandidate reads at most one byte past the size limit: a larger file is
rejected by validation anyway and keeps its declared size.
*/
func readCandidate(header *multipart.FileHeader) (candidate upload.Candidate, e *xerr.Error) {
	file, openErr := header.Open()
	if openErr != nil {
		e = xerr.NewError(openErr, "open uploaded file", header.Filename)
		return candidate, e
	}
	defer func() {
		_ = file.Close()
	}()

	raw, readErr := io.ReadAll(io.LimitReader(file, upload.MaxSize+1))
	if readErr != nil {
		e = xerr.NewError(readErr, "read uploaded file", header.Filename)
		return candidate, e
	}

	candidate = upload.NewCandidate(header.Filename, header.Header.Get("Content-Type"), raw)
	if header.Size > candidate.Size {
		candidate.Size = header.Size
	}
	return candidate, e
}

func (s *Server) handlePreview(c echo.Context) error {
	index, parseErr := strconv.Atoi(c.Param("index"))
	if parseErr != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	candidate, ok := s.state.Candidate(index)
	if !ok || candidate.Kind() != upload.KindImage {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	thumbnail, e := upload.Thumbnail(candidate, Cfg.ThumbnailSize)
	if e != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unable to preview image")
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", thumbnail)
}

func (s *Server) handleRemoveFile(c echo.Context) error {
	index, parseErr := strconv.Atoi(c.Param("index"))
	if parseErr == nil {
		s.state.Remove(index)
	}
	return redirectHome(c)
}

func (s *Server) handleCancel(c echo.Context) error {
	s.state.Cancel()
	return redirectHome(c)
}

/*
handleAnalyze sends the first staged file and waits for the backend. The
outcome (results, encrypted view, or alert and reset) is applied to the
session before redirecting home.
*/
func (s *Server) handleAnalyze(c echo.Context) error {
	candidate, beginErr := s.state.BeginAnalysis()
	if errors.Is(beginErr, session.ErrAnalysisRunning) {
		return s.renderPage(c, http.StatusConflict)
	}
	if beginErr != nil {
		return redirectHome(c)
	}

	result, analysisFailure := s.analyzer.Analyze(c.Request().Context(), candidate)
	s.state.Finish(result, analysisFailure)

	return redirectHome(c)
}

func (s *Server) handleScreenshot(c echo.Context) error {
	s.state.SwitchToScreenshot()
	return redirectHome(c)
}

func (s *Server) handleReset(c echo.Context) error {
	s.state.Reset()
	return redirectHome(c)
}

// currentReport prepares the export, or queues the alert and answers 409.
func (s *Server) currentReport(c echo.Context) (export.Report, bool, error) {
	result, _ := s.state.Result()
	report, exportFailure := export.New(result, s.now())
	if exportFailure != nil {
		tl.Log(tl.Info, palette.Yellow, "Export refused: '%s'", exportFailure.Message)
		s.state.Alert(exportFailure.Message)
		return report, false, s.renderPage(c, http.StatusConflict)
	}
	return report, true, nil
}

func (s *Server) handleExportHTML(c echo.Context) error {
	report, ok, err := s.currentReport(c)
	if !ok {
		return err
	}
	return c.HTML(http.StatusOK, report.Page())
}

func (s *Server) handleExportMarkdown(c echo.Context) error {
	report, ok, err := s.currentReport(c)
	if !ok {
		return err
	}
	setAttachment(c, s.exportFileName(report, "md"))
	return c.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(report.Markdown()))
}

func (s *Server) handleExportWorkbook(c echo.Context) error {
	report, ok, err := s.currentReport(c)
	if !ok {
		return err
	}

	content, e := report.Workbook()
	if e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to build workbook")
	}
	setAttachment(c, s.exportFileName(report, "xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, content)
}

func (s *Server) exportFileName(report export.Report, extension string) string {
	return fmt.Sprintf("%s-%s.%s", Cfg.ExportBaseName, report.GeneratedAt().Format("2006-01-02"), extension)
}

func setAttachment(c echo.Context, fileName string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
}

// apiResult is the JSON shape of /api/result.
type apiResult struct {
	AnalysisID string                   `json:"analysis_id"`
	View       render.View              `json:"view"`
	Result     statement.AnalysisResult `json:"result"`
}

func (s *Server) handleAPIResult(c echo.Context) error {
	result, analysisID := s.state.Result()
	if result == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no analysis result"})
	}

	return c.JSON(http.StatusOK, apiResult{
		AnalysisID: analysisID,
		View:       render.Render(*result),
		Result:     *result,
	})
}

func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}
