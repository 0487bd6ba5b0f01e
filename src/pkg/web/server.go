/*
Package web is the browser front end: echo routes that bind the session,
the analyzer client, the render pipeline and the exporter to server-rendered
pages. The browser only draws the chart series computed here.
*/
package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"golang.org/x/sync/errgroup"

	echomw "finsight/src/pkg/echo-middleware"
	"finsight/src/pkg/failure"
	"finsight/src/pkg/session"
	"finsight/src/pkg/statement"
	"finsight/src/pkg/upload"
)

// ShutdownTimeout bounds the graceful shutdown after the run context ends.
const ShutdownTimeout = 10 * time.Second

// Analyzer sends one staged file to the analysis backend.
type Analyzer interface {
	Analyze(ctx context.Context, candidate upload.Candidate) (statement.AnalysisResult, *failure.Failure)
	Endpoint() string
}

type Server struct {
	echo      *echo.Echo
	state     *session.State
	analyzer  Analyzer
	templates *template.Template
	now       func() time.Time
}

/*
NewServer parses the embedded templates and registers every route.
*/
func NewServer(state *session.State, analyzer Analyzer) (server *Server, e *xerr.Error) {
	templates, parseErr := template.New("pages").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if parseErr != nil {
		e = xerr.NewError(parseErr, "parse embedded templates", "templates/*.html")
		return nil, e
	}

	staticFiles, subErr := fs.Sub(staticFS, "static")
	if subErr != nil {
		e = xerr.NewError(subErr, "open embedded static files", "static")
		return nil, e
	}

	server = &Server{
		echo:      echo.New(),
		state:     state,
		analyzer:  analyzer,
		templates: templates,
		now:       time.Now,
	}
	server.echo.HideBanner = true
	server.echo.HidePort = true

	server.echo.Use(middleware.Recover())
	server.echo.Use(echomw.RouteAccessLoggerMiddleware)
	server.echo.Use(echomw.RateLimiterMiddleware)
	server.echo.Use(middleware.BodyLimit(echomw.Cfg.BodyLimit))

	server.echo.StaticFS("/static", staticFiles)
	server.registerRoutes()

	return server, e
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/health", s.handleHealth)

	s.echo.POST("/files", s.handleAddFiles)
	s.echo.GET("/files/:index/preview", s.handlePreview)
	s.echo.POST("/files/:index/remove", s.handleRemoveFile)
	s.echo.POST("/cancel", s.handleCancel)
	s.echo.POST("/analyze", s.handleAnalyze)
	s.echo.POST("/screenshot", s.handleScreenshot)
	s.echo.POST("/reset", s.handleReset)

	exports := s.echo.Group("/export", echomw.BrotliMiddleware(echomw.Cfg.BrotliLevel))
	exports.GET("/report.html", s.handleExportHTML)
	exports.GET("/report.md", s.handleExportMarkdown)
	exports.GET("/report.xlsx", s.handleExportWorkbook)

	api := s.echo.Group("/api", echomw.RequireAPIToken())
	api.GET("/result", s.handleAPIResult)
}

// ServeHTTP lets the server be mounted or tested as a plain http.Handler.
func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.echo.ServeHTTP(writer, request)
}

/*
Run serves on address until ctx is done, then shuts down gracefully. A
failure to bind is returned as an error.
*/
func (s *Server) Run(ctx context.Context, address string) (e *xerr.Error) {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		tl.Log(tl.Notice, palette.BlueBold, "%s on 'http://%s'", "Serving FinSight", address)
		startErr := s.echo.Start(address)
		if errors.Is(startErr, http.ErrServerClosed) {
			return nil
		}
		return startErr
	})

	group.Go(func() error {
		<-groupCtx.Done()
		tl.Log(tl.Notice, palette.Blue, "%s, waiting up to %s", "Shutting down", ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	waitErr := group.Wait()
	if waitErr != nil {
		e = xerr.NewError(waitErr, "run web server", address)
		return e
	}

	tl.Log(tl.Notice1, palette.GreenBold, "%s", "Server stopped")
	return e
}
