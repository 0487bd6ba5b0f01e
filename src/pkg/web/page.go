package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"finsight/src/pkg/render"
	"finsight/src/pkg/session"
	"finsight/src/pkg/upload"
)

const pageTemplate = "index.html"

const acceptAttribute = upload.MimePDF + "," + upload.MimeJPEG + "," + upload.MimePNG + "," + upload.MimeWebP

// colors such as "rgb(99, 102, 241)" are filtered by html/template unless marked safe
var templateFuncs = template.FuncMap{
	"css": func(value string) template.CSS {
		return template.CSS(value)
	},
	"isImage": func(kind upload.Kind) bool {
		return kind == upload.KindImage
	},
}

type pageData struct {
	Session    session.Snapshot
	View       *render.View
	ReportHTML template.HTML
	Chart      chartData
	ChartJSURL string
	Accept     string
}

// chartData is embedded as JSON for static/app.js.
type chartData struct {
	Trend      render.TrendSeries `json:"trend"`
	Categories chartCategories    `json:"categories"`
}

type chartCategories struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

func newChartData(view render.View) chartData {
	chart := chartData{
		Trend: view.Trend,
		Categories: chartCategories{
			Labels: make([]string, 0, len(view.Categories)),
			Values: make([]float64, 0, len(view.Categories)),
			Colors: make([]string, 0, len(view.Categories)),
		},
	}
	for _, slice := range view.Categories {
		chart.Categories.Labels = append(chart.Categories.Labels, slice.Name)
		chart.Categories.Values = append(chart.Categories.Values, slice.Value)
		chart.Categories.Colors = append(chart.Categories.Colors, slice.Color)
	}
	return chart
}

func (s *Server) newPageData() pageData {
	data := pageData{
		Session:    s.state.Snapshot(),
		ChartJSURL: Cfg.ChartJSURL,
		Accept:     acceptAttribute,
	}

	if data.Session.Stage != session.StageResults {
		return data
	}
	result, _ := s.state.Result()
	if result == nil {
		return data
	}

	view := render.Render(*result)
	data.View = &view
	data.ReportHTML = template.HTML(view.ReportHTML)
	data.Chart = newChartData(view)
	return data
}

/*
renderPage executes the whole page into a buffer first so a template error
never leaves a half-written response.
*/
func (s *Server) renderPage(c echo.Context, status int) error {
	var buffer bytes.Buffer
	executeErr := s.templates.ExecuteTemplate(&buffer, pageTemplate, s.newPageData())
	if executeErr != nil {
		tl.Log(tl.Error, palette.Red, "Unable to render '%s': '%s'", pageTemplate, executeErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to render page")
	}
	return c.HTMLBlob(status, buffer.Bytes())
}
