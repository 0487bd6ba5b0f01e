/*
report renders the exports of a saved analysis result (the result.json that
analyze writes, or the backend's raw response) without contacting the
backend.
*/
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/export"
	"finsight/src/pkg/failure"
	"finsight/src/pkg/statement"
	"finsight/src/pkg/util"
)

type reportOptions struct {
	ResultPath string
	OutputPath string
	Format     export.Format
	All        bool
}

func main() {
	options := parseFlags()

	tl.Log(tl.Notice, palette.BlueBold, "Generating report from '%s'", options.ResultPath)

	refused, e := generateReport(options, time.Now())
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
	if refused != nil {
		tl.Log(tl.Error, palette.Red, "%s", refused.Message)
		os.Exit(1)
	}
}

/*
generateReport writes the exports selected by options. A result without a
report is refused and nothing is written.
*/
func generateReport(options reportOptions, generatedAt time.Time) (refused *failure.Failure, e *xerr.Error) {
	result, e := statement.LoadFromFile(options.ResultPath)
	if e != nil {
		return nil, e
	}

	report, refused := export.New(&result, generatedAt)
	if refused != nil {
		return refused, e
	}

	if options.All {
		directory := filepath.Dir(options.OutputPath)
		baseName := strings.TrimSuffix(filepath.Base(options.OutputPath), filepath.Ext(options.OutputPath))
		_, e = report.SaveAll(directory, baseName)
		return nil, e
	}
	return nil, report.Save(options.OutputPath, options.Format)
}

/*
parseFlags parses CLI flags and returns validated reportOptions.

Defaults:
- format: html
- output path: next to the result, named report.<format>
*/
func parseFlags() reportOptions {
	resultFlag := flag.String("result", "", "Saved analysis result JSON")
	outputFlag := flag.String("o", "", "Output path (default: report.<format> next to the result)")
	formatFlag := flag.String("format", "html", "Export format: html, md, xlsx or all")
	util.RequiredFlag(resultFlag, "-result")

	flag.Parse()
	util.EnsureFlags()

	options := reportOptions{ResultPath: *resultFlag}

	if strings.EqualFold(strings.TrimSpace(*formatFlag), "all") {
		options.All = true
		options.Format = export.FormatHTML
	} else {
		format, e := export.ParseFormat(*formatFlag)
		if e != nil {
			e.QuitIf(xerr.ErrorTypeError)
		}
		options.Format = format
	}

	options.OutputPath = *outputFlag
	if options.OutputPath == "" {
		options.OutputPath = filepath.Join(filepath.Dir(options.ResultPath), "report."+string(options.Format))
	}

	return options
}
