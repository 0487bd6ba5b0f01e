/*
analyze uploads one statement file to the analysis backend, prints the
result to the terminal and writes the JSON result plus every export into
the output directory.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/analyzer"
	"finsight/src/pkg/bootstrap"
	"finsight/src/pkg/export"
	"finsight/src/pkg/render"
	"finsight/src/pkg/termview"
	"finsight/src/pkg/upload"
	"finsight/src/pkg/util"
)

func main() {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	filePath := flag.String("file", "", "Statement to analyze (PDF, JPG, PNG or WebP)")
	endpointFlag := flag.String("endpoint", "", "Analysis backend upload URL (default: from config)")
	outDir := flag.String("out", "./out", "Directory for result.json and the exported reports")
	util.RequiredFlag(filePath, "-file")
	flag.Parse()
	util.EnsureFlags()
	bootstrap.Initialize(*configPath)

	endpoint := analyzer.Cfg.Endpoint
	if *endpointFlag != "" {
		endpoint = *endpointFlag
	}

	candidate, e := loadCandidate(*filePath)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}

	validationFailure := upload.Validate(candidate)
	if validationFailure != nil {
		tl.Log(tl.Error, palette.Red, "Cannot analyze '%s': '%s'", candidate.Name, validationFailure.Message)
		os.Exit(1)
	}

	tl.Log(tl.Notice, palette.BlueBold, "Analyzing '%s' (%s) with '%s'", candidate.Name, candidate.Kind(), endpoint)
	started := time.Now()
	result, analysisFailure := analyzer.NewClient(endpoint, nil).Analyze(context.Background(), candidate)
	if analysisFailure != nil {
		tl.Log(tl.Error, palette.Red, "Analysis of '%s' failed (%s): '%s'", candidate.Name, analysisFailure.Kind, analysisFailure.Message)
		os.Exit(1)
	}
	tl.Log(tl.Info1, palette.Green, "Analysis finished in %s", time.Since(started).Round(time.Millisecond))

	fmt.Print(termview.Render(render.Render(result)))
	fmt.Print(termview.Report(result.Report))

	e = util.SaveJSONToFile(filepath.Join(*outDir, "result.json"), result)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}

	report, exportFailure := export.New(&result, time.Now())
	if exportFailure != nil {
		tl.Log(tl.Warning, palette.Yellow, "Skipping exports: '%s'", exportFailure.Message)
		return
	}

	paths, e := report.SaveAll(*outDir, "report")
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
	tl.Log(tl.Notice1, palette.GreenBold, "Wrote %s reports to '%s'", len(paths), *outDir)
}

// loadCandidate reads path, typing it by extension and then by content.
func loadCandidate(path string) (candidate upload.Candidate, e *xerr.Error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		e = xerr.NewError(readErr, "read statement file", path)
		return candidate, e
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	return upload.NewCandidate(filepath.Base(path), mimeType, raw), e
}
