package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/src/pkg/export"
	"finsight/src/pkg/failure"
)

var generatedAt = time.Date(2025, time.December, 10, 15, 4, 5, 0, time.UTC)

func TestGenerateReportRefusesEmptyReport(t *testing.T) {
	directory := t.TempDir()
	resultPath := filepath.Join(directory, "result.json")
	require.NoError(t, os.WriteFile(resultPath, []byte(`{"summary":{},"transactions":[],"categories":{},"report":""}`), 0o644))
	outputPath := filepath.Join(directory, "report.html")

	refused, e := generateReport(reportOptions{ResultPath: resultPath, OutputPath: outputPath, Format: export.FormatHTML}, generatedAt)

	require.Nil(t, e)
	require.NotNil(t, refused)
	assert.True(t, refused.Is(failure.KindNoReportAvailable))
	assert.NoFileExists(t, outputPath)
}

func TestGenerateReportWritesEveryFormat(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out", "statement.html")

	refused, e := generateReport(reportOptions{
		ResultPath: "../../pkg/statement/testdata/result.json",
		OutputPath: outputPath,
		All:        true,
	}, generatedAt)

	require.Nil(t, e)
	require.Nil(t, refused)
	for _, format := range export.Formats {
		assert.FileExists(t, filepath.Join(filepath.Dir(outputPath), "statement."+string(format)))
	}
}

func TestGenerateReportMissingResult(t *testing.T) {
	refused, e := generateReport(reportOptions{ResultPath: filepath.Join(t.TempDir(), "missing.json")}, generatedAt)

	assert.Nil(t, refused)
	assert.NotNil(t, e)
}
