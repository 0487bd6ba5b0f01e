package util

import (
	"encoding/json"
	"os"
	"path/filepath"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// EnsureDirectory creates directoryPath and its parents if needed.
func EnsureDirectory(directoryPath string) (e *xerr.Error) {
	err := os.MkdirAll(directoryPath, 0o755)
	if err != nil {
		e = xerr.NewError(err, "create output directory", directoryPath)
		return e
	}

	tl.Log(tl.Info1, palette.Blue, "Ensured output directory '%s'", directoryPath)
	return e
}

/*
SaveFile writes content to destinationPath, creating the parent directory
and overwriting an existing file. label names the content in logs.
*/
func SaveFile(destinationPath string, content []byte, label string) (e *xerr.Error) {
	e = EnsureDirectory(filepath.Dir(destinationPath))
	if e != nil {
		return e
	}

	writeErr := os.WriteFile(destinationPath, content, 0o644)
	if writeErr != nil {
		e = xerr.NewError(writeErr, "write "+label+" file", destinationPath)
		return e
	}

	tl.Log(tl.Info1, palette.Green, "Saved %s to '%s'", label, destinationPath)
	return e
}

/*
SaveJSONToFile marshals value to pretty-printed JSON and writes it to
destinationPath.
*/
func SaveJSONToFile(destinationPath string, value any) (e *xerr.Error) {
	jsonBytes, marshalErr := json.MarshalIndent(value, "", "  ")
	if marshalErr != nil {
		e = xerr.NewError(marshalErr, "marshal value to JSON", destinationPath)
		return e
	}

	return SaveFile(destinationPath, append(jsonBytes, '\n'), "JSON data")
}
