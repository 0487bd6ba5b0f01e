package statement

import (
	"encoding/json"
	"io"
	"os"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
Decode reads one AnalysisResult document from reader.

Unknown fields are ignored; missing collections decode as empty.
*/
func Decode(reader io.Reader) (result AnalysisResult, e *xerr.Error) {
	decodeErr := json.NewDecoder(reader).Decode(&result)
	if decodeErr != nil {
		e = xerr.NewError(decodeErr, "decode analysis result JSON", nil)
		return result, e
	}

	return result, e
}

/*
LoadFromFile reads an AnalysisResult previously saved as JSON.
*/
func LoadFromFile(path string) (result AnalysisResult, e *xerr.Error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		e = xerr.NewError(openErr, "open analysis result file", path)
		return result, e
	}
	defer func() {
		_ = file.Close()
	}()

	result, e = Decode(file)
	if e != nil {
		return result, e
	}

	tl.Log(
		tl.Info1, palette.Green, "Loaded analysis result from '%s' (%s transactions, %s categories)",
		path, len(result.Transactions), len(result.Categories),
	)

	return result, e
}
