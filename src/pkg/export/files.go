package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/util"
)

// Format names an export file type by its extension.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatWorkbook Format = "xlsx"
)

// Formats lists every export format in the order files are written.
var Formats = []Format{FormatHTML, FormatMarkdown, FormatWorkbook}

// ParseFormat accepts a format name or extension, case-insensitively.
func ParseFormat(name string) (format Format, e *xerr.Error) {
	normalized := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "."))
	switch normalized {
	case FormatHTML, FormatMarkdown, FormatWorkbook:
		return normalized, e
	case "markdown":
		return FormatMarkdown, e
	case "excel":
		return FormatWorkbook, e
	}
	e = xerr.NewError(fmt.Errorf("unknown export format %q", name), "parse export format", name)
	return format, e
}

// Bytes renders the report in format. HTML is the printable page.
func (r Report) Bytes(format Format) (content []byte, e *xerr.Error) {
	switch format {
	case FormatHTML:
		return []byte(r.Page()), e
	case FormatMarkdown:
		return []byte(r.Markdown()), e
	case FormatWorkbook:
		return r.Workbook()
	}
	e = xerr.NewError(fmt.Errorf("unknown export format %q", format), "render export", string(format))
	return nil, e
}

// Save writes the report in format to path.
func (r Report) Save(path string, format Format) (e *xerr.Error) {
	content, e := r.Bytes(format)
	if e != nil {
		return e
	}
	return util.SaveFile(path, content, string(format)+" report")
}

/*
SaveAll writes every format into directory as <baseName>.<format> and returns
the written paths.
*/
func (r Report) SaveAll(directory string, baseName string) (paths []string, e *xerr.Error) {
	for _, format := range Formats {
		path := filepath.Join(directory, baseName+"."+string(format))
		e = r.Save(path, format)
		if e != nil {
			return paths, e
		}
		paths = append(paths, path)
	}
	return paths, e
}
