/*
Package config loads the configuration file shared by every entry point and
hands each package its own section.

The file is a JSON (or YAML, by extension) object keyed by section name:

	{
	  "echo_middleware": { "port": 8401 },
	  "analyzer": { "endpoint": "http://127.0.0.1:5000/upload" },
	  "web": { "thumbnail_size": 160 }
	}

Packages own their Config type, defaults and InitializeConfig; this package
only parses the file and decodes sections.
*/
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"gopkg.in/yaml.v3"
)

var (
	sectionsMutex sync.RWMutex
	sections      = map[string]json.RawMessage{}
)

/*
InitializeConfig reads the configuration file at path. A missing file is not
an error: every package then keeps its defaults.
*/
func InitializeConfig(path string) {
	loaded, e := LoadFile(path)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}

	sectionsMutex.Lock()
	sections = loaded
	sectionsMutex.Unlock()
}

/*
LoadFile parses a configuration file into raw sections. Files ending in
.yaml or .yml are read as YAML, anything else as JSON.
*/
func LoadFile(path string) (loaded map[string]json.RawMessage, e *xerr.Error) {
	loaded = map[string]json.RawMessage{}

	content, readErr := os.ReadFile(path)
	if os.IsNotExist(readErr) {
		tl.Log(tl.Info, palette.Purple, "Config file '%s' is %s, using %s", path, "missing", "defaults")
		return loaded, e
	}
	if readErr != nil {
		e = xerr.NewError(readErr, "read config file", path)
		return loaded, e
	}

	extension := strings.ToLower(filepath.Ext(path))
	if extension == ".yaml" || extension == ".yml" {
		return parseYAML(path, content)
	}

	unmarshalErr := json.Unmarshal(content, &loaded)
	if unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "parse JSON config file", path)
		return loaded, e
	}

	tl.Log(tl.Info1, palette.Green, "Loaded %s config sections from '%s'", len(loaded), path)
	return loaded, e
}

// YAML sections are re-encoded as JSON so every package decodes one format.
func parseYAML(path string, content []byte) (loaded map[string]json.RawMessage, e *xerr.Error) {
	loaded = map[string]json.RawMessage{}

	var document map[string]any
	unmarshalErr := yaml.Unmarshal(content, &document)
	if unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "parse YAML config file", path)
		return loaded, e
	}

	for name, value := range document {
		encoded, marshalErr := json.Marshal(value)
		if marshalErr != nil {
			e = xerr.NewError(marshalErr, "re-encode YAML config section", name)
			return loaded, e
		}
		loaded[name] = encoded
	}

	tl.Log(tl.Info1, palette.Green, "Loaded %s config sections from '%s'", len(loaded), path)
	return loaded, e
}

/*
Section decodes the named section into a new T. It returns nil when the
section is absent so the package falls back to its defaults.
*/
func Section[T any](name string) (section *T, e *xerr.Error) {
	sectionsMutex.RLock()
	raw, exists := sections[name]
	sectionsMutex.RUnlock()

	if !exists || string(raw) == "null" {
		return nil, e
	}

	section = new(T)
	unmarshalErr := json.Unmarshal(raw, section)
	if unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "decode config section", name)
		return nil, e
	}

	return section, e
}

/*
GetPackageName returns the name of the package that called it, for log lines
like "echomw configuration".
*/
func GetPackageName() string {
	programCounter, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}

	functionName := runtime.FuncForPC(programCounter).Name()
	lastSlash := strings.LastIndex(functionName, "/")
	packageName := functionName[lastSlash+1:]
	if dot := strings.Index(packageName, "."); dot >= 0 {
		packageName = packageName[:dot]
	}
	return packageName
}
