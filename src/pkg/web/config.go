package web

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"finsight/src/pkg/config"
)

type Config struct {
	// ThumbnailSize is the bounding box of image previews, in pixels.
	ThumbnailSize int    `json:"thumbnail_size,omitempty"`
	ChartJSURL    string `json:"chart_js_url,omitempty"`
	// ExportBaseName prefixes downloaded report files.
	ExportBaseName string `json:"export_base_name,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		ThumbnailSize:  160,
		ChartJSURL:     "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js",
		ExportBaseName: "finsight-report",
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "web", "not provided", "default web config")
		return
	}

	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, DefaultValueConfig(), func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "web", "provided", "local web config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
