// Package bootstrap loads the configuration file and hands every package its section.
package bootstrap

import (
	"github.com/tuumbleweed/xerr"

	"finsight/src/pkg/analyzer"
	"finsight/src/pkg/config"
	echomw "finsight/src/pkg/echo-middleware"
	"finsight/src/pkg/web"
)

// Section names in the configuration file.
const (
	SectionEchoMiddleware = "echo_middleware"
	SectionAnalyzer       = "analyzer"
	SectionWeb            = "web"
)

/*
Initialize loads .env, reads the configuration file at configPath and
initializes every package config. Absent sections keep their defaults; a
malformed one stops the program.
*/
func Initialize(configPath string) {
	config.LoadEnvFile()
	config.InitializeConfig(configPath)

	echoSection, e := config.Section[echomw.Config](SectionEchoMiddleware)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
	echomw.InitializeConfig(echoSection)

	analyzerSection, e := config.Section[analyzer.Config](SectionAnalyzer)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
	analyzer.InitializeConfig(analyzerSection)

	webSection, e := config.Section[web.Config](SectionWeb)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
	web.InitializeConfig(webSection)
}
