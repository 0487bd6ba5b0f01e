package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// EnvFile is read, when present, before environment variables are checked.
var EnvFile = ".env"

/*
LoadEnvFile loads variables from EnvFile without overriding ones already set
in the process environment.
*/
func LoadEnvFile() {
	_, statErr := os.Stat(EnvFile)
	if statErr != nil {
		return
	}

	loadErr := godotenv.Load(EnvFile)
	if loadErr != nil {
		tl.Log(tl.Warning, palette.Yellow, "Unable to load '%s': %s", EnvFile, loadErr)
		return
	}
	tl.Log(tl.Info, palette.Green, "Loaded environment from '%s'", EnvFile)
}

// MissingEnvVars returns the names that are unset or blank.
func MissingEnvVars(names ...string) []string {
	missing := make([]string, 0)
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

/*
CheckIfEnvVarsPresent loads EnvFile and exits when any of names is still
unset afterwards.
*/
func CheckIfEnvVarsPresent(names ...string) {
	LoadEnvFile()

	missing := MissingEnvVars(names...)
	for _, name := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s environment variable is %s", name, "required")
	}
	if len(missing) > 0 {
		xerr.QuitIfError(fmt.Errorf("missing environment variables %s", describe(missing)), "check environment variables")
	}
}

// describe is used in error context when a required variable is missing.
func describe(names []string) string {
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}
