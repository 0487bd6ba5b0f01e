package util

import (
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

type requiredFlag struct {
	pointer *string
	cliName string
}

// Kept in registration order so missing flags are reported predictably.
var requiredFlags []requiredFlag

// RequiredFlag(senderPtr, "--sender"), can also use -sender and sender
func RequiredFlag(flagPointer *string, cliName string) {
	requiredFlags = append(requiredFlags, requiredFlag{pointer: flagPointer, cliName: normalizeFlagName(cliName)})
}

func normalizeFlagName(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case strings.HasPrefix(name, "--"):
		return name
	case strings.HasPrefix(name, "-"):
		return "-" + name
	default:
		return "--" + name
	}
}

// MissingFlags lists the required flags that are still blank.
func MissingFlags() []string {
	missing := make([]string, 0)
	for _, flag := range requiredFlags {
		if flag.pointer == nil || strings.TrimSpace(*flag.pointer) == "" {
			missing = append(missing, flag.cliName)
		}
	}
	return missing
}

// EnsureFlags logs every missing required flag and exits(1) if any were missing.
func EnsureFlags() {
	missing := MissingFlags()
	for _, cliName := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
	}
	if len(missing) > 0 {
		os.Exit(1)
	}
}
