package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/tracera/tracera-sdk-go/internal/config"
)

// DebugEnvVar enables the core's debug logging when set to "1" or
// "true" (case-insensitive). Read once, at command-build time.
const DebugEnvVar = "TRACERA_DEBUG"

// sdkVersion is advertised to the core via the environment so server
// logs can attribute client generations.
const sdkVersion = "0.1.0"

// BuildArgs constructs the core command arguments. The core is always
// told where to publish its rendezvous address; --debug is added when
// either the option or the environment flag asks for it.
func BuildArgs(portFilename string, options *config.Options) []string {
	args := []string{"--port-filename", portFilename}

	if options.Debug || DebugFromEnv() {
		args = append(args, "--debug")
	}

	return args
}

// DebugFromEnv reports whether the debug environment flag is set.
func DebugFromEnv() bool {
	switch strings.ToLower(os.Getenv(DebugEnvVar)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// BuildEnvironment constructs the environment for the core process.
func BuildEnvironment(options *config.Options) []string {
	// Start with current environment
	env := os.Environ()

	env = append(env, "TRACERA_SDK_VERSION="+sdkVersion)
	env = append(env, "TRACERA_ENTRYPOINT=sdk-go")

	// Add or override with user-provided environment variables
	for key, value := range options.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}
