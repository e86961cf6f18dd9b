package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracera/tracera-sdk-go/internal/config"
	"github.com/tracera/tracera-sdk-go/internal/errors"
)

// writeFakeCore drops an executable stub into dir and returns its path.
func writeFakeCore(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, BinaryName)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	return path
}

// TestDiscoverer_ExplicitPath tests discovery with an explicit binary path.
func TestDiscoverer_ExplicitPath(t *testing.T) {
	fakeCore := writeFakeCore(t, t.TempDir())

	discoverer := NewDiscoverer(&Config{CorePath: fakeCore})

	path, err := discoverer.Discover()
	require.NoError(t, err)
	require.Equal(t, fakeCore, path)
}

// TestDiscoverer_ExplicitPathMissing tests that a bad explicit path fails
// without falling back to other search locations.
func TestDiscoverer_ExplicitPathMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", BinaryName)

	discoverer := NewDiscoverer(&Config{CorePath: missing})

	_, err := discoverer.Discover()
	require.Error(t, err)

	var notFound *errors.CoreNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, []string{missing}, notFound.SearchedPaths)
}

// TestDiscoverer_EnvOverride tests that TRACERA_CORE_PATH is honored when
// no explicit path is configured.
func TestDiscoverer_EnvOverride(t *testing.T) {
	fakeCore := writeFakeCore(t, t.TempDir())
	t.Setenv(PathEnvVar, fakeCore)

	discoverer := NewDiscoverer(&Config{})

	path, err := discoverer.Discover()
	require.NoError(t, err)
	require.Equal(t, fakeCore, path)
}

// TestDiscoverer_ExplicitBeatsEnv tests that a configured path wins over
// the environment override.
func TestDiscoverer_ExplicitBeatsEnv(t *testing.T) {
	explicit := writeFakeCore(t, t.TempDir())
	fromEnv := writeFakeCore(t, t.TempDir())
	t.Setenv(PathEnvVar, fromEnv)

	discoverer := NewDiscoverer(&Config{CorePath: explicit})

	path, err := discoverer.Discover()
	require.NoError(t, err)
	require.Equal(t, explicit, path)
}

// TestDiscoverer_PathSearch tests discovery through PATH.
func TestDiscoverer_PathSearch(t *testing.T) {
	dir := t.TempDir()
	fakeCore := writeFakeCore(t, dir)
	t.Setenv(PathEnvVar, "")
	t.Setenv("PATH", dir)

	discoverer := NewDiscoverer(&Config{})

	path, err := discoverer.Discover()
	require.NoError(t, err)
	require.Equal(t, fakeCore, path)
}

// TestBuildArgs_Basic tests the minimal invocation contract.
func TestBuildArgs_Basic(t *testing.T) {
	t.Setenv(DebugEnvVar, "")

	args := BuildArgs("/tmp/port123", &config.Options{})

	require.Equal(t, []string{"--port-filename", "/tmp/port123"}, args)
}

// TestBuildArgs_DebugOption tests that the Debug option adds --debug.
func TestBuildArgs_DebugOption(t *testing.T) {
	t.Setenv(DebugEnvVar, "")

	args := BuildArgs("/tmp/port123", &config.Options{Debug: true})

	require.Contains(t, args, "--debug")
}

// TestBuildArgs_DebugEnv tests the environment flag spellings.
func TestBuildArgs_DebugEnv(t *testing.T) {
	for _, value := range []string{"1", "true", "TRUE", "True"} {
		t.Setenv(DebugEnvVar, value)
		require.Contains(t, BuildArgs("/tmp/p", &config.Options{}), "--debug", "value %q", value)
	}

	for _, value := range []string{"", "0", "false", "yes"} {
		t.Setenv(DebugEnvVar, value)
		require.NotContains(t, BuildArgs("/tmp/p", &config.Options{}), "--debug", "value %q", value)
	}
}

// TestBuildEnvironment_MergesUserEnv tests that user variables are appended
// after the inherited environment so they take precedence.
func TestBuildEnvironment_MergesUserEnv(t *testing.T) {
	env := BuildEnvironment(&config.Options{
		Env: map[string]string{"TRACERA_API_KEY": "secret"},
	})

	require.Contains(t, env, "TRACERA_API_KEY=secret")
	require.Contains(t, env, "TRACERA_ENTRYPOINT=sdk-go")
}
