package core

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tracera/tracera-sdk-go/internal/errors"
)

// BinaryName is the core worker executable searched for in PATH and
// common installation directories.
const BinaryName = "tracera-core"

// PathEnvVar overrides binary discovery with an explicit path. It is
// read once, at discovery time.
const PathEnvVar = "TRACERA_CORE_PATH"

// Config holds configuration for core binary discovery.
type Config struct {
	// CorePath is an explicit binary path that skips all searching.
	CorePath string

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the core worker binary.
type Discoverer interface {
	// Discover returns the path to the core binary or CoreNotFoundError.
	Discover() (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new core binary discoverer.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the core binary. Search order: explicit configured
// path, TRACERA_CORE_PATH, PATH, then common installation directories.
func (d *discoverer) Discover() (string, error) {
	// If explicit path provided, use it and only it
	if d.cfg.CorePath != "" {
		d.log.Debug("Using explicit core path", "core_path", d.cfg.CorePath)

		if _, err := os.Stat(d.cfg.CorePath); err == nil {
			return d.cfg.CorePath, nil
		}

		d.log.Debug("Explicit core path not found", "core_path", d.cfg.CorePath)

		return "", &errors.CoreNotFoundError{SearchedPaths: []string{d.cfg.CorePath}}
	}

	// Environment override behaves like an explicit path
	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		d.log.Debug("Using core path from environment", "core_path", envPath)

		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}

		return "", &errors.CoreNotFoundError{SearchedPaths: []string{envPath}}
	}

	searchedPaths := make([]string, 0, 4)

	d.log.Debug("Searching for core binary in PATH", "binary", BinaryName)

	if path, err := exec.LookPath(BinaryName); err == nil {
		d.log.Debug("Found core binary in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	commonPaths := []string{
		filepath.Join("/usr/local/bin", BinaryName),
		filepath.Join("/usr/bin", BinaryName),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".local/bin", BinaryName))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)
		d.log.Debug("Checking common path", "path", path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found core binary at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("Core binary not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.CoreNotFoundError{SearchedPaths: searchedPaths}
}
