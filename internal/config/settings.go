package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the YAML settings file schema. Durations are strings in
// Go duration syntax ("30s", "50ms"). All fields are optional; zero
// values leave the corresponding Options field untouched, so functional
// options applied afterward win.
type Settings struct {
	CorePath      string            `yaml:"core_path"`
	Debug         bool              `yaml:"debug"`
	UseUnixSocket bool              `yaml:"use_unix_socket"`
	LaunchTimeout string            `yaml:"launch_timeout"`
	PollInterval  string            `yaml:"poll_interval"`
	DialTimeout   string            `yaml:"dial_timeout"`
	Env           map[string]string `yaml:"env"`
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings file %q: %w", path, err)
	}

	return &s, nil
}

// Apply copies non-zero settings onto opts.
func (s *Settings) Apply(opts *Options) error {
	if s.CorePath != "" {
		opts.CorePath = s.CorePath
	}

	if s.Debug {
		opts.Debug = true
	}

	if s.UseUnixSocket {
		opts.UseUnixSocket = true
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"launch_timeout", s.LaunchTimeout, &opts.LaunchTimeout},
		{"poll_interval", s.PollInterval, &opts.PollInterval},
		{"dial_timeout", s.DialTimeout, &opts.DialTimeout},
	}

	for _, d := range durations {
		if d.value == "" {
			continue
		}

		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("parse settings %s %q: %w", d.name, d.value, err)
		}

		*d.dst = parsed
	}

	if len(s.Env) > 0 {
		if opts.Env == nil {
			opts.Env = make(map[string]string, len(s.Env))
		}

		for k, v := range s.Env {
			opts.Env[k] = v
		}
	}

	return nil
}
