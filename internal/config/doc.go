// Package config provides the resolved option set, the dialer interface,
// and YAML settings file loading for the SDK.
package config
