// Package config defines process configuration and its loading.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env on top.
// - Validation errors wrap ErrInvalidConfig, load failures wrap ErrLoadConfig.
package config

// Run modes.
const (
	ModeServe = "serve"
	ModeSave  = "save"
)

// Config contains process configuration. The chart data and styling are fixed;
// only where and how the chart is delivered can be configured.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Mode is "serve" (HTTP, view in a browser) or "save" (write Output and exit).
	Mode string `koanf:"mode"`

	// Addr configures the HTTP listen address in serve mode.
	Addr string `koanf:"addr"`

	// Output is the file written in save mode.
	Output string `koanf:"output"`

	// Format is png or svg; empty infers it from Output's extension.
	Format string `koanf:"format"`

	// Width and Height are the canvas size in pixels.
	Width  int `koanf:"width"`
	Height int `koanf:"height"`

	// DPI scales point sizes (fonts, line widths) to pixels.
	DPI float64 `koanf:"dpi"`
}

// New creates a Config with defaults: an 8x8 inch figure at 100 DPI served on
// localhost.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Mode:     ModeServe,
		Addr:     "127.0.0.1:9080",
		Output:   "radar_chart.png",
		Format:   "",
		Width:    800,
		Height:   800,
		DPI:      100,
	}
}
