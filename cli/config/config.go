package config

import (
	"fmt"
	"time"
)

// Config represents a pellicle.yaml configuration file.
// All values are optional and act as defaults for pellicle command
// flags. CLI flags always override config values.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Video   VideoConfig   `yaml:"video"`
	Image   ImageConfig   `yaml:"image"`
	Storage StorageConfig `yaml:"storage"`
}

// InputConfig holds dataset input defaults.
type InputConfig struct {
	// Path is an explicit CSV file. Empty means discover the highest
	// numbered part file under Dir.
	Path string `yaml:"path"`
	// Dir is the directory scanned for part files.
	Dir string `yaml:"dir"`
}

// OutputConfig holds artifact output defaults.
type OutputConfig struct {
	// Dir is the directory artifacts are written into.
	Dir string `yaml:"dir"`
	// Sink selects the frame sink: auto, encoder, gif or display.
	Sink string `yaml:"sink"`
}

// VideoConfig holds video-mode defaults.
type VideoConfig struct {
	FPS     int    `yaml:"fps"`
	Bitrate int    `yaml:"bitrate"`
	Codec   string `yaml:"codec"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Workers int    `yaml:"workers"`
	// Encoder is the external encoder binary name.
	Encoder string `yaml:"encoder"`
	// EncoderTimeout bounds one full encoding session. Zero means no
	// limit.
	EncoderTimeout Duration `yaml:"encoder_timeout"`
}

// ImageConfig holds final-state snapshot defaults.
type ImageConfig struct {
	// DPI scales the snapshot resolution.
	DPI int `yaml:"dpi"`
	// Background is the canvas color as a hex string.
	Background string `yaml:"background"`
}

// StorageConfig holds artifact store defaults.
type StorageConfig struct {
	// Backend is "fs" or "s3".
	Backend string `yaml:"backend"`
	// Path is the fs root directory, or "bucket/prefix" for s3.
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
	// Upload enables copying finished artifacts into the store.
	Upload bool `yaml:"upload"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
