// Package config - YAML configuration for the speedcam driver.
//
// Example:
//
//	pipeline:
//	  motion:
//	    difference_threshold: 130
//	  region:
//	    small_area_threshold: 50
//	    simplification_ratio: 0.02
//	  speed:
//	    reference_distance: 1.0
//	source:
//	  device: 1
//	display:
//	  window: true
//	  wait_ms: 10
//	snapshot:
//	  dir: snapshots
//	  key: s
//	log:
//	  level: info
//	profile:
//	  report_interval: 2s
package config

import (
	"os"
	"time"

	"github.com/nvr-ai/go-speed/images"
	"github.com/nvr-ai/go-speed/pipeline"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Source selects where frames come from. At most one of VideoPath and
// FramesDir may be set; with neither, Device is opened.
type Source struct {
	Device    int    `yaml:"device"`
	VideoPath string `yaml:"video"`
	FramesDir string `yaml:"frames_dir"`
	// Loop restarts a frames directory from the first frame when it ends.
	Loop bool `yaml:"loop"`
}

// Display configures the preview window.
type Display struct {
	Window bool   `yaml:"window"`
	Title  string `yaml:"title"`
	// WaitMs is the delay between frames: the key poll timeout with a window,
	// a plain pause without one. Keys, including the snapshot key, need a window.
	WaitMs int `yaml:"wait_ms"`
}

// Snapshot configures the raw-frame snapshot writer.
type Snapshot struct {
	Dir    string             `yaml:"dir"`
	Format images.ImageFormat `yaml:"format"`
	// Key is the window key that triggers a snapshot.
	Key string `yaml:"key"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Profile configures periodic timing reports.
type Profile struct {
	ReportInterval time.Duration `yaml:"report_interval"`
	MaxSamples     int           `yaml:"max_samples"`
}

// Config is the complete driver configuration.
type Config struct {
	Pipeline pipeline.Config `yaml:"pipeline"`
	Source   Source          `yaml:"source"`
	Display  Display         `yaml:"display"`
	Snapshot Snapshot        `yaml:"snapshot"`
	Log      Log             `yaml:"log"`
	Profile  Profile         `yaml:"profile"`
}

// Default returns the driver defaults.
func Default() Config {
	return Config{
		Pipeline: pipeline.DefaultConfig(),
		Source:   Source{Device: 0},
		Display:  Display{Title: "Camera App", WaitMs: 10},
		Snapshot: Snapshot{Dir: ".", Format: images.FormatPNG, Key: "s"},
		Log:      Log{Level: "info"},
		Profile:  Profile{ReportInterval: 2 * time.Second, MaxSamples: 600},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
//
// Arguments:
// - path: Path to the YAML file.
//
// Returns:
// - Config: The merged configuration.
// - error: An error if the file cannot be read, parsed or validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the pipeline and driver settings.
func (c Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if c.Source.VideoPath != "" && c.Source.FramesDir != "" {
		return errors.New("source: video and frames_dir are mutually exclusive")
	}
	if c.Source.Loop && c.Source.FramesDir == "" {
		return errors.New("source: loop requires frames_dir")
	}
	if c.Source.Device < 0 {
		return errors.Errorf("source: invalid device %d", c.Source.Device)
	}
	if c.Display.WaitMs < 0 {
		return errors.Errorf("display: negative wait_ms %d", c.Display.WaitMs)
	}
	switch c.Snapshot.Format {
	case "", images.FormatPNG, images.FormatJPEG:
	default:
		return errors.Errorf("snapshot: unsupported format %q", c.Snapshot.Format)
	}
	if len(c.Snapshot.Key) > 1 {
		return errors.Errorf("snapshot: key must be a single character, got %q", c.Snapshot.Key)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log")
	}
	return nil
}

// Logger builds a zap logger from the Log section.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
