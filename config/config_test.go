package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvr-ai/go-speed/images"
	"github.com/nvr-ai/go-speed/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "speedcam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, pipeline.DefaultConfig(), cfg.Pipeline)
	assert.Equal(t, 10, cfg.Display.WaitMs)
	assert.Equal(t, "s", cfg.Snapshot.Key)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  motion:
    difference_threshold: 90
  speed:
    reference_distance: 2.5
source:
  frames_dir: /tmp/frames
snapshot:
  format: jpeg
log:
  level: debug
profile:
  report_interval: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Pipeline.Motion.DifferenceThreshold)
	assert.Equal(t, 2.5, cfg.Pipeline.Speed.ReferenceDistance)
	// Untouched keys keep defaults.
	assert.Equal(t, 50.0, cfg.Pipeline.Region.SmallAreaThreshold)
	assert.Equal(t, 0.02, cfg.Pipeline.Region.SimplificationRatio)
	assert.Equal(t, "/tmp/frames", cfg.Source.FramesDir)
	assert.Equal(t, images.FormatJPEG, cfg.Snapshot.Format)
	assert.Equal(t, 5*time.Second, cfg.Profile.ReportInterval)
	assert.Equal(t, 10, cfg.Display.WaitMs)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "pipeline: [\n"},
		{name: "threshold out of range", body: "pipeline:\n  motion:\n    difference_threshold: 300\n"},
		{name: "zero reference distance", body: "pipeline:\n  speed:\n    reference_distance: 0\n"},
		{name: "two sources", body: "source:\n  video: a.mp4\n  frames_dir: frames\n"},
		{name: "bad format", body: "snapshot:\n  format: gif\n"},
		{name: "bad key", body: "snapshot:\n  key: snap\n"},
		{name: "bad log level", body: "log:\n  level: loud\n"},
		{name: "loop without frames dir", body: "source:\n  loop: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
