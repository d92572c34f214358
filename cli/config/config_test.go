package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pellicle.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `input:
  path: data/simulation_output_part_009.csv
  dir: ./input

output:
  dir: ./output
  sink: auto

video:
  fps: 60
  bitrate: 1800
  codec: libx264
  width: 1280
  height: 960
  workers: 4
  encoder: pellicle-encode
  encoder_timeout: 5m

image:
  dpi: 300
  background: "#ffffff"

storage:
  backend: s3
  path: my-bucket/prefix
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true
  upload: true
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "input.path", cfg.Input.Path, "data/simulation_output_part_009.csv")
	assertEqual(t, "input.dir", cfg.Input.Dir, "./input")
	assertEqual(t, "output.dir", cfg.Output.Dir, "./output")
	assertEqual(t, "output.sink", cfg.Output.Sink, "auto")

	if cfg.Video.FPS != 60 {
		t.Errorf("video.fps = %d, want 60", cfg.Video.FPS)
	}
	if cfg.Video.Bitrate != 1800 {
		t.Errorf("video.bitrate = %d, want 1800", cfg.Video.Bitrate)
	}
	assertEqual(t, "video.codec", cfg.Video.Codec, "libx264")
	if cfg.Video.Width != 1280 || cfg.Video.Height != 960 {
		t.Errorf("video resolution = %dx%d, want 1280x960", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.Workers != 4 {
		t.Errorf("video.workers = %d, want 4", cfg.Video.Workers)
	}
	assertEqual(t, "video.encoder", cfg.Video.Encoder, "pellicle-encode")
	if cfg.Video.EncoderTimeout.Minutes() != 5 {
		t.Errorf("video.encoder_timeout = %v, want 5m", cfg.Video.EncoderTimeout.Duration)
	}

	if cfg.Image.DPI != 300 {
		t.Errorf("image.dpi = %d, want 300", cfg.Image.DPI)
	}
	assertEqual(t, "image.background", cfg.Image.Background, "#ffffff")

	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "my-bucket/prefix")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}
	if !cfg.Storage.Upload {
		t.Error("expected storage.upload=true")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Input.Path != "" || cfg.Output.Sink != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/pellicle.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %v should mention not found", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("PELLICLE_BUCKET", "artifacts-prod")

	yaml := `storage:
  backend: s3
  path: ${PELLICLE_BUCKET}/renders
  region: ${PELLICLE_REGION:-us-west-2}
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "storage.path", cfg.Storage.Path, "artifacts-prod/renders")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-west-2")
}

func TestDuration_Unmarshal(t *testing.T) {
	yaml := `video:
  encoder_timeout: 90s
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Video.EncoderTimeout.Seconds() != 90 {
		t.Errorf("encoder_timeout = %v, want 90s", cfg.Video.EncoderTimeout.Duration)
	}
}

func TestDuration_Invalid(t *testing.T) {
	yaml := `video:
  encoder_timeout: not-a-duration
`
	path := writeTemp(t, yaml)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
