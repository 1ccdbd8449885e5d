package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ImagesDir != "public/images" || cfg.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyreel.yaml")
	data := "images_dir: /srv/fotos\npublic_url: https://example.org/sandra\nprobe_videos: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ImagesDir != "/srv/fotos" {
		t.Errorf("Expected images_dir /srv/fotos, got %s", cfg.ImagesDir)
	}
	if cfg.VideosDir != "public/videos" {
		t.Errorf("Expected default videos_dir to survive, got %s", cfg.VideosDir)
	}
	if !cfg.ProbeVideos {
		t.Error("Expected probe_videos to be true")
	}
	if cfg.PublicURL != "https://example.org/sandra" {
		t.Errorf("Unexpected public_url %s", cfg.PublicURL)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyreel.yaml")
	if err := os.WriteFile(path, []byte("images_dir: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORYREEL_ADDR", "")
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Addr != ":9090" {
		t.Errorf("Expected :9090, got %s", cfg.Addr)
	}

	t.Setenv("STORYREEL_ADDR", "127.0.0.1:7000")
	cfg.ApplyEnv()
	if cfg.Addr != "127.0.0.1:7000" {
		t.Errorf("Expected STORYREEL_ADDR to win, got %s", cfg.Addr)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	cfg := Default()
	cfg.ImagesDir = ""
	cfg.VideosPrefix = "videos"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "images_dir") || !strings.Contains(err.Error(), "videos_prefix") {
		t.Errorf("Expected both problems reported, got: %v", err)
	}
}
