package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "storyreel.yaml"

type Config struct {
	ImagesDir    string `yaml:"images_dir"`
	VideosDir    string `yaml:"videos_dir"`
	ImagesPrefix string `yaml:"images_prefix"`
	VideosPrefix string `yaml:"videos_prefix"`
	TemplatePath string `yaml:"template"`
	DataDir      string `yaml:"data_dir"`
	Addr         string `yaml:"addr"`
	PublicURL    string `yaml:"public_url"`
	ProbeVideos  bool   `yaml:"probe_videos"`
	ShowStats    bool   `yaml:"show_stats"`
	BuildVersion string `yaml:"-"`
}

// Default is the usual content layout: public/images,
// public/videos and a data directory holding the narrative template.
func Default() *Config {
	return &Config{
		ImagesDir:    "public/images",
		VideosDir:    "public/videos",
		ImagesPrefix: "/images",
		VideosPrefix: "/videos",
		DataDir:      "data",
		Addr:         ":8080",
		BuildVersion: "dev",
	}
}

// Load reads a YAML config file on top of Default. A missing file is not an
// error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides the listen address from PORT or STORYREEL_ADDR.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if addr := os.Getenv("STORYREEL_ADDR"); addr != "" {
		c.Addr = addr
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.ImagesDir == "" {
		errs = append(errs, errors.New("images_dir is required"))
	}
	if c.VideosDir == "" {
		errs = append(errs, errors.New("videos_dir is required"))
	}
	if !strings.HasPrefix(c.ImagesPrefix, "/") {
		errs = append(errs, fmt.Errorf("images_prefix must start with '/', got %q", c.ImagesPrefix))
	}
	if !strings.HasPrefix(c.VideosPrefix, "/") {
		errs = append(errs, fmt.Errorf("videos_prefix must start with '/', got %q", c.VideosPrefix))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	return errors.Join(errs...)
}
