// Package cli implements the storyreel commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/config"
)

// Version is stamped at link time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

var (
	configPath   string
	imagesDir    string
	videosDir    string
	templatePath string
	dataDir      string
	showStats    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "storyreel",
	Short: "Tap-through story reel built from a photo and video folder",
	Long: "storyreel turns a folder of photos and dedication videos plus a narrative template into a\n" +
		"full-screen, auto-advancing story sequence and serves it to the browser.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Config file (YAML); a missing file means defaults")
	RootCmd.PersistentFlags().StringVar(&imagesDir, "images", "", "Images folder (overrides images_dir)")
	RootCmd.PersistentFlags().StringVar(&videosDir, "videos", "", "Videos folder (overrides videos_dir)")
	RootCmd.PersistentFlags().StringVarP(&templatePath, "template", "t", "", "Narrative template (default: newest story in data_dir, else built-in)")
	RootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Folder scanned for the newest template (overrides data_dir)")
	RootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print the performance report after building")
	RootCmd.Version = Version
}

// loadConfig applies, in order: defaults, the config file, the environment,
// then explicit flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if imagesDir != "" {
		cfg.ImagesDir = imagesDir
	}
	if videosDir != "" {
		cfg.VideosDir = videosDir
	}
	if templatePath != "" {
		cfg.TemplatePath = templatePath
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if showStats {
		cfg.ShowStats = true
	}
	cfg.BuildVersion = Version

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
