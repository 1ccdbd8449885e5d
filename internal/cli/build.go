package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/storyreel/internal/engine"
	"github.com/ivlev/storyreel/internal/story"
)

func init() {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the story once and print or save it",
		Run:   runBuild,
	}

	cmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().Bool("probe-videos", false, "Read real video lengths with ffprobe")

	RootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	probe, _ := cmd.Flags().GetBool("probe-videos")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	cfg.ProbeVideos = cfg.ProbeVideos || probe

	project := engine.NewProject(cfg)
	project.Out = os.Stderr
	st, _, err := project.Run(cmd.Context())
	if err != nil {
		exitErr("build", err)
	}

	if output == "" {
		data, err := encodeStory(st, format)
		if err != nil {
			exitErr("encode", err)
		}
		fmt.Print(string(data))
		return
	}
	if err := saveStory(st, format, output); err != nil {
		exitErr("write", err)
	}
	fmt.Fprintf(os.Stderr, "[+++] Story saved: %s\n", output)
}

// saveStory writes st to path. YAML goes through story.WriteStory, the same
// format story.ReadStory loads back as a template.
func saveStory(st *story.Story, format, path string) error {
	if format == "yaml" || format == "yml" {
		return story.WriteStory(st, path)
	}
	data, err := encodeStory(st, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func encodeStory(st *story.Story, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(st)
	case "json":
		b, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
