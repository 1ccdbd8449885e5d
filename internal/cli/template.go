package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/story"
)

func init() {
	cmd := &cobra.Command{
		Use:   "template [path]",
		Short: "Write the built-in narrative template for editing",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTemplate,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")

	RootCmd.AddCommand(cmd)
}

func runTemplate(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		fmt.Print(string(story.DefaultTemplateBytes()))
		return
	}

	force, _ := cmd.Flags().GetBool("force")
	path := args[0]
	if _, err := os.Stat(path); err == nil && !force {
		exitErr("template", fmt.Errorf("%s exists, pass --force to overwrite", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		exitErr("template", err)
	}

	if err := os.WriteFile(path, story.DefaultTemplateBytes(), 0644); err != nil {
		exitErr("template", err)
	}
	fmt.Printf("[+++] Template written: %s\n", path)
}
