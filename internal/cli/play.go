package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/engine"
	"github.com/ivlev/storyreel/internal/playback"
	"github.com/ivlev/storyreel/internal/story"
)

func init() {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the story in the terminal",
		Long: "Plays the built story headless. Commands on stdin: n (next), p (prev),\n" +
			"t or space (pause/resume), r (restart), a slide number (jump), q (quit).",
		Run: runPlay,
	}

	cmd.Flags().Float64("speed", 1, "Playback speed multiplier")

	RootCmd.AddCommand(cmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	speed, _ := cmd.Flags().GetFloat64("speed")
	if speed <= 0 {
		exitErr("play", fmt.Errorf("speed must be positive, got %v", speed))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	st, _, err := engine.NewProject(cfg).Run(cmd.Context())
	if err != nil {
		exitErr("build", err)
	}

	changes := make(chan playback.Snapshot, 16)
	c, err := playback.New(scaleDurations(st.Slides, speed), playback.WithObserver(func(s playback.Snapshot) {
		changes <- s
	}))
	if err != nil {
		exitErr("play", err)
	}
	defer c.Close()

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	c.Start()
	for {
		select {
		case <-cmd.Context().Done():
			return
		case s := <-changes:
			printSnapshot(st, s)
			if s.State == playback.Ended {
				fmt.Println("[+++] End of story")
				return
			}
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if quit := playCommand(c, line); quit {
				return
			}
		}
	}
}

// playCommand applies one stdin command and reports whether to quit.
func playCommand(c *playback.Controller, line string) bool {
	cmd := strings.TrimSpace(strings.ToLower(line))
	var err error
	switch cmd {
	case "q", "quit":
		return true
	case "n", "next":
		err = c.Apply(playback.ActionNext)
	case "p", "prev":
		err = c.Apply(playback.ActionPrev)
	case "t", "", "space", "toggle":
		err = c.Apply(playback.ActionToggle)
	case "r", "restart":
		err = c.Apply(playback.ActionRestart)
	default:
		n, convErr := strconv.Atoi(cmd)
		if convErr != nil {
			fmt.Printf("[!] Unknown command %q\n", cmd)
			return false
		}
		err = c.JumpTo(n - 1)
	}
	if err != nil {
		fmt.Printf("[!] %v\n", err)
	}
	return false
}

func printSnapshot(st *story.Story, s playback.Snapshot) {
	sl := st.Slides[s.Index]
	line := fmt.Sprintf("[>] %d/%d %-18s %-17s %5.1fs  %s", s.Index+1, s.Total, sl.ID, sl.Type,
		float64(sl.Duration)/1000, s.State)
	if s.NextID != "" {
		line += "  next: " + s.NextID
	}
	fmt.Println(line)
}

// scaleDurations returns a copy of slides played speed times faster.
func scaleDurations(slides []story.Slide, speed float64) []story.Slide {
	out := make([]story.Slide, len(slides))
	copy(out, slides)
	if speed == 1 {
		return out
	}
	for i := range out {
		out[i].Duration = max(int(float64(out[i].Duration)/speed), 1)
	}
	return out
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out <- sc.Text()
	}
}
