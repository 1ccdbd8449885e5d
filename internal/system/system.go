package system

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// StoryExtensions are the template document formats FindLatestStory accepts.
var StoryExtensions = []string{".yaml", ".yml", ".json"}

// InitResourceLimits raises the soft open-file limit to want, capped at the
// hard limit. A limit already at or above want is left alone. It returns the
// soft limit in effect afterwards, or 0 when it cannot be read.
func InitResourceLimits(want uint64) uint64 {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read the open file limit: %v", err)
		return 0
	}
	if rLimit.Cur >= want {
		return rLimit.Cur
	}

	rLimit.Cur = min(want, rLimit.Max)
	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise the open file limit to %d: %v", rLimit.Cur, err)
		if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
			return 0
		}
		return rLimit.Cur
	}
	fmt.Printf("[*] Open file limit raised to %d\n", rLimit.Cur)
	return rLimit.Cur
}

// FindLatestStory returns the most recently modified story document in dir.
func FindLatestStory(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), StoryExtensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no story documents found in %s", dir)
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FFProbe reads media durations with the ffprobe binary.
type FFProbe struct {
	// Binary defaults to "ffprobe" from PATH.
	Binary string
}

// Available reports whether the ffprobe binary can be found.
func (p FFProbe) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

func (p FFProbe) binary() string {
	if p.Binary == "" {
		return "ffprobe"
	}
	return p.Binary
}

func (p FFProbe) Probe(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.binary(), "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var seconds float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &seconds)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration: %w", path, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe %s: non-positive duration %.3f", path, seconds)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
