package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultCaption       = "Un recuerdo especial"
	DefaultMessage       = "Una dedicatoria de corazón"
	DefaultVideoDuration = 15000 // ms
)

var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
	VideoExtensions = []string{".mp4", ".webm", ".mov"}
)

// ErrNoContent is returned when an asset root cannot be listed.
var ErrNoContent = errors.New("no content")

type ImageAsset struct {
	Src     string `yaml:"src" json:"src"`
	Caption string `yaml:"caption" json:"caption"`
	Width   int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height  int    `yaml:"height,omitempty" json:"height,omitempty"`
}

type VideoAsset struct {
	URL       string `yaml:"url" json:"url"`
	Author    string `yaml:"author" json:"author"`
	Message   string `yaml:"message,omitempty" json:"message,omitempty"`
	Thumbnail string `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Duration  int    `yaml:"duration,omitempty" json:"duration,omitempty"` // ms, 0 means unset
}

// Content is everything discovered from the two asset roots.
type Content struct {
	Images []ImageAsset
	Videos []VideoAsset
}

// DurationProber reports the real playback length of a media file.
type DurationProber interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

// Assembler turns two media directories into ordered asset records.
type Assembler struct {
	ImagesDir    string
	VideosDir    string
	ImagesPrefix string
	VideosPrefix string

	// Prober is optional. When set, video durations are replaced by the
	// probed length; a failed probe keeps DefaultVideoDuration.
	Prober       DurationProber
	ProbeWorkers int
}

func NewAssembler(imagesDir, videosDir string) *Assembler {
	return &Assembler{
		ImagesDir:    imagesDir,
		VideosDir:    videosDir,
		ImagesPrefix: "/images",
		VideosPrefix: "/videos",
		ProbeWorkers: 4,
	}
}

// Assemble lists both roots concurrently. Either root failing fails the whole
// call; no partial content is returned.
func (a *Assembler) Assemble(ctx context.Context) (*Content, error) {
	var content Content

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		images, err := ListImages(a.ImagesDir, a.ImagesPrefix)
		if err != nil {
			return err
		}
		content.Images = images
		return nil
	})
	g.Go(func() error {
		videos, err := ListVideos(a.VideosDir, a.VideosPrefix)
		if err != nil {
			return err
		}
		if a.Prober != nil {
			a.probeVideos(gctx, videos)
		}
		content.Videos = videos
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &content, nil
}

func (a *Assembler) probeVideos(ctx context.Context, videos []VideoAsset) {
	workers := a.ProbeWorkers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range videos {
		g.Go(func() error {
			name, err := url.PathUnescape(path.Base(videos[i].URL))
			if err != nil {
				return nil
			}
			d, err := a.Prober.Probe(gctx, filepath.Join(a.VideosDir, name))
			if err != nil || d <= 0 {
				return nil
			}
			videos[i].Duration = int(d.Milliseconds())
			return nil
		})
	}
	_ = g.Wait()
}

// ListImages returns one ImageAsset per image file in dir, in directory order.
func ListImages(dir, prefix string) ([]ImageAsset, error) {
	names, err := listFiles(dir, ImageExtensions)
	if err != nil {
		return nil, err
	}

	images := make([]ImageAsset, 0, len(names))
	for _, name := range names {
		img := ImageAsset{
			Src:     publicPath(prefix, name),
			Caption: DefaultCaption,
		}
		img.Width, img.Height = imageSize(filepath.Join(dir, name))
		images = append(images, img)
	}
	return images, nil
}

// ListVideos returns one VideoAsset per video file in dir, in directory order.
func ListVideos(dir, prefix string) ([]VideoAsset, error) {
	names, err := listFiles(dir, VideoExtensions)
	if err != nil {
		return nil, err
	}

	videos := make([]VideoAsset, 0, len(names))
	for _, name := range names {
		videos = append(videos, VideoAsset{
			URL:      publicPath(prefix, name),
			Author:   AuthorFromFilename(name),
			Message:  DefaultMessage,
			Duration: DefaultVideoDuration,
		})
	}
	return videos, nil
}

// publicPath is the URL path of a file served under prefix. The name is
// escaped so characters like '#' or '?' stay part of the path.
func publicPath(prefix, name string) string {
	return path.Join(prefix, url.PathEscape(name))
}

// AuthorFromFilename turns "Tia_Maria.mp4" into "Tia Maria".
func AuthorFromFilename(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func listFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrNoContent, dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasExtension(entry.Name(), extensions) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
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
