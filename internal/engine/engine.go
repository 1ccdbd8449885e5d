package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ivlev/storyreel/internal/config"
	"github.com/ivlev/storyreel/internal/source"
	"github.com/ivlev/storyreel/internal/story"
	"github.com/ivlev/storyreel/internal/system"
)

// EmbeddedTemplate names the built-in template in reports.
const EmbeddedTemplate = "(embedded default)"

// Project turns the configured asset folders and template into a story.
type Project struct {
	Config    *config.Config
	Assembler *source.Assembler
	Out       io.Writer
}

// Report summarizes one build.
type Report struct {
	Template       string
	TemplateSlides int
	Images         int
	Videos         int
	Slides         int
	Duration       time.Duration // sum of slide durations

	DiscoveryTime time.Duration
	BuildTime     time.Duration
	TotalTime     time.Duration
}

func NewProject(cfg *config.Config) *Project {
	asm := source.NewAssembler(cfg.ImagesDir, cfg.VideosDir)
	asm.ImagesPrefix = cfg.ImagesPrefix
	asm.VideosPrefix = cfg.VideosPrefix

	if cfg.ProbeVideos {
		probe := system.FFProbe{}
		if probe.Available() {
			asm.Prober = probe
		} else {
			log.Printf("[!] ffprobe not found in PATH, videos keep %dms", source.DefaultVideoDuration)
		}
	}

	return &Project{
		Config:    cfg,
		Assembler: asm,
		Out:       os.Stdout,
	}
}

// Run resolves the template, discovers content and builds the validated story.
// A discovery failure is returned unwrapped from source so callers can test
// for source.ErrNoContent.
func (p *Project) Run(ctx context.Context) (*story.Story, *Report, error) {
	startTime := time.Now()
	report := &Report{}

	tpl, from, err := p.LoadTemplate()
	if err != nil {
		return nil, nil, err
	}
	report.Template = from
	report.TemplateSlides = len(tpl.Slides)

	if n := story.SurvivingTemplateSlides(tpl.Slides); n < story.TemplateSplit {
		log.Printf("[!] Template %s has only %d slides before the split point %d; the synthesized block goes last", from, n, story.TemplateSplit)
	}

	discoveryStart := time.Now()
	content, err := p.Assembler.Assemble(ctx)
	if err != nil {
		return nil, nil, err
	}
	report.DiscoveryTime = time.Since(discoveryStart)
	report.Images = len(content.Images)
	report.Videos = len(content.Videos)

	buildStart := time.Now()
	st := story.BuildStory(tpl, content)
	if err := st.Validate(); err != nil {
		return nil, nil, fmt.Errorf("built story is invalid: %w", err)
	}
	report.BuildTime = time.Since(buildStart)
	report.Slides = len(st.Slides)
	for _, s := range st.Slides {
		report.Duration += time.Duration(s.Duration) * time.Millisecond
	}
	report.TotalTime = time.Since(startTime)

	fmt.Fprintf(p.out(), "[+++] Story ready: %d slides, %d images, %d videos (%s)\n",
		report.Slides, report.Images, report.Videos, report.Duration.Round(time.Second))

	if p.Config.ShowStats {
		p.printStats(report)
	}

	return st, report, nil
}

// LoadTemplate returns the template and where it came from: the configured
// path, else the newest story document in DataDir, else the embedded default.
func (p *Project) LoadTemplate() (*story.Story, string, error) {
	if p.Config.TemplatePath != "" {
		tpl, err := story.ReadStory(p.Config.TemplatePath)
		if err != nil {
			return nil, "", fmt.Errorf("template: %w", err)
		}
		fmt.Fprintf(p.out(), "[*] Using template: %s\n", p.Config.TemplatePath)
		return tpl, p.Config.TemplatePath, nil
	}

	if p.Config.DataDir != "" {
		latest, err := system.FindLatestStory(p.Config.DataDir)
		if err == nil {
			tpl, err := story.ReadStory(latest)
			if err != nil {
				return nil, "", fmt.Errorf("template: %w", err)
			}
			fmt.Fprintf(p.out(), "[*] Using latest template: %s\n", latest)
			return tpl, latest, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(p.out(), "[*] %v, using the embedded template\n", err)
		}
	}

	tpl, err := story.DefaultTemplate()
	if err != nil {
		return nil, "", err
	}
	return tpl, EmbeddedTemplate, nil
}

func (p *Project) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}

func (p *Project) printStats(r *Report) {
	host := system.ReadHostStats()
	fmt.Fprintf(p.out(),
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Template: %s (%d slides)\n"+
			"Total Time: %.3fs\n"+
			"Discovery: %.3fs\n"+
			"Story Assembly: %.3fs\n"+
			"Playback Length: %.1fs\n"+
			"Process RSS: %.1f MB\n"+
			"----------------------------\n",
		p.Config.BuildVersion, r.Template, r.TemplateSlides,
		r.TotalTime.Seconds(), r.DiscoveryTime.Seconds(), r.BuildTime.Seconds(),
		r.Duration.Seconds(), host.ProcessRSSMB,
	)
}
