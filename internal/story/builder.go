package story

import (
	"fmt"

	"github.com/ivlev/storyreel/internal/source"
)

// TemplateSplit is where the synthesized block goes: after the template's
// first four slides (intro, life review, birth, profession). It is positional
// only; nothing checks which slides actually sit there.
const TemplateSplit = 4

const (
	GalleryDuration          = 15000
	GalleryExploreDuration   = 30000
	DedicationsIntroDuration = 8000
)

// Template ids that are always replaced by synthesized slides.
const (
	reservedGalleryID     = "gallery"
	reservedDedicationsID = "dedications"
)

// Build merges the template with discovered content into the played
// sequence. It never fails: a short template just yields a short remainder.
func Build(templates []Slide, content *source.Content) []Slide {
	if content == nil {
		content = &source.Content{}
	}

	base := make([]Slide, 0, len(templates))
	for _, tpl := range templates {
		if tpl.ID == reservedGalleryID || tpl.ID == reservedDedicationsID {
			continue
		}
		if tpl.Type == TypeFastReview {
			tpl.Content.Images = cloneImages(content.Images)
		}
		base = append(base, tpl)
	}

	synthesized := make([]Slide, 0, 3+len(content.Videos))
	synthesized = append(synthesized,
		Slide{
			ID:       "dynamic_gallery",
			Type:     TypeGallery,
			Duration: GalleryDuration,
			Content: Content{
				Title:  "Tesoro Visual",
				Images: cloneImages(content.Images),
			},
		},
		Slide{
			ID:       "gallery_explore",
			Type:     TypeGalleryExplore,
			Duration: GalleryExploreDuration,
			Content: Content{
				Title:  "Galería Interactiva",
				Images: cloneImages(content.Images),
			},
		},
		Slide{
			ID:       "dedications_intro",
			Type:     TypeDedicationsIntro,
			Duration: DedicationsIntroDuration,
			Content:  Content{Title: "Dedicando Amor"},
		},
	)
	for i, v := range content.Videos {
		duration := v.Duration
		if duration <= 0 {
			duration = source.DefaultVideoDuration
		}
		synthesized = append(synthesized, Slide{
			ID:       fmt.Sprintf("dedications_%d", i),
			Type:     TypeDedications,
			Duration: duration,
			Content: Content{
				Title:  "Dedicatorias",
				Videos: []source.VideoAsset{v},
			},
		})
	}

	split := min(TemplateSplit, len(base))
	slides := make([]Slide, 0, len(base)+len(synthesized))
	slides = append(slides, base[:split]...)
	slides = append(slides, synthesized...)
	slides = append(slides, base[split:]...)
	return slides
}

// BuildStory keeps the template's metadata and replaces its slides with the
// built sequence. The template is not modified.
func BuildStory(tpl *Story, content *source.Content) *Story {
	return &Story{
		Meta:   tpl.Meta,
		Slides: Build(tpl.Slides, content),
	}
}

// SurvivingTemplateSlides counts the template slides Build keeps.
func SurvivingTemplateSlides(templates []Slide) int {
	n := 0
	for _, tpl := range templates {
		if tpl.ID != reservedGalleryID && tpl.ID != reservedDedicationsID {
			n++
		}
	}
	return n
}

func cloneImages(images []source.ImageAsset) []source.ImageAsset {
	if images == nil {
		return nil
	}
	out := make([]source.ImageAsset, len(images))
	copy(out, images)
	return out
}
