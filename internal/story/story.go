package story

import (
	"errors"
	"fmt"

	"github.com/ivlev/storyreel/internal/source"
)

type SlideType string

const (
	TypeIntro            SlideType = "intro"
	TypeBio              SlideType = "bio"
	TypeStats            SlideType = "stats"
	TypeGallery          SlideType = "gallery"
	TypeGalleryExplore   SlideType = "gallery_explore"
	TypeTimeline         SlideType = "timeline"
	TypeOutro            SlideType = "outro"
	TypeFastReview       SlideType = "fast_review"
	TypeDedications      SlideType = "dedications"
	TypeDedicationsIntro SlideType = "dedications_intro"
)

// SlideTypes lists every type a renderer exists for.
var SlideTypes = []SlideType{
	TypeIntro, TypeBio, TypeStats, TypeGallery, TypeGalleryExplore,
	TypeTimeline, TypeOutro, TypeFastReview, TypeDedications, TypeDedicationsIntro,
}

func (t SlideType) Valid() bool {
	for _, known := range SlideTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Story is the narrative document: metadata plus the ordered slides.
type Story struct {
	Meta   Meta    `yaml:"meta" json:"meta"`
	Slides []Slide `yaml:"slides" json:"slides"`
}

type Meta struct {
	Title       string `yaml:"title" json:"title"`
	Beneficiary string `yaml:"beneficiary" json:"beneficiary"`
	Occasion    string `yaml:"occasion" json:"occasion"`
	Date        string `yaml:"date" json:"date"`
	Theme       Theme  `yaml:"theme" json:"theme"`
}

type Theme struct {
	Primary    string `yaml:"primary" json:"primary"`
	Secondary  string `yaml:"secondary" json:"secondary"`
	Background string `yaml:"background" json:"background"`
	Text       string `yaml:"text" json:"text"`
}

// Slide is one full-screen timed unit. Template slides and built slides share
// this shape; built slides may carry discovered assets in Content.
type Slide struct {
	ID       string            `yaml:"id" json:"id"`
	Type     SlideType         `yaml:"type" json:"type"`
	Duration int               `yaml:"duration" json:"duration"` // ms
	Content  Content           `yaml:"content" json:"content"`
	Style    map[string]string `yaml:"style,omitempty" json:"style,omitempty"`
}

type Content struct {
	Title       string              `yaml:"title,omitempty" json:"title,omitempty"`
	Subtitle    string              `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Highlight   string              `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	Date        string              `yaml:"date,omitempty" json:"date,omitempty"`
	Location    string              `yaml:"location,omitempty" json:"location,omitempty"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	People      []string            `yaml:"people,omitempty" json:"people,omitempty"`
	Icon        string              `yaml:"icon,omitempty" json:"icon,omitempty"`
	Stats       []Stat              `yaml:"stats,omitempty" json:"stats,omitempty"`
	CTA         string              `yaml:"cta,omitempty" json:"cta,omitempty"`
	Events      []Event             `yaml:"events,omitempty" json:"events,omitempty"`
	Images      []source.ImageAsset `yaml:"images,omitempty" json:"images,omitempty"`
	Image       string              `yaml:"image,omitempty" json:"image,omitempty"`
	Averages    []Average           `yaml:"averages,omitempty" json:"averages,omitempty"`
	Videos      []source.VideoAsset `yaml:"videos,omitempty" json:"videos,omitempty"`
}

type Stat struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

type Event struct {
	Year string `yaml:"year" json:"year"`
	Text string `yaml:"text" json:"text"`
}

type Average struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Validate reports every slide that breaks the sequence rules: positive
// duration, unique id, known type.
func (s *Story) Validate() error {
	return ValidateSlides(s.Slides)
}

func ValidateSlides(slides []Slide) error {
	var errs []error
	seen := make(map[string]int, len(slides))
	for i, sl := range slides {
		if sl.ID == "" {
			errs = append(errs, fmt.Errorf("slide %d: empty id", i))
		} else if prev, dup := seen[sl.ID]; dup {
			errs = append(errs, fmt.Errorf("slide %d: id %q already used by slide %d", i, sl.ID, prev))
		} else {
			seen[sl.ID] = i
		}
		if sl.Duration <= 0 {
			errs = append(errs, fmt.Errorf("slide %d (%s): duration must be positive, got %d", i, sl.ID, sl.Duration))
		}
		if !sl.Type.Valid() {
			errs = append(errs, fmt.Errorf("slide %d (%s): unknown type %q", i, sl.ID, sl.Type))
		}
	}
	return errors.Join(errs...)
}
