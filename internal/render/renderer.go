package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ivlev/storyreel/internal/source"
	"github.com/ivlev/storyreel/internal/story"
)

var ErrUnknownType = errors.New("render: unknown slide type")

//go:embed templates/*.html
var templateFS embed.FS

// Renderer draws one slide's content as an HTML fragment.
type Renderer interface {
	Render(w io.Writer, meta story.Meta, s story.Slide) error
}

type Options struct {
	// ShareURL, when set, makes the outro show the QR code served at QRPath.
	ShareURL string
	QRPath   string
	Seed     int64
}

// Registry maps each slide type to its renderer.
type Registry struct {
	renderers map[story.SlideType]Renderer
	opts      Options

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRegistry(opts Options) (*Registry, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse slide templates: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.QRPath == "" {
		opts.QRPath = "/qr.png"
	}

	r := &Registry{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
	r.renderers = map[story.SlideType]Renderer{
		story.TypeIntro:            &templateRenderer{tpl: tpl, name: "intro", view: r.introView},
		story.TypeBio:              &templateRenderer{tpl: tpl, name: "bio", view: r.bioView},
		story.TypeStats:            &templateRenderer{tpl: tpl, name: "stats", view: r.baseView},
		story.TypeGallery:          &templateRenderer{tpl: tpl, name: "gallery", view: r.galleryView},
		story.TypeGalleryExplore:   &templateRenderer{tpl: tpl, name: "gallery_explore", view: r.baseView},
		story.TypeTimeline:         &templateRenderer{tpl: tpl, name: "timeline", view: r.baseView},
		story.TypeOutro:            &templateRenderer{tpl: tpl, name: "outro", view: r.outroView},
		story.TypeFastReview:       &templateRenderer{tpl: tpl, name: "fast_review", view: r.fastReviewView},
		story.TypeDedications:      dedicationRenderer{&templateRenderer{tpl: tpl, name: "dedications", view: r.dedicationView}},
		story.TypeDedicationsIntro: &templateRenderer{tpl: tpl, name: "dedications_intro", view: r.baseView},
	}
	return r, nil
}

func (r *Registry) Lookup(t story.SlideType) (Renderer, error) {
	rd, ok := r.renderers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return rd, nil
}

func (r *Registry) Render(w io.Writer, meta story.Meta, s story.Slide) error {
	rd, err := r.Lookup(s.Type)
	if err != nil {
		return err
	}
	return rd.Render(w, meta, s)
}

// Mosaic draws the entry-screen image wall for st.
func (r *Registry) Mosaic(st *story.Story, limit int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Mosaic(st, limit, r.rng)
}

type templateRenderer struct {
	tpl  *template.Template
	name string
	view func(meta story.Meta, s story.Slide) any
}

func (t *templateRenderer) Render(w io.Writer, meta story.Meta, s story.Slide) error {
	return t.tpl.ExecuteTemplate(w, t.name, t.view(meta, s))
}

// dedicationRenderer draws nothing for a slide without a video.
type dedicationRenderer struct {
	inner Renderer
}

func (d dedicationRenderer) Render(w io.Writer, meta story.Meta, s story.Slide) error {
	if len(s.Content.Videos) == 0 {
		return nil
	}
	return d.inner.Render(w, meta, s)
}

type view struct {
	Meta    story.Meta
	Slide   story.Slide
	Content story.Content
}

type introView struct {
	view
	Words []string
}

type bioView struct {
	view
	Highlight string
	Heading   string
}

type galleryView struct {
	view
	Rows [][]source.ImageAsset
}

type fastReviewView struct {
	view
	Items    []MasonryItem
	Averages []story.Average
}

type dedicationView struct {
	view
	Video source.VideoAsset
}

type outroView struct {
	view
	QRPath string
}

func (r *Registry) baseView(meta story.Meta, s story.Slide) any {
	return view{Meta: meta, Slide: s, Content: s.Content}
}

func (r *Registry) introView(meta story.Meta, s story.Slide) any {
	return introView{
		view:  view{Meta: meta, Slide: s, Content: s.Content},
		Words: strings.Fields(s.Content.Highlight),
	}
}

func (r *Registry) bioView(meta story.Meta, s story.Slide) any {
	v := bioView{
		view:      view{Meta: meta, Slide: s, Content: s.Content},
		Highlight: s.Content.Highlight,
		Heading:   s.Content.Title,
	}
	if v.Highlight == "" {
		v.Highlight = "CAPÍTULO DE VIDA"
	}
	if v.Heading == "" {
		v.Heading = "LEGADO"
	}
	return v
}

func (r *Registry) galleryView(meta story.Meta, s story.Slide) any {
	r.mu.Lock()
	pool := GalleryPool(s.Content.Images, GalleryPoolSize, r.rng)
	r.mu.Unlock()
	return galleryView{
		view: view{Meta: meta, Slide: s, Content: s.Content},
		Rows: SplitRows(pool, GalleryRows),
	}
}

func (r *Registry) fastReviewView(meta story.Meta, s story.Slide) any {
	r.mu.Lock()
	items := Masonry(s.Content.Images, MasonrySize, r.rng)
	r.mu.Unlock()

	averages := s.Content.Averages
	if len(averages) == 0 {
		averages = DefaultAverages
	}
	return fastReviewView{
		view:     view{Meta: meta, Slide: s, Content: s.Content},
		Items:    items,
		Averages: averages,
	}
}

func (r *Registry) dedicationView(meta story.Meta, s story.Slide) any {
	return dedicationView{
		view:  view{Meta: meta, Slide: s, Content: s.Content},
		Video: s.Content.Videos[0],
	}
}

func (r *Registry) outroView(meta story.Meta, s story.Slide) any {
	v := outroView{view: view{Meta: meta, Slide: s, Content: s.Content}}
	if r.opts.ShareURL != "" {
		v.QRPath = r.opts.QRPath
	}
	return v
}
