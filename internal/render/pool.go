package render

import (
	"math/rand"

	"github.com/ivlev/storyreel/internal/source"
	"github.com/ivlev/storyreel/internal/story"
)

const (
	GalleryPoolSize = 30
	GalleryRows     = 4
	MasonrySize     = 300
	MosaicSize      = 120

	masonryMinHeight = 150
	masonryMaxHeight = 450
)

// DefaultAverages fill the fast review when the template gives none.
var DefaultAverages = []story.Average{
	{Label: "Segundos de Magia", Value: "1,89 B", Color: "#FF0055"},
	{Label: "Latidos de Pasion", Value: "2.500M+", Color: "#00E5FF"},
	{Label: "Canciones Escuchadas", Value: "1.512 M", Color: "#FFD700"},
	{Label: "Años de Luz", Value: "60", Color: "#FF0055"},
}

type MasonryItem struct {
	ID     int
	Src    string
	Height int     // px
	Delay  float64 // s
}

// GalleryPool repeats images whole until there are at least minSize entries,
// then shuffles. No images gives an empty pool.
func GalleryPool(images []source.ImageAsset, minSize int, rng *rand.Rand) []source.ImageAsset {
	if len(images) == 0 {
		return nil
	}

	pool := make([]source.ImageAsset, 0, max(minSize, len(images))+len(images))
	pool = append(pool, images...)
	for len(pool) < minSize {
		pool = append(pool, images...)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// SplitRows cuts pool into n consecutive rows of near-equal length; the last
// row takes the remainder.
func SplitRows(pool []source.ImageAsset, n int) [][]source.ImageAsset {
	if n <= 0 {
		return nil
	}
	rows := make([][]source.ImageAsset, n)
	for i := 0; i < n; i++ {
		lo := i * len(pool) / n
		hi := (i + 1) * len(pool) / n
		if i == n-1 {
			hi = len(pool)
		}
		rows[i] = pool[lo:hi]
	}
	return rows
}

// Masonry builds exactly n background tiles cycled from images, shuffled,
// each with a random height in [150,450].
func Masonry(images []source.ImageAsset, n int, rng *rand.Rand) []MasonryItem {
	if len(images) == 0 || n <= 0 {
		return nil
	}

	srcs := make([]string, n)
	for i := range srcs {
		srcs[i] = images[i%len(images)].Src
	}
	rng.Shuffle(len(srcs), func(i, j int) { srcs[i], srcs[j] = srcs[j], srcs[i] })

	items := make([]MasonryItem, n)
	for i, src := range srcs {
		items[i] = MasonryItem{
			ID:     i,
			Src:    src,
			Height: masonryMinHeight + rng.Intn(masonryMaxHeight-masonryMinHeight+1),
			Delay:  rng.Float64() * 0.2,
		}
	}
	return items
}

// Mosaic returns the distinct image sources used anywhere in st, shuffled and
// capped at limit.
func Mosaic(st *story.Story, limit int, rng *rand.Rand) []string {
	if st == nil {
		return nil
	}

	seen := make(map[string]bool)
	var srcs []string
	for _, s := range st.Slides {
		for _, img := range s.Content.Images {
			if !seen[img.Src] {
				seen[img.Src] = true
				srcs = append(srcs, img.Src)
			}
		}
	}
	rng.Shuffle(len(srcs), func(i, j int) { srcs[i], srcs[j] = srcs[j], srcs[i] })
	if limit >= 0 && len(srcs) > limit {
		srcs = srcs[:limit]
	}
	return srcs
}
