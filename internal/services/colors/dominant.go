package colors

import (
	"bytes"
	"image"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ternarybob/brandforge/internal/models"
)

const (
	maxImagesSampled  = 5
	palettePerImage   = 5
	quantizeBucket    = 32 // channel bucket width for dominant-color binning
	sampleStridePixel = 4

	// heroFraction is the share of screenshot height sampled; branding
	// concentrates in the header and hero band, while lower page
	// regions are dominated by body copy backgrounds
	heroFraction = 0.4
)

// dominantColors extracts up to palettePerImage dominant colors from
// each of the first maxImagesSampled images. Undecodable images are
// skipped.
func dominantColors(images []models.ImageAsset) []string {
	var out []string

	limit := len(images)
	if limit > maxImagesSampled {
		limit = maxImagesSampled
	}

	for _, asset := range images[:limit] {
		img, _, err := image.Decode(bytes.NewReader(asset.Data))
		if err != nil {
			continue
		}
		out = append(out, imagePalette(img)...)
	}
	return out
}

// screenshotColors extracts dominant colors from the hero region of
// captured page screenshots, home page first
func screenshotColors(shots [][]byte) []string {
	var out []string

	limit := len(shots)
	if limit > maxImagesSampled {
		limit = maxImagesSampled
	}

	for _, data := range shots[:limit] {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			continue
		}
		out = append(out, imagePalette(heroRegion(img))...)
	}
	return out
}

// heroRegion crops a screenshot to its top band
func heroRegion(img image.Image) image.Image {
	bounds := img.Bounds()
	height := int(float64(bounds.Dy()) * heroFraction)
	if height < 1 {
		return img
	}

	crop := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+height)
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(crop)
	}
	return img
}

// imagePalette bins sampled pixels into coarse RGB buckets and returns
// the bucket centers of the most populated bins, skipping transparent
// pixels
func imagePalette(img image.Image) []string {
	bounds := img.Bounds()
	counts := make(map[models.RGB]int)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += sampleStridePixel {
		for x := bounds.Min.X; x < bounds.Max.X; x += sampleStridePixel {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			bucket := models.RGB{
				R: quantize(int(r >> 8)),
				G: quantize(int(g >> 8)),
				B: quantize(int(b >> 8)),
			}
			counts[bucket]++
		}
	}

	type bin struct {
		color models.RGB
		count int
	}
	bins := make([]bin, 0, len(counts))
	for c, n := range counts {
		bins = append(bins, bin{c, n})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].count > bins[j].count })

	var out []string
	for i := 0; i < len(bins) && i < palettePerImage; i++ {
		out = append(out, RGBToHex(bins[i].color))
	}
	return out
}

// quantize snaps a channel to its bucket center
func quantize(v int) int {
	c := (v/quantizeBucket)*quantizeBucket + quantizeBucket/2
	if c > 255 {
		c = 255
	}
	return c
}
