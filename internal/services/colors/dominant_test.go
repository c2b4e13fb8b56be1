package colors

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/models"
)

// bandedScreenshot renders a page-like image: a brand-colored hero band
// on top, a different color below it
func bandedScreenshot(t *testing.T, w, h int, hero, below color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	split := int(float64(h) * heroFraction)
	for y := 0; y < h; y++ {
		c := hero
		if y >= split {
			c = below
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func nearHex(t *testing.T, candidates []string, target string, within float64) bool {
	t.Helper()
	want, err := HexToRGB(target)
	require.NoError(t, err)
	for _, hex := range candidates {
		got, err := HexToRGB(hex)
		require.NoError(t, err)
		if Distance(got, want) <= within {
			return true
		}
	}
	return false
}

func TestHeroRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	cropped := heroRegion(img)

	assert.Equal(t, 100, cropped.Bounds().Dx())
	assert.Equal(t, 40, cropped.Bounds().Dy())
	assert.Equal(t, 0, cropped.Bounds().Min.Y)
}

func TestHeroRegion_TinyImageUncropped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	assert.Equal(t, img.Bounds(), heroRegion(img).Bounds())
}

func TestScreenshotColors_SamplesHeroBandOnly(t *testing.T) {
	blue := color.RGBA{R: 51, G: 102, B: 204, A: 255}
	red := color.RGBA{R: 204, G: 51, B: 51, A: 255}
	shot := bandedScreenshot(t, 64, 64, blue, red)

	got := screenshotColors([][]byte{shot})

	require.NotEmpty(t, got)
	assert.True(t, nearHex(t, got, "#3366CC", 32), "hero color missing from %v", got)
	assert.False(t, nearHex(t, got, "#CC3333", 32), "below-hero color should not be sampled, got %v", got)
}

func TestScreenshotColors_SkipsUndecodableBytes(t *testing.T) {
	got := screenshotColors([][]byte{[]byte("not an image")})
	assert.Empty(t, got)
}

func TestExtract_ScreenshotFeedsPalette(t *testing.T) {
	blue := color.RGBA{R: 51, G: 102, B: 204, A: 255}
	red := color.RGBA{R: 204, G: 51, B: 51, A: 255}
	shot := bandedScreenshot(t, 64, 64, blue, red)

	site := &models.ScrapedSite{
		BaseURL: "https://acme.com",
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {Role: models.PageRoleHome, Screenshot: shot},
		},
	}

	e := NewExtractor(arbor.NewLogger())
	palette, err := e.Extract(context.Background(), site)
	require.NoError(t, err)

	require.NotNil(t, palette.Primary)
	assert.True(t, nearHex(t, []string{palette.Primary.Hex}, "#3366CC", 32),
		"primary %s should come from the screenshot hero band", palette.Primary.Hex)
}

func TestDominantColors_SkipsUndecodableImages(t *testing.T) {
	got := dominantColors([]models.ImageAsset{{SourceURL: "x", Data: []byte("junk")}})
	assert.Empty(t, got)
}
