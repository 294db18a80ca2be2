package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// solidImage creates an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// stepImage is black for x < edge and white elsewhere.
func stepImage(width, height, edge int) *image.RGBA {
	img := solidImage(width, height, color.White)
	for y := 0; y < height; y++ {
		for x := 0; x < edge; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

// rectImage draws a black rectangle on white, inset by a quarter of each side.
func rectImage(width, height int) *image.RGBA {
	img := solidImage(width, height, color.White)
	for y := height / 4; y < height*3/4; y++ {
		for x := width / 4; x < width*3/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

// writePNG stores img as name inside a per-test temporary directory.
func writePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}
