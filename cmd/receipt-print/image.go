package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	"github.com/posprint/receipt"
)

// dotsPerColumn is the dot width of one font-A character cell.
const dotsPerColumn = 12

// loadImage decodes a PNG or JPEG file and prepares it for the printer:
// scaled to the print head width, optionally dithered, and padded onto a
// white canvas whose width is a multiple of 8.
func loadImage(path string, columns int, applyDither bool) (receipt.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return receipt.Image{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return receipt.Image{}, fmt.Errorf("decode %s: %w", path, err)
	}

	maxWidth := printWidth(columns)
	if src.Bounds().Dx() > maxWidth {
		src = resize.Thumbnail(uint(maxWidth), uint(src.Bounds().Dy()*4), src, resize.Bilinear)
	}
	if applyDither {
		d := dither.NewDitherer([]color.Color{color.Black, color.White})
		d.Matrix = dither.FloydSteinberg
		d.Serpentine = true
		src = d.Dither(src)
	}
	return receipt.FromImage(padToByteWidth(src)), nil
}

// printWidth is the dot width of the print head for a column count,
// rounded down to a multiple of 8.
func printWidth(columns int) int {
	return columns * dotsPerColumn / 8 * 8
}

// padToByteWidth draws the image onto a white canvas widened to the next
// multiple of 8 so the raster framing's byte rows line up.
func padToByteWidth(src image.Image) image.Image {
	b := src.Bounds()
	w := (b.Dx() + 7) / 8 * 8
	if w == b.Dx() && b.Min.Eq(image.Point{}) {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	return dst
}
