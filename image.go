package receipt

import (
	"image"
	"image/draw"
)

// Image is a raw RGBA pixel array handed to the encoder. Data holds at
// least 4*Width*Height bytes, row-major, 8 bits per channel. A pixel prints
// black when its red channel is at most 127.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

// FromImage converts a decoded image.Image into the raw RGBA form the
// encoder consumes. Width is not adjusted; callers wanting a multiple-of-8
// width should scale or pad first.
func FromImage(src image.Image) Image {
	bounds := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || !rgba.Rect.Min.Eq(image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}
	return Image{Data: rgba.Pix, Width: bounds.Dx(), Height: bounds.Dy()}
}
