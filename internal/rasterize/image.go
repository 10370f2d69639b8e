// Package rasterize converts raw RGBA pixel arrays into the bit-packed
// monochrome formats understood by thermal printers: row-major raster data
// (GS v 0 family) and vertical 24-dot column data (ESC * / ESC X family),
// with optional run-length compression and horizontal strip partitioning to
// bound peak allocation.
package rasterize

import (
	"context"

	"github.com/posprint/receipt/internal/pool"
)

const (
	// DefaultStripHeight bounds how many pixel rows a single raster command
	// may carry; taller images are partitioned into strips.
	DefaultStripHeight = 512

	// columnBand is the pixel height of one column-mode strip.
	columnBand = 24

	// Images past either threshold take the cancellation-aware path, which
	// polls the context between work chunks.
	largePixelCount = 250_000
	largeWidth      = 800

	// Poll intervals for the cancellation-aware paths.
	stripPollInterval  = 4
	columnPollInterval = 100
)

// Image is a raw RGBA pixel array, 8 bits per channel. Data holds at least
// Width*Height*4 bytes in row-major RGBA order.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

// Pixel reports 1 when the pixel at (x, y) prints as a black dot.
// A pixel is black iff its red channel is at most 127; reads outside the
// image bounds are white.
func (img Image) Pixel(x, y int) byte {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return 0
	}
	if img.Data[((y*img.Width)+x)*4] <= 127 {
		return 1
	}
	return 0
}

// Large reports whether the image should be processed on the
// cancellation-aware path.
func Large(img Image) bool {
	return img.Width*img.Height > largePixelCount || img.Width > largeWidth
}

// Strip is one independently framed slice of encoded image data.
type Strip struct {
	// Data is the packed payload: Rows*(Width/8) bytes in raster mode,
	// 3*Width bytes in column mode.
	Data []byte

	// Rows is the number of source pixel rows the strip covers. Column
	// strips always span a full 24-row band; rows past the image bottom
	// read as white.
	Rows int
}

// RasterRows packs the whole image into a row-major MSB-first byte array of
// length (Width/8)*Height. Width must be a multiple of 8.
func RasterRows(img Image) []byte {
	widthBytes := img.Width / 8
	out := make([]byte, widthBytes*img.Height)
	packRasterRows(out, img, 0, img.Height)
	return out
}

// RasterStrips partitions the image into strips of at most stripHeight rows
// and packs each one. Strip buffers are drawn from p and ownership passes to
// the caller. On the large-image path the context is polled every few strips
// so a cancelled encode stops promptly.
func RasterStrips(ctx context.Context, p *pool.Buffers, img Image, stripHeight int) ([]Strip, error) {
	if stripHeight < 1 {
		stripHeight = DefaultStripHeight
	}
	widthBytes := img.Width / 8
	poll := Large(img)

	count := (img.Height + stripHeight - 1) / stripHeight
	strips := make([]Strip, 0, count)
	for s := 0; s < count; s++ {
		if poll && s%stripPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				releaseStrips(p, strips)
				return nil, err
			}
		}
		top := s * stripHeight
		rows := min(stripHeight, img.Height-top)
		buf := p.Acquire(rows * widthBytes)
		packRasterRows(buf, img, top, rows)
		strips = append(strips, Strip{Data: buf, Rows: rows})
	}
	return strips, nil
}

// packRasterRows packs rows [top, top+rows) into dst, MSB-first.
func packRasterRows(dst []byte, img Image, top, rows int) {
	widthBytes := img.Width / 8
	for y := 0; y < rows; y++ {
		rowOff := y * widthBytes
		for c := 0; c < widthBytes; c++ {
			var b byte
			for bit := 0; bit < 8; bit++ {
				b |= img.Pixel(8*c+bit, top+y) << (7 - bit)
			}
			dst[rowOff+c] = b
		}
	}
}

// ColumnStrips packs the image into vertical 24-dot strips, one buffer of
// 3*Width bytes per strip. Column x of strip s encodes rows 24s..24s+23,
// MSB = topmost row; rows beyond the image bottom are white. On the
// large-image path the context is polled every hundred columns.
func ColumnStrips(ctx context.Context, p *pool.Buffers, img Image) ([]Strip, error) {
	poll := Large(img)
	count := (img.Height + columnBand - 1) / columnBand
	strips := make([]Strip, 0, count)
	for s := 0; s < count; s++ {
		top := s * columnBand
		buf := p.Acquire(3 * img.Width)
		for x := 0; x < img.Width; x++ {
			if poll && x%columnPollInterval == 0 {
				if err := ctx.Err(); err != nil {
					p.Release(buf)
					releaseStrips(p, strips)
					return nil, err
				}
			}
			for c := 0; c < 3; c++ {
				var b byte
				for bit := 0; bit < 8; bit++ {
					b |= img.Pixel(x, top+8*c+bit) << (7 - bit)
				}
				buf[3*x+c] = b
			}
		}
		strips = append(strips, Strip{Data: buf, Rows: columnBand})
	}
	return strips, nil
}

func releaseStrips(p *pool.Buffers, strips []Strip) {
	for _, s := range strips {
		p.Release(s.Data)
	}
}
