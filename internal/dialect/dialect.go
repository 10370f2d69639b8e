// Package dialect implements the per-printer-language command emitters.
//
// The three supported languages (ESC/POS, StarPRNT, Star Line) expose an
// identical operation set through the Dialect interface but emit distinct
// byte sequences for every operation. The encoder facade selects one at
// construction and drives it polymorphically; every emission is returned as
// a finalized command item.
package dialect

import (
	"context"
	"fmt"

	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/pool"
	"github.com/posprint/receipt/internal/rasterize"
)

// Dialect names.
const (
	ESCPOS   = "esc-pos"
	StarPRNT = "star-prnt"
	StarLine = "star-line"
)

// Image encoding modes.
const (
	ModeColumn = "column"
	ModeRaster = "raster"
)

// Dialect emits wire commands for one printer language. Operations that a
// language cannot express return an item with an empty payload.
type Dialect interface {
	Name() string

	Initialize() []command.Item
	Font(n byte) command.Item
	Align(a command.Alignment) command.Item
	Bold(on bool) command.Item
	Italic(on bool) command.Item
	Underline(on bool) command.Item
	Invert(on bool) command.Item
	Size(w, h int) command.Item
	Codepage(n byte) command.Item
	Cut(partial bool) command.Item
	Pulse(device byte, on, off int) command.Item
	Flush() []command.Item

	Barcode(data, symbology string, height, width int, hri bool) ([]command.Item, error)
	QRCode(data string, model, size int, errorlevel string) ([]command.Item, error)
	PDF417(data string, columns, rows, width, height, errorlevel int, truncated bool) ([]command.Item, error)

	// Image frames img in the requested mode. Strip buffers come from p and
	// are returned to it once their bytes are copied into command payloads.
	Image(ctx context.Context, p *pool.Buffers, img rasterize.Image, mode string, compress bool) ([]command.Item, error)
}

// New returns the driver for the named dialect.
func New(name string) (Dialect, error) {
	switch name {
	case ESCPOS:
		return &escpos{}, nil
	case StarPRNT:
		return &starprnt{}, nil
	case StarLine:
		return &starline{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

// lowHigh packs n as a little-endian 16-bit pair.
func lowHigh(n int) (byte, byte) {
	return byte(n & 0xFF), byte((n >> 8) & 0xFF)
}

func boolByte(on bool) byte {
	if on {
		return 1
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func styleItem(p command.Property, on bool, payload []byte) command.Item {
	return command.Item{Kind: command.Style, Prop: p, On: on, Payload: payload}
}
