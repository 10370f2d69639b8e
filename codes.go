package receipt

import (
	"context"

	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/compose"
	"github.com/posprint/receipt/internal/rasterize"
)

// BarcodeOptions tunes 1D barcode rendering.
type BarcodeOptions struct {
	Height int  // dots, default 60
	Width  int  // module width, default 3
	Text   bool // print human-readable text below the bars
}

// QROptions tunes QR code rendering.
type QROptions struct {
	Model      int    // 1 or 2, default 2
	Size       int    // module size 1..8, default 6
	ErrorLevel string // "l", "m", "q", "h"; default "m"
}

// PDF417Options tunes PDF417 rendering.
type PDF417Options struct {
	Columns    int // 0 = auto, max 30
	Rows       int // 0 = auto, else 3..90
	Width      int // module width, default 3
	Height     int // row height, default 3
	ErrorLevel int // 0..8; 1 when no options are passed
	Truncated  bool
}

// skipCapability decides how a capability mismatch is handled: strict mode
// records it as fatal, relaxed mode logs and drops the operation.
func (e *Encoder) skipCapability(err error) *Encoder {
	if e.strict {
		return e.fail(err)
	}
	e.log.Warn("skipping unsupported operation", "printer", e.caps.ID, "reason", err)
	return e
}

// withAlignment emits items on their own line, bracketed by dialect
// alignment commands when the current alignment is not left.
func (e *Encoder) withAlignment(items []command.Item) {
	e.composer.Flush(compose.FlushOptions{ForceFlush: true})
	align := e.composer.Alignment()
	if align != command.AlignLeft {
		e.composer.Raw(e.dialect.Align(align), 0)
	}
	for _, it := range items {
		e.composer.Raw(it, 0)
	}
	if align != command.AlignLeft {
		e.composer.Raw(e.dialect.Align(command.AlignLeft), 0)
	}
	e.composer.Flush(compose.FlushOptions{ForceFlush: true, IgnoreAlignment: true})
}

// Barcode renders a 1D barcode. The symbology must be supported by the
// active printer; under relaxed strictness an unsupported symbology is
// logged and skipped.
func (e *Encoder) Barcode(value, symbology string, opts ...BarcodeOptions) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("barcode not allowed in embedded mode"))
	}
	if !e.caps.Barcodes.Supported || !e.caps.supportsSymbology(symbology) {
		return e.skipCapability(capabilityErrorf("symbology %q not supported by %s", symbology, e.caps.ID))
	}
	o := BarcodeOptions{Height: 60, Width: 3}
	if len(opts) > 0 {
		o = opts[0]
		if o.Height == 0 {
			o.Height = 60
		}
		if o.Width == 0 {
			o.Width = 3
		}
	}
	items, err := e.dialect.Barcode(value, symbology, o.Height, o.Width, o.Text)
	if err != nil {
		return e.fail(validationErrorf("%v", err))
	}
	e.withAlignment(items)
	return e
}

// QRCode renders a QR code.
func (e *Encoder) QRCode(value string, opts ...QROptions) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("qrcode not allowed in embedded mode"))
	}
	o := QROptions{Model: 2, Size: 6, ErrorLevel: "m"}
	if len(opts) > 0 {
		o = opts[0]
		if o.Model == 0 {
			o.Model = 2
		}
		if o.Size == 0 {
			o.Size = 6
		}
		if o.ErrorLevel == "" {
			o.ErrorLevel = "m"
		}
	}
	if !e.caps.QR.Supported {
		return e.skipCapability(capabilityErrorf("QR codes not supported by %s", e.caps.ID))
	}
	if !e.caps.supportsQRModel(o.Model) {
		return e.skipCapability(capabilityErrorf("QR model %d not supported by %s", o.Model, e.caps.ID))
	}
	items, err := e.dialect.QRCode(value, o.Model, o.Size, o.ErrorLevel)
	if err != nil {
		return e.fail(validationErrorf("%v", err))
	}
	e.withAlignment(items)
	return e
}

// PDF417 renders a PDF417 symbol. Printers without native support but with
// a declared fallback symbology render the value as that barcode instead.
func (e *Encoder) PDF417(value string, opts ...PDF417Options) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("pdf417 not allowed in embedded mode"))
	}
	o := PDF417Options{Width: 3, Height: 3, ErrorLevel: 1}
	if len(opts) > 0 {
		o = opts[0]
		if o.Width == 0 {
			o.Width = 3
		}
		if o.Height == 0 {
			o.Height = 3
		}
	}
	if !e.caps.PDF417.Supported {
		if fb := e.caps.PDF417.Fallback; fb != "" {
			return e.Barcode(value, fb)
		}
		return e.skipCapability(capabilityErrorf("PDF417 not supported by %s", e.caps.ID))
	}
	items, err := e.dialect.PDF417(value, o.Columns, o.Rows, o.Width, o.Height, o.ErrorLevel, o.Truncated)
	if err != nil {
		return e.fail(validationErrorf("%v", err))
	}
	e.withAlignment(items)
	return e
}

// Image frames a raw RGBA image in the printer's image mode. The width must
// be a multiple of 8 and the pixel data must cover the full geometry.
func (e *Encoder) Image(img Image) *Encoder {
	return e.ImageContext(context.Background(), img)
}

// ImageContext is Image with a context: encoding of large images polls the
// context every few raster strips, or every hundred columns in column mode,
// so a cancelled encode stops early.
func (e *Encoder) ImageContext(ctx context.Context, img Image) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("image not allowed in embedded mode"))
	}
	if img.Width < 1 || img.Height < 1 {
		return e.fail(validationErrorf("image size %dx%d invalid", img.Width, img.Height))
	}
	if img.Width%8 != 0 {
		return e.fail(validationErrorf("image width %d is not a multiple of 8", img.Width))
	}
	if len(img.Data) < 4*img.Width*img.Height {
		return e.fail(validationErrorf("image data %d bytes, need %d", len(img.Data), 4*img.Width*img.Height))
	}

	raw := rasterize.Image{Data: img.Data, Width: img.Width, Height: img.Height}
	items, err := e.dialect.Image(ctx, e.pool, raw, e.imageMode, e.caps.Image.Compression)
	if err != nil {
		return e.fail(validationErrorf("%v", err))
	}
	e.withAlignment(items)
	return e
}
