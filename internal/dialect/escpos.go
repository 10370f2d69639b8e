package dialect

import (
	"context"
	"fmt"
	"regexp"

	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/pool"
	"github.com/posprint/receipt/internal/rasterize"
)

// escpos emits the Epson ESC/POS command language, the de-facto standard
// dialect spoken by most thermal receipt printers.
type escpos struct{}

func (escpos) Name() string { return ESCPOS }

func (escpos) Initialize() []command.Item {
	return []command.Item{
		command.RawItem(command.Initialize, []byte{0x1B, 0x40}),
		// Cancel kanji character mode so single-byte codepages apply.
		command.RawItem(command.Raw, []byte{0x1C, 0x2E}),
		command.RawItem(command.Font, []byte{0x1B, 0x4D, 0x00}),
	}
}

func (escpos) Font(n byte) command.Item {
	return command.RawItem(command.Font, []byte{0x1B, 0x4D, n})
}

func (escpos) Align(a command.Alignment) command.Item {
	return command.Item{Kind: command.Align, Alignment: a, Payload: []byte{0x1B, 0x61, byte(a)}}
}

func (escpos) Bold(on bool) command.Item {
	return styleItem(command.PropBold, on, []byte{0x1B, 0x45, boolByte(on)})
}

func (escpos) Italic(on bool) command.Item {
	return styleItem(command.PropItalic, on, []byte{0x1B, 0x34, boolByte(on)})
}

func (escpos) Underline(on bool) command.Item {
	return styleItem(command.PropUnderline, on, []byte{0x1B, 0x2D, boolByte(on)})
}

func (escpos) Invert(on bool) command.Item {
	return styleItem(command.PropInvert, on, []byte{0x1D, 0x42, boolByte(on)})
}

func (escpos) Size(w, h int) command.Item {
	n := byte(h-1) | byte(w-1)<<4
	return command.Item{Kind: command.Style, Prop: command.PropSize, Width: w, Height: h,
		Payload: []byte{0x1D, 0x21, n}}
}

func (escpos) Codepage(n byte) command.Item {
	return command.RawItem(command.Codepage, []byte{0x1B, 0x74, n})
}

func (escpos) Cut(partial bool) command.Item {
	return command.RawItem(command.Cut, []byte{0x1D, 0x56, boolByte(partial)})
}

func (escpos) Pulse(device byte, on, off int) command.Item {
	onB := byte(clamp(on, 0, 500) / 2)
	offB := byte(clamp(off, 0, 500) / 2)
	return command.RawItem(command.Pulse, []byte{0x1B, 0x70, device, onB, offB})
}

func (escpos) Flush() []command.Item { return nil }

// escposSymbologies maps symbology names to GS k identifiers. Values below
// 65 use the NUL-terminated function-A envelope; the rest use the
// length-prefixed function-B envelope.
var escposSymbologies = map[string]byte{
	"upca":    65,
	"upce":    66,
	"ean13":   67,
	"ean8":    68,
	"code39":  69,
	"itf":     70,
	"codabar": 71,
	"code93":  72,
	"code128": 73,
	"gs1-128": 74,
}

var code128CodesetRe = regexp.MustCompile(`^\{[ABC]`)

func (escpos) Barcode(data, symbology string, height, width int, hri bool) ([]command.Item, error) {
	id, ok := escposSymbologies[symbology]
	if !ok {
		return nil, fmt.Errorf("symbology %q not available in ESC/POS", symbology)
	}
	if err := validateBarcodeData(data, symbology); err != nil {
		return nil, err
	}
	if symbology == "code128" && !code128CodesetRe.MatchString(data) {
		// Default to code set B unless the caller picked one explicitly.
		data = "{B" + data
	}
	if len(data) > 255 {
		return nil, fmt.Errorf("barcode data too long: %d bytes", len(data))
	}

	height = clamp(height, 1, 255)
	width = clamp(width, 2, 6)
	hriByte := byte(0)
	if hri {
		hriByte = 2 // below the barcode
	}

	payload := []byte{
		0x1D, 0x68, byte(height),
		0x1D, 0x77, byte(width),
		0x1D, 0x48, hriByte,
	}
	if id < 65 {
		payload = append(payload, 0x1D, 0x6B, id)
		payload = append(payload, data...)
		payload = append(payload, 0x00)
	} else {
		payload = append(payload, 0x1D, 0x6B, id, byte(len(data)))
		payload = append(payload, data...)
	}
	return []command.Item{command.RawItem(command.Barcode, payload)}, nil
}

// qrErrorLevels maps the public l/m/q/h levels to the GS ( k values.
var qrErrorLevels = map[string]byte{
	"l": 48,
	"m": 49,
	"q": 50,
	"h": 51,
}

func (escpos) QRCode(data string, model, size int, errorlevel string) ([]command.Item, error) {
	if model != 1 && model != 2 {
		return nil, fmt.Errorf("QR model %d out of range", model)
	}
	if size < 1 || size > 8 {
		return nil, fmt.Errorf("QR size %d out of range 1..8", size)
	}
	errByte, ok := qrErrorLevels[errorlevel]
	if !ok {
		return nil, fmt.Errorf("QR error level %q not one of l, m, q, h", errorlevel)
	}
	if len(data) > 7089 {
		return nil, fmt.Errorf("QR data too long: %d bytes", len(data))
	}

	storeLen := len(data) + 3
	sL, sH := lowHigh(storeLen)

	payload := []byte{
		0x1D, 0x28, 0x6B, 0x04, 0x00, 0x31, 0x41, byte(48 + model), 0x00,
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x43, byte(size),
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x45, errByte,
		0x1D, 0x28, 0x6B, sL, sH, 0x31, 0x50, 0x30,
	}
	payload = append(payload, data...)
	payload = append(payload, 0x1D, 0x28, 0x6B, 0x03, 0x00, 0x31, 0x51, 0x30)
	return []command.Item{command.RawItem(command.QRCode, payload)}, nil
}

func (escpos) PDF417(data string, columns, rows, width, height, errorlevel int, truncated bool) ([]command.Item, error) {
	if columns < 0 || columns > 30 {
		return nil, fmt.Errorf("PDF417 columns %d out of range 0..30", columns)
	}
	if rows != 0 && (rows < 3 || rows > 90) {
		return nil, fmt.Errorf("PDF417 rows %d out of range 3..90", rows)
	}
	if errorlevel < 0 || errorlevel > 8 {
		return nil, fmt.Errorf("PDF417 error level %d out of range 0..8", errorlevel)
	}
	width = clamp(width, 2, 8)
	height = clamp(height, 2, 8)

	storeLen := len(data) + 3
	sL, sH := lowHigh(storeLen)

	payload := []byte{
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x30, 0x41, byte(columns),
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x30, 0x42, byte(rows),
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x30, 0x43, byte(width),
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x30, 0x44, byte(height),
		0x1D, 0x28, 0x6B, 0x04, 0x00, 0x30, 0x45, 0x30, byte(48 + errorlevel),
		0x1D, 0x28, 0x6B, 0x03, 0x00, 0x30, 0x46, boolByte(truncated),
		0x1D, 0x28, 0x6B, sL, sH, 0x30, 0x50, 0x30,
	}
	payload = append(payload, data...)
	payload = append(payload, 0x1D, 0x28, 0x6B, 0x03, 0x00, 0x30, 0x51, 0x30)
	return []command.Item{command.RawItem(command.PDF417, payload)}, nil
}

func (d escpos) Image(ctx context.Context, p *pool.Buffers, img rasterize.Image, mode string, compress bool) ([]command.Item, error) {
	switch mode {
	case ModeRaster:
		return d.rasterImage(ctx, p, img, compress)
	case ModeColumn:
		return d.columnImage(ctx, p, img)
	}
	return nil, fmt.Errorf("unknown image mode %q", mode)
}

// rasterImage frames each strip as an independent GS v 0 command, using the
// RLE variant (m=1) when compression is allowed and actually wins.
func (escpos) rasterImage(ctx context.Context, p *pool.Buffers, img rasterize.Image, compress bool) ([]command.Item, error) {
	strips, err := rasterize.RasterStrips(ctx, p, img, rasterize.DefaultStripHeight)
	if err != nil {
		return nil, err
	}
	widthBytes := img.Width / 8
	xL, xH := lowHigh(widthBytes)

	items := make([]command.Item, 0, len(strips))
	for _, s := range strips {
		data := s.Data
		var m byte
		if compress {
			if res := rasterize.CompressRLE(s.Data); res.Compressed {
				data = res.Data
				m = 1
			}
		}
		yL, yH := lowHigh(s.Rows)
		payload := make([]byte, 0, 8+len(data))
		payload = append(payload, 0x1D, 0x76, 0x30, m, xL, xH, yL, yH)
		payload = append(payload, data...)
		items = append(items, command.RawItem(command.Image, payload))
		p.Release(s.Data)
	}
	return items, nil
}

// columnImage frames 24-dot column strips as ESC * commands, bracketed by a
// 24-dot line-spacing override and its reset.
func (escpos) columnImage(ctx context.Context, p *pool.Buffers, img rasterize.Image) ([]command.Item, error) {
	strips, err := rasterize.ColumnStrips(ctx, p, img)
	if err != nil {
		return nil, err
	}
	nL, nH := lowHigh(img.Width)

	items := make([]command.Item, 0, len(strips)+2)
	items = append(items, command.RawItem(command.LineSpacing, []byte{0x1B, 0x33, 0x24}))
	for _, s := range strips {
		payload := make([]byte, 0, 5+len(s.Data)+1)
		payload = append(payload, 0x1B, 0x2A, 0x21, nL, nH)
		payload = append(payload, s.Data...)
		payload = append(payload, 0x0A)
		items = append(items, command.RawItem(command.Image, payload))
		p.Release(s.Data)
	}
	items = append(items, command.RawItem(command.LineSpacing, []byte{0x1B, 0x32}))
	return items, nil
}

// validateBarcodeData applies the per-symbology digit and length rules that
// printers enforce in firmware.
func validateBarcodeData(data, symbology string) error {
	digits := func() bool {
		for _, r := range data {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	switch symbology {
	case "ean13":
		if !digits() || (len(data) != 12 && len(data) != 13) {
			return fmt.Errorf("ean13 requires 12 or 13 digits")
		}
	case "ean8":
		if !digits() || (len(data) != 7 && len(data) != 8) {
			return fmt.Errorf("ean8 requires 7 or 8 digits")
		}
	case "upca":
		if !digits() || (len(data) != 11 && len(data) != 12) {
			return fmt.Errorf("upca requires 11 or 12 digits")
		}
	case "upce":
		if !digits() || len(data) < 6 || len(data) > 8 {
			return fmt.Errorf("upce requires 6 to 8 digits")
		}
	case "itf":
		if !digits() || len(data)%2 != 0 {
			return fmt.Errorf("itf requires an even number of digits")
		}
	default:
		if len(data) == 0 {
			return fmt.Errorf("barcode data must not be empty")
		}
	}
	return nil
}
