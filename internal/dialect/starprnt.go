package dialect

import (
	"context"
	"fmt"

	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/pool"
	"github.com/posprint/receipt/internal/rasterize"
)

// starprnt emits the StarPRNT command language used by current Star
// Micronics printers.
type starprnt struct{}

func (starprnt) Name() string { return StarPRNT }

func (starprnt) Initialize() []command.Item {
	// ESC @ reset plus CAN to drop any buffered page-mode content.
	return []command.Item{command.RawItem(command.Initialize, []byte{0x1B, 0x40, 0x18})}
}

func (starprnt) Font(n byte) command.Item {
	return command.RawItem(command.Font, []byte{0x1B, 0x1E, 0x46, n})
}

func (starprnt) Align(a command.Alignment) command.Item {
	return command.Item{Kind: command.Align, Alignment: a, Payload: []byte{0x1B, 0x1D, 0x61, byte(a)}}
}

func (starprnt) Bold(on bool) command.Item {
	if on {
		return styleItem(command.PropBold, on, []byte{0x1B, 0x45})
	}
	return styleItem(command.PropBold, on, []byte{0x1B, 0x46})
}

// Italic has no StarPRNT equivalent; the emission is empty.
func (starprnt) Italic(on bool) command.Item {
	return styleItem(command.PropItalic, on, nil)
}

func (starprnt) Underline(on bool) command.Item {
	return styleItem(command.PropUnderline, on, []byte{0x1B, 0x2D, boolByte(on)})
}

func (starprnt) Invert(on bool) command.Item {
	if on {
		return styleItem(command.PropInvert, on, []byte{0x1B, 0x34})
	}
	return styleItem(command.PropInvert, on, []byte{0x1B, 0x35})
}

func (starprnt) Size(w, h int) command.Item {
	return command.Item{Kind: command.Style, Prop: command.PropSize, Width: w, Height: h,
		Payload: []byte{0x1B, 0x69, byte(h - 1), byte(w - 1)}}
}

func (starprnt) Codepage(n byte) command.Item {
	return command.RawItem(command.Codepage, []byte{0x1B, 0x1D, 0x74, n})
}

func (starprnt) Cut(partial bool) command.Item {
	return command.RawItem(command.Cut, []byte{0x1B, 0x64, boolByte(partial)})
}

func (starprnt) Pulse(device byte, on, off int) command.Item {
	onB := byte(clamp(on/10, 0, 127))
	offB := byte(clamp(off/10, 0, 127))
	drawer := byte(0x07)
	if device == 1 {
		drawer = 0x1A
	}
	return command.RawItem(command.Pulse, []byte{0x1B, 0x07, onB, offB, drawer})
}

func (starprnt) Flush() []command.Item {
	return []command.Item{
		command.RawItem(command.Raw, []byte{0x1B, 0x1D, 0x50, 0x30}),
		command.RawItem(command.Raw, []byte{0x1B, 0x1D, 0x50, 0x31}),
	}
}

// starSymbologies maps symbology names to the ESC b n1 identifiers.
var starSymbologies = map[string]byte{
	"upce":    0x30,
	"upca":    0x31,
	"ean8":    0x32,
	"ean13":   0x33,
	"code39":  0x34,
	"itf":     0x35,
	"code128": 0x36,
	"code93":  0x37,
	"codabar": 0x38,
}

func (starprnt) Barcode(data, symbology string, height, width int, hri bool) ([]command.Item, error) {
	id, ok := starSymbologies[symbology]
	if !ok {
		return nil, fmt.Errorf("symbology %q not available in StarPRNT", symbology)
	}
	if err := validateBarcodeData(data, symbology); err != nil {
		return nil, err
	}
	height = clamp(height, 1, 255)
	n2 := byte(1) // no HRI
	if hri {
		n2 = 2
	}
	n3 := byte(clamp(width, 1, 3))

	payload := []byte{0x1B, 0x62, id, n2, n3, byte(height)}
	payload = append(payload, data...)
	payload = append(payload, 0x1E)
	return []command.Item{command.RawItem(command.Barcode, payload)}, nil
}

func (starprnt) QRCode(data string, model, size int, errorlevel string) ([]command.Item, error) {
	if model != 1 && model != 2 {
		return nil, fmt.Errorf("QR model %d out of range", model)
	}
	if size < 1 || size > 8 {
		return nil, fmt.Errorf("QR size %d out of range 1..8", size)
	}
	levels := map[string]byte{"l": 0, "m": 1, "q": 2, "h": 3}
	errByte, ok := levels[errorlevel]
	if !ok {
		return nil, fmt.Errorf("QR error level %q not one of l, m, q, h", errorlevel)
	}
	nL, nH := lowHigh(len(data))

	payload := []byte{
		0x1B, 0x1D, 0x79, 0x53, 0x30, byte(model),
		0x1B, 0x1D, 0x79, 0x53, 0x31, errByte,
		0x1B, 0x1D, 0x79, 0x53, 0x32, byte(size),
		0x1B, 0x1D, 0x79, 0x44, 0x31, 0x00, nL, nH,
	}
	payload = append(payload, data...)
	payload = append(payload, 0x1B, 0x1D, 0x79, 0x50)
	return []command.Item{command.RawItem(command.QRCode, payload)}, nil
}

func (starprnt) PDF417(data string, columns, rows, width, height, errorlevel int, truncated bool) ([]command.Item, error) {
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
	nL, nH := lowHigh(len(data))

	payload := []byte{
		0x1B, 0x1D, 0x78, 0x53, 0x30, 0x00, byte(rows), byte(columns),
		0x1B, 0x1D, 0x78, 0x53, 0x31, byte(errorlevel),
		0x1B, 0x1D, 0x78, 0x53, 0x32, byte(width),
		0x1B, 0x1D, 0x78, 0x44, nL, nH,
	}
	payload = append(payload, data...)
	payload = append(payload, 0x1B, 0x1D, 0x78, 0x50)
	return []command.Item{command.RawItem(command.PDF417, payload)}, nil
}

// Image frames 24-dot column strips as ESC X commands; StarPRNT has no
// raster mode, so the mode argument is ignored.
func (starprnt) Image(ctx context.Context, p *pool.Buffers, img rasterize.Image, mode string, compress bool) ([]command.Item, error) {
	strips, err := rasterize.ColumnStrips(ctx, p, img)
	if err != nil {
		return nil, err
	}
	nL, nH := lowHigh(img.Width)

	items := make([]command.Item, 0, len(strips))
	for _, s := range strips {
		payload := make([]byte, 0, 4+len(s.Data)+2)
		payload = append(payload, 0x1B, 0x58, nL, nH)
		payload = append(payload, s.Data...)
		payload = append(payload, 0x0A, 0x0D)
		items = append(items, command.RawItem(command.Image, payload))
		p.Release(s.Data)
	}
	return items, nil
}
