// Package command defines the discriminated command-item records that flow
// between the line composer, the dialect drivers, and the encoder facade.
//
// An Item starts life as a high-level record (a text run, a style delta, an
// alignment marker) and is finalized into opaque wire bytes during encoding.
// Dialect drivers emit Items whose Payload is already finalized.
package command

// Kind discriminates the command-item variants.
type Kind int

// Command-item variants. Text, Style, Space and layout-only Align items are
// produced by the composer and finalized at encode time; the remaining kinds
// carry pre-framed dialect payloads.
const (
	Empty Kind = iota
	Text
	Style
	Raw
	Space
	Align
	Image
	Barcode
	QRCode
	PDF417
	Cut
	Pulse
	Initialize
	Font
	Codepage
	LineSpacing
)

var kindNames = map[Kind]string{
	Empty:       "empty",
	Text:        "text",
	Style:       "style",
	Raw:         "raw",
	Space:       "space",
	Align:       "align",
	Image:       "image",
	Barcode:     "barcode",
	QRCode:      "qrcode",
	PDF417:      "pdf417",
	Cut:         "cut",
	Pulse:       "pulse",
	Initialize:  "initialize",
	Font:        "font",
	Codepage:    "codepage",
	LineSpacing: "line-spacing",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Property identifies a style attribute carried by a Style item.
type Property int

const (
	PropBold Property = iota
	PropItalic
	PropUnderline
	PropInvert
	PropSize
)

// Alignment of a line or of an align marker.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Item is a single command record. Exactly which fields are meaningful
// depends on Kind; unrelated fields are left at their zero value.
//
// An Align item with a nil Payload is a layout directive consumed by the
// composer; an Align item with a Payload is an embedded dialect emission
// that stays in the line.
type Item struct {
	Kind Kind

	// Text run, Kind == Text. Codepage "" means not yet determined; it is
	// resolved against the active codepage (or auto-detected) at encode time.
	Text     string
	Codepage string

	// Style delta, Kind == Style. Bold/italic/underline/invert use On;
	// PropSize carries Width and Height together.
	Prop   Property
	On     bool
	Width  int
	Height int

	// Space run in character cells, Kind == Space.
	Size int

	// Alignment value, Kind == Align.
	Alignment Alignment

	// Finalized wire bytes.
	Payload []byte
}

// Line is an ordered run of items terminated (on the wire) by the
// configured newline sequence. Height is the tallest character-cell height
// multiplier seen on the line, default 1.
type Line struct {
	Items  []Item
	Height int
}

// TextItem builds a text run tagged with a codepage name ("" = undetermined).
func TextItem(text, codepage string) Item {
	return Item{Kind: Text, Text: text, Codepage: codepage}
}

// StyleBool builds a boolean style delta.
func StyleBool(p Property, on bool) Item {
	return Item{Kind: Style, Prop: p, On: on}
}

// StyleSize builds a size style delta carrying both multipliers.
func StyleSize(w, h int) Item {
	return Item{Kind: Style, Prop: PropSize, Width: w, Height: h}
}

// SpaceItem builds a run of n space cells.
func SpaceItem(n int) Item {
	return Item{Kind: Space, Size: n}
}

// AlignItem builds a layout-only alignment directive (nil payload).
func AlignItem(a Alignment) Item {
	return Item{Kind: Align, Alignment: a}
}

// RawItem wraps pre-framed wire bytes as kind k.
func RawItem(k Kind, payload []byte) Item {
	return Item{Kind: k, Payload: payload}
}
