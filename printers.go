package receipt

import "sort"

// Capabilities describes what one printer model can do and which wire
// conventions it follows. The registry below is data-defined; explicit
// encoder options override anything taken from it.
type Capabilities struct {
	ID          string
	DisplayName string

	// Dialect is one of "esc-pos", "star-prnt", "star-line".
	Dialect string

	// Codepages names the codepage mapping family (see codepage.Mapping);
	// DefaultCodepage is the codepage active after initialization.
	Codepages       string
	DefaultCodepage string

	// Fonts maps font identifiers ('A', 'B', ...) to their metrics. Font A
	// determines the default column count.
	Fonts map[rune]FontInfo

	Barcodes BarcodeCaps
	QR       QRCaps
	PDF417   PDF417Caps
	Image    ImageCaps

	// FeedBeforeCut is the number of newlines fed before a cut so the last
	// printed line clears the cutter.
	FeedBeforeCut int

	// Newline is the line terminator: "\n\r", "\n" or "".
	Newline string
}

// FontInfo describes one selectable font.
type FontInfo struct {
	Size    string // dot-matrix cell, informational (e.g. "12x24")
	Columns int
}

// BarcodeCaps lists the 1D symbologies a model accepts.
type BarcodeCaps struct {
	Supported   bool
	Symbologies []string
}

// QRCaps lists the QR models a printer accepts.
type QRCaps struct {
	Supported bool
	Models    []int
}

// PDF417Caps reports PDF417 support. Fallback optionally names a 1D
// symbology used when the printer cannot render PDF417 itself.
type PDF417Caps struct {
	Supported bool
	Fallback  string
}

// ImageCaps selects the default image mode and compression ability.
type ImageCaps struct {
	Mode        string // "raster" or "column"
	Compression bool
}

// PrinterInfo is one registry enumeration entry.
type PrinterInfo struct {
	ID          string
	DisplayName string
}

var escposBarcodes = []string{
	"upca", "upce", "ean13", "ean8", "code39", "itf", "codabar", "code93", "code128",
}

var starBarcodes = []string{
	"upca", "upce", "ean13", "ean8", "code39", "itf", "codabar", "code93", "code128",
}

var fontsA42B56 = map[rune]FontInfo{
	'A': {Size: "12x24", Columns: 42},
	'B': {Size: "9x24", Columns: 56},
}

var fontsA48B64 = map[rune]FontInfo{
	'A': {Size: "12x24", Columns: 48},
	'B': {Size: "9x17", Columns: 64},
}

var fontsA32B42 = map[rune]FontInfo{
	'A': {Size: "12x24", Columns: 32},
	'B': {Size: "9x24", Columns: 42},
}

var fontsA48B64C52 = map[rune]FontInfo{
	'A': {Size: "12x24", Columns: 48},
	'B': {Size: "9x17", Columns: 64},
	'C': {Size: "11x22", Columns: 52},
}

// printers is the model registry. Column counts derive from font A.
var printers = map[string]Capabilities{
	"epson-tm-t88ii": {
		ID: "epson-tm-t88ii", DisplayName: "Epson TM-T88II",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA42B56,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{},
		PDF417:   PDF417Caps{Supported: false, Fallback: "code128"},
		Image:    ImageCaps{Mode: "raster"},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"epson-tm-t88iii": {
		ID: "epson-tm-t88iii", DisplayName: "Epson TM-T88III",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA42B56,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{},
		PDF417:   PDF417Caps{Supported: false, Fallback: "code128"},
		Image:    ImageCaps{Mode: "raster"},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"epson-tm-t88iv": {
		ID: "epson-tm-t88iv", DisplayName: "Epson TM-T88IV",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA42B56,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: false},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"epson-tm-t88v": {
		ID: "epson-tm-t88v", DisplayName: "Epson TM-T88V",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA42B56,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: true},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"epson-tm-t88vi": {
		ID: "epson-tm-t88vi", DisplayName: "Epson TM-T88VI",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA42B56,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: true},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"epson-tm-t20iii": {
		ID: "epson-tm-t20iii", DisplayName: "Epson TM-T20III",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA48B64,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: true},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"epson-tm-p20ii": {
		ID: "epson-tm-p20ii", DisplayName: "Epson TM-P20II",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA32B42,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: true},
		FeedBeforeCut: 3, Newline: "\n\r",
	},
	"epson-tm-m30": {
		ID: "epson-tm-m30", DisplayName: "Epson TM-m30",
		Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
		Fonts:    fontsA48B64C52,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: true},
		FeedBeforeCut: 4, Newline: "\n\r",
	},
	"bixolon-srp350iii": {
		ID: "bixolon-srp350iii", DisplayName: "Bixolon SRP-350III",
		Dialect: "esc-pos", Codepages: "bixolon", DefaultCodepage: "cp437",
		Fonts:    fontsA42B56,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: false},
		FeedBeforeCut: 4, Newline: "\n",
	},
	"citizen-ct-s310ii": {
		ID: "citizen-ct-s310ii", DisplayName: "Citizen CT-S310II",
		Dialect: "esc-pos", Codepages: "citizen", DefaultCodepage: "cp437",
		Fonts:    fontsA48B64,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "raster", Compression: false},
		FeedBeforeCut: 3, Newline: "\n",
	},
	"pos-5890": {
		ID: "pos-5890", DisplayName: "POS-5890 (generic 58mm)",
		Dialect: "esc-pos", Codepages: "zjiang", DefaultCodepage: "cp437",
		Fonts:    fontsA32B42,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{2}},
		PDF417:   PDF417Caps{Supported: false, Fallback: "code128"},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 1, Newline: "\n",
	},
	"pos-8360": {
		ID: "pos-8360", DisplayName: "POS-8360 (generic 80mm)",
		Dialect: "esc-pos", Codepages: "zjiang", DefaultCodepage: "cp437",
		Fonts:    fontsA48B64,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{2}},
		PDF417:   PDF417Caps{Supported: false, Fallback: "code128"},
		Image:    ImageCaps{Mode: "raster"},
		FeedBeforeCut: 4, Newline: "\n",
	},
	"xprinter-xp-n160ii": {
		ID: "xprinter-xp-n160ii", DisplayName: "Xprinter XP-N160II",
		Dialect: "esc-pos", Codepages: "pos", DefaultCodepage: "cp437",
		Fonts:    fontsA48B64,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{2}},
		PDF417:   PDF417Caps{Supported: false, Fallback: "code128"},
		Image:    ImageCaps{Mode: "raster"},
		FeedBeforeCut: 4, Newline: "\n",
	},
	"youku-58t": {
		ID: "youku-58t", DisplayName: "Youku 58T",
		Dialect: "esc-pos", Codepages: "zjiang", DefaultCodepage: "cp437",
		Fonts:    fontsA32B42,
		Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{2}},
		PDF417:   PDF417Caps{},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 1, Newline: "\n",
	},
	"star-tsp100iv": {
		ID: "star-tsp100iv", DisplayName: "Star TSP100IV",
		Dialect: "star-prnt", Codepages: "star", DefaultCodepage: "cp437",
		Fonts: map[rune]FontInfo{
			'A': {Size: "12x24", Columns: 48},
			'B': {Size: "9x24", Columns: 64},
		},
		Barcodes: BarcodeCaps{Supported: true, Symbologies: starBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 3, Newline: "\n",
	},
	"star-mc-print2": {
		ID: "star-mc-print2", DisplayName: "Star mC-Print2",
		Dialect: "star-prnt", Codepages: "star", DefaultCodepage: "cp437",
		Fonts: map[rune]FontInfo{
			'A': {Size: "12x24", Columns: 32},
			'B': {Size: "9x24", Columns: 42},
		},
		Barcodes: BarcodeCaps{Supported: true, Symbologies: starBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 3, Newline: "\n",
	},
	"star-sm-l200": {
		ID: "star-sm-l200", DisplayName: "Star SM-L200",
		Dialect: "star-prnt", Codepages: "star", DefaultCodepage: "cp437",
		Fonts: map[rune]FontInfo{
			'A': {Size: "12x24", Columns: 32},
			'B': {Size: "9x24", Columns: 42},
		},
		Barcodes: BarcodeCaps{Supported: true, Symbologies: starBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 2, Newline: "\n",
	},
	"star-tsp650ii": {
		ID: "star-tsp650ii", DisplayName: "Star TSP650II",
		Dialect: "star-line", Codepages: "star", DefaultCodepage: "cp437",
		Fonts: map[rune]FontInfo{
			'A': {Size: "12x24", Columns: 48},
			'B': {Size: "9x24", Columns: 64},
		},
		Barcodes: BarcodeCaps{Supported: true, Symbologies: starBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 3, Newline: "\n",
	},
	"star-mpop": {
		ID: "star-mpop", DisplayName: "Star mPOP",
		Dialect: "star-prnt", Codepages: "star", DefaultCodepage: "cp437",
		Fonts: map[rune]FontInfo{
			'A': {Size: "12x24", Columns: 32},
			'B': {Size: "9x24", Columns: 42},
		},
		Barcodes: BarcodeCaps{Supported: true, Symbologies: starBarcodes},
		QR:       QRCaps{Supported: true, Models: []int{1, 2}},
		PDF417:   PDF417Caps{Supported: true},
		Image:    ImageCaps{Mode: "column"},
		FeedBeforeCut: 3, Newline: "\n",
	},
}

// Printers enumerates the registry, sorted by model id.
func Printers() []PrinterInfo {
	out := make([]PrinterInfo, 0, len(printers))
	for _, c := range printers {
		out = append(out, PrinterInfo{ID: c.ID, DisplayName: c.DisplayName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupPrinter returns the capability record for a model id.
func LookupPrinter(id string) (Capabilities, bool) {
	c, ok := printers[id]
	return c, ok
}

func (c Capabilities) supportsSymbology(s string) bool {
	for _, sym := range c.Barcodes.Symbologies {
		if sym == s {
			return true
		}
	}
	return false
}

func (c Capabilities) supportsQRModel(m int) bool {
	for _, model := range c.QR.Models {
		if model == m {
			return true
		}
	}
	return false
}
