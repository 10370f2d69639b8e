// Package receipt builds command streams for thermal receipt printers.
//
// An Encoder exposes a fluent document API (text, styling, barcodes, QR
// codes, images, cuts) and reduces it to a byte buffer in one of three wire
// dialects: ESC/POS, StarPRNT or Star Line. The dialect, column count,
// codepage handling and image mode are taken from a printer-model registry
// and can be overridden per option.
//
// Example:
//
//	enc, err := receipt.NewEncoder("epson-tm-t88iv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := enc.
//	    Initialize().
//	    Align(receipt.AlignCenter).
//	    Bold(true).Line("RECEIPT").Bold(false).
//	    Align(receipt.AlignLeft).
//	    Line("1x Coffee         4.50").
//	    Cut().
//	    Encode()
//
// Fluent methods record the first failure; it surfaces from Err, Commands
// or Encode. Encoders are not safe for concurrent use.
package receipt

import (
	"log/slog"
	"strings"

	"github.com/posprint/receipt/codepage"
	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/compose"
	"github.com/posprint/receipt/internal/dialect"
	"github.com/posprint/receipt/internal/pool"
)

// Align selects horizontal alignment for subsequent lines.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "left"
}

// CutMode selects the cut variant.
type CutMode int

const (
	CutFull CutMode = iota
	CutPartial
)

// genericModel is the capability record used when no printer model is
// given: a plain 42-column ESC/POS device with every feature enabled and no
// pre-cut feed, useful for tests and for printers not in the registry.
var genericModel = Capabilities{
	ID: "", DisplayName: "Generic ESC/POS",
	Dialect: "esc-pos", Codepages: "epson", DefaultCodepage: "cp437",
	Fonts: map[rune]FontInfo{
		'A': {Size: "12x24", Columns: 42},
		'B': {Size: "9x24", Columns: 56},
	},
	Barcodes: BarcodeCaps{Supported: true, Symbologies: escposBarcodes},
	QR:       QRCaps{Supported: true, Models: []int{1, 2}},
	PDF417:   PDF417Caps{Supported: true},
	Image:    ImageCaps{Mode: "raster", Compression: true},
	Newline:  "\n\r",
}

// Encoder accumulates a document and encodes it for one printer.
type Encoder struct {
	caps    Capabilities
	dialect dialect.Dialect

	composer *compose.Composer
	pool     *pool.Buffers
	text     codepage.Encoder
	log      *slog.Logger

	baseColumns   int
	columns       int
	font          rune
	embedded      bool
	strict        bool
	autoFlush     bool
	newline       string
	imageMode     string
	feedBeforeCut int

	// cp is the active codepage name, or "auto".
	cp        string
	initialCP string

	lines []command.Line
	err   error
}

// NewEncoder builds an encoder for the given printer model id. The empty id
// selects a generic 42-column ESC/POS profile. Explicit options override
// model defaults.
func NewEncoder(model string, opts ...Option) (*Encoder, error) {
	caps := genericModel
	if model != "" {
		var ok bool
		caps, ok = LookupPrinter(model)
		if !ok {
			return nil, configErrorf("unknown printer model %q", model)
		}
	}

	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	return newEncoder(caps, cfg)
}

func newEncoder(caps Capabilities, cfg config) (*Encoder, error) {
	d, err := dialect.New(caps.Dialect)
	if err != nil {
		return nil, configErrorf("%v", err)
	}
	if _, ok := codepage.Mapping(caps.Codepages); !ok {
		return nil, configErrorf("unknown codepage mapping %q", caps.Codepages)
	}

	e := &Encoder{
		caps:          caps,
		dialect:       d,
		pool:          cfg.pool,
		text:          cfg.textEncoder,
		log:           cfg.logger,
		embedded:      cfg.embedded,
		strict:        cfg.strict,
		font:          'A',
		newline:       caps.Newline,
		imageMode:     caps.Image.Mode,
		feedBeforeCut: caps.FeedBeforeCut,
		cp:            caps.DefaultCodepage,
	}
	if e.pool == nil {
		e.pool = pool.New()
	}
	if e.text == nil {
		e.text = codepage.Default()
	}
	if e.log == nil {
		e.log = slog.Default()
	}

	e.baseColumns = caps.Fonts['A'].Columns
	if cfg.columnsSet {
		if !cfg.embedded && !validColumns[cfg.columns] {
			return nil, configErrorf("invalid column count %d", cfg.columns)
		}
		if cfg.embedded && cfg.columns < 1 {
			return nil, configErrorf("invalid column count %d", cfg.columns)
		}
		e.baseColumns = cfg.columns
	}
	e.columns = e.baseColumns

	if cfg.imageMode != "" {
		if cfg.imageMode != dialect.ModeRaster && cfg.imageMode != dialect.ModeColumn {
			return nil, configErrorf("unknown image mode %q", cfg.imageMode)
		}
		e.imageMode = cfg.imageMode
	}
	if cfg.newlineSet {
		switch cfg.newline {
		case "\n\r", "\n", "":
		default:
			return nil, configErrorf("unsupported newline sequence %q", cfg.newline)
		}
		e.newline = cfg.newline
	}
	if cfg.feedSet {
		e.feedBeforeCut = cfg.feedBeforeCut
	}
	if cfg.codepage != "" {
		if err := e.checkCodepage(cfg.codepage); err != nil {
			return nil, err
		}
		e.cp = cfg.codepage
	}
	e.initialCP = e.cp

	if cfg.autoFlushSet {
		e.autoFlush = cfg.autoFlush
	} else {
		e.autoFlush = caps.Dialect == dialect.StarPRNT && !cfg.embedded
	}

	e.composer = compose.NewComposer(e.columns, e.embedded, func(l command.Line) {
		e.lines = append(e.lines, l)
	})
	return e, nil
}

// nested builds an embedded encoder sharing this encoder's configuration,
// sized to the given column budget. Used by tables and boxes.
func (e *Encoder) nested(columns int) *Encoder {
	n, _ := newEncoder(e.caps, config{
		embedded:    true,
		columns:     columns,
		columnsSet:  true,
		strict:      e.strict,
		logger:      e.log,
		pool:        e.pool,
		textEncoder: e.text,
		codepage:    e.cp,
		newline:     e.newline,
		newlineSet:  true,
	})
	return n
}

func (e *Encoder) checkCodepage(name string) error {
	if name == "auto" {
		return nil
	}
	if !e.text.Supports(name) {
		return configErrorf("unknown codepage %q", name)
	}
	if _, ok := codepage.WireValue(e.caps.Codepages, name); !ok {
		return configErrorf("codepage %q not reachable on %s mapping", name, e.caps.Codepages)
	}
	return nil
}

// fail records the first error and keeps the fluent chain usable.
func (e *Encoder) fail(err error) *Encoder {
	if e.err == nil && err != nil {
		e.err = err
	}
	return e
}

// Err returns the first error recorded by a fluent call.
func (e *Encoder) Err() error {
	return e.err
}

// Columns returns the active column budget.
func (e *Encoder) Columns() int {
	return e.columns
}

// Initialize resets the printer and applies the dialect's startup sequence.
// Not allowed on embedded encoders.
func (e *Encoder) Initialize() *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("initialize not allowed in embedded mode"))
	}
	for _, it := range e.dialect.Initialize() {
		e.composer.Raw(it, 0)
	}
	return e
}

// Codepage selects the codepage for subsequent text, or "auto" to detect a
// codepage per text run from the printer's mapping.
func (e *Encoder) Codepage(name string) *Encoder {
	if e.err != nil {
		return e
	}
	if err := e.checkCodepage(name); err != nil {
		return e.fail(err)
	}
	e.cp = name
	return e
}

// Text appends a run of text, word-wrapped against the remaining budget.
func (e *Encoder) Text(value string) *Encoder {
	if e.err != nil {
		return e
	}
	cp := e.cp
	if cp == "auto" {
		cp = ""
	}
	e.composer.Text(value, cp)
	return e
}

// Newline ends the current line; an optional count ends several.
func (e *Encoder) Newline(n ...int) *Encoder {
	if e.err != nil {
		return e
	}
	count := 1
	if len(n) > 0 {
		count = n[0]
	}
	for i := 0; i < count; i++ {
		e.composer.Flush(compose.FlushOptions{ForceNewline: true})
	}
	return e
}

// Line appends text followed by a newline.
func (e *Encoder) Line(value string) *Encoder {
	return e.Text(value).Newline()
}

// Bold sets or, without an argument, toggles bold.
func (e *Encoder) Bold(on ...bool) *Encoder {
	if e.err != nil {
		return e
	}
	e.composer.Styler().SetBold(toggle(on, e.composer.Styler().Current().Bold))
	return e
}

// Italic sets or toggles italic. StarPRNT printers ignore it.
func (e *Encoder) Italic(on ...bool) *Encoder {
	if e.err != nil {
		return e
	}
	e.composer.Styler().SetItalic(toggle(on, e.composer.Styler().Current().Italic))
	return e
}

// Underline sets or toggles underline.
func (e *Encoder) Underline(on ...bool) *Encoder {
	if e.err != nil {
		return e
	}
	e.composer.Styler().SetUnderline(toggle(on, e.composer.Styler().Current().Underline))
	return e
}

// Invert sets or toggles white-on-black printing.
func (e *Encoder) Invert(on ...bool) *Encoder {
	if e.err != nil {
		return e
	}
	e.composer.Styler().SetInvert(toggle(on, e.composer.Styler().Current().Invert))
	return e
}

func toggle(arg []bool, current bool) bool {
	if len(arg) > 0 {
		return arg[0]
	}
	return !current
}

// Width sets the character width multiplier, 1 to 8.
func (e *Encoder) Width(n int) *Encoder {
	if e.err != nil {
		return e
	}
	if n < 1 || n > 8 {
		return e.fail(validationErrorf("width %d out of range 1..8", n))
	}
	e.composer.Styler().SetWidth(n)
	return e
}

// Height sets the character height multiplier, 1 to 8.
func (e *Encoder) Height(n int) *Encoder {
	if e.err != nil {
		return e
	}
	if n < 1 || n > 8 {
		return e.fail(validationErrorf("height %d out of range 1..8", n))
	}
	e.composer.Styler().SetHeight(n)
	return e
}

// Size sets both multipliers at once.
func (e *Encoder) Size(w, h int) *Encoder {
	if e.err != nil {
		return e
	}
	if w < 1 || w > 8 || h < 1 || h > 8 {
		return e.fail(validationErrorf("size %dx%d out of range 1..8", w, h))
	}
	e.composer.Styler().SetSize(w, h)
	return e
}

// Font switches to the named font ("A", "B", ...). The column budget is
// rescaled by the ratio of the font's columns to font A's. Rejected
// mid-line and on embedded encoders.
func (e *Encoder) Font(name string) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("font change not allowed in embedded mode"))
	}
	if e.composer.Cursor() > 0 {
		return e.fail(contextErrorf("font change not allowed mid-line"))
	}
	name = strings.ToUpper(name)
	if len(name) != 1 {
		return e.fail(validationErrorf("unknown font %q", name))
	}
	r := rune(name[0])
	info, ok := e.caps.Fonts[r]
	if !ok {
		return e.fail(validationErrorf("font %q not available on this printer", name))
	}
	e.font = r
	e.columns = e.baseColumns * info.Columns / e.caps.Fonts['A'].Columns
	e.composer.SetColumns(e.columns)
	e.composer.Raw(e.dialect.Font(byte(r-'A')), 0)
	return e
}

// Align sets the alignment for this and following lines. A change issued
// after the last content on a line takes effect from the next line.
func (e *Encoder) Align(a Align) *Encoder {
	if e.err != nil {
		return e
	}
	e.composer.Raw(command.AlignItem(commandAlign(a)), 0)
	return e
}

func commandAlign(a Align) command.Alignment {
	switch a {
	case AlignCenter:
		return command.AlignCenter
	case AlignRight:
		return command.AlignRight
	}
	return command.AlignLeft
}

// Raw appends pre-framed bytes untouched.
func (e *Encoder) Raw(b []byte) *Encoder {
	if e.err != nil {
		return e
	}
	e.composer.Raw(command.RawItem(command.Raw, b), 0)
	return e
}

// Cut feeds the configured number of lines and cuts the paper.
func (e *Encoder) Cut(mode ...CutMode) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("cut not allowed in embedded mode"))
	}
	m := CutFull
	if len(mode) > 0 {
		m = mode[0]
	}
	e.Newline(e.feedBeforeCut)
	e.composer.Raw(e.dialect.Cut(m == CutPartial), 0)
	e.composer.Flush(compose.FlushOptions{ForceFlush: true})
	return e
}

// PulseOptions configures a drawer kick pulse.
type PulseOptions struct {
	Device  int // 0 or 1
	OnTime  int // milliseconds, default 100
	OffTime int // milliseconds, default 500
}

// Pulse kicks the cash drawer.
func (e *Encoder) Pulse(opts ...PulseOptions) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("pulse not allowed in embedded mode"))
	}
	o := PulseOptions{OnTime: 100, OffTime: 500}
	if len(opts) > 0 {
		o = opts[0]
		if o.OnTime == 0 {
			o.OnTime = 100
		}
		if o.OffTime == 0 {
			o.OffTime = 500
		}
	}
	e.composer.Flush(compose.FlushOptions{ForceFlush: true})
	e.composer.Raw(e.dialect.Pulse(byte(o.Device), o.OnTime, o.OffTime), 0)
	e.composer.Flush(compose.FlushOptions{ForceFlush: true})
	return e
}

// commandLines finalizes the document and returns the internal line queue,
// resetting the encoder for the next document.
func (e *Encoder) commandLines() ([]command.Line, error) {
	if e.err != nil {
		err := e.err
		e.reset()
		return nil, err
	}
	e.composer.Flush(compose.FlushOptions{ForceFlush: true})

	lines := e.lines
	if e.autoFlush && !endsWithCutOrPulse(lines) {
		if flush := e.dialect.Flush(); len(flush) > 0 {
			lines = append(lines, command.Line{Items: flush, Height: 1})
		}
	}
	e.lines = nil
	e.reset()
	return lines, nil
}

func endsWithCutOrPulse(lines []command.Line) bool {
	for i := len(lines) - 1; i >= 0; i-- {
		items := lines[i].Items
		for j := len(items) - 1; j >= 0; j-- {
			switch items[j].Kind {
			case command.Cut, command.Pulse:
				return true
			case command.Empty:
				continue
			default:
				return false
			}
		}
	}
	return false
}

// reset returns the encoder to its initial document state.
func (e *Encoder) reset() {
	e.err = nil
	e.lines = nil
	e.columns = e.baseColumns
	e.font = 'A'
	e.cp = e.initialCP
	e.composer = compose.NewComposer(e.columns, e.embedded, func(l command.Line) {
		e.lines = append(e.lines, l)
	})
}

// Line is one finalized output line: the rendered command payloads in
// order, and the line's character-cell height.
type Line struct {
	Commands [][]byte
	Height   int
}

// Commands finalizes the document into per-line rendered payloads without
// newline terminators, and resets the encoder.
func (e *Encoder) Commands() ([]Line, error) {
	lines, err := e.commandLines()
	if err != nil {
		return nil, err
	}
	rendered, _, err := e.render(lines)
	return rendered, err
}

// Encode finalizes the document into a single byte buffer, terminating every
// line with the configured newline sequence (none after a final pulse), and
// resets the encoder.
func (e *Encoder) Encode() ([]byte, error) {
	lines, err := e.commandLines()
	if err != nil {
		return nil, err
	}
	rendered, lastPulse, err := e.render(lines)
	if err != nil {
		return nil, err
	}
	var out []byte
	for i, line := range rendered {
		for _, seg := range line.Commands {
			out = append(out, seg...)
		}
		if i == len(rendered)-1 && lastPulse {
			break
		}
		out = append(out, e.newline...)
	}
	return out, nil
}

// render translates queued lines into wire bytes: text through the codepage
// encoder (switching codepages on the wire only when they change), style
// deltas through the dialect, everything else via its payload.
func (e *Encoder) render(lines []command.Line) ([]Line, bool, error) {
	candidates := codepage.Candidates(e.caps.Codepages)
	lastCodepage := -1
	lastPulse := false

	switchTo := func(name string, segs [][]byte) ([][]byte, error) {
		wire, ok := codepage.WireValue(e.caps.Codepages, name)
		if !ok {
			return segs, validationErrorf("codepage %q not reachable on %s mapping", name, e.caps.Codepages)
		}
		if int(wire) != lastCodepage {
			segs = append(segs, e.dialect.Codepage(wire).Payload)
			lastCodepage = int(wire)
		}
		return segs, nil
	}

	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		segs := make([][]byte, 0, len(line.Items))
		var err error
		for _, it := range line.Items {
			switch it.Kind {
			case command.Text:
				if it.Codepage != "" {
					segs, err = switchTo(it.Codepage, segs)
					if err != nil {
						return nil, false, err
					}
					b, encErr := e.text.Encode(it.Text, it.Codepage)
					if encErr != nil {
						return nil, false, validationErrorf("%v", encErr)
					}
					segs = append(segs, b)
					break
				}
				for _, run := range e.text.AutoEncode(it.Text, candidates) {
					segs, err = switchTo(run.Codepage, segs)
					if err != nil {
						return nil, false, err
					}
					segs = append(segs, run.Bytes)
				}
			case command.Style:
				if p := e.styleBytes(it); len(p) > 0 {
					segs = append(segs, p)
				}
			case command.Space:
				segs = append(segs, []byte(strings.Repeat(" ", it.Size)))
			case command.Empty:
				// advances the line, no bytes
			default:
				if len(it.Payload) > 0 {
					segs = append(segs, it.Payload)
				}
			}
			lastPulse = it.Kind == command.Pulse
		}
		out = append(out, Line{Commands: segs, Height: line.Height})
	}
	return out, lastPulse, nil
}

// styleBytes translates a style delta through the dialect.
func (e *Encoder) styleBytes(it command.Item) []byte {
	switch it.Prop {
	case command.PropBold:
		return e.dialect.Bold(it.On).Payload
	case command.PropItalic:
		return e.dialect.Italic(it.On).Payload
	case command.PropUnderline:
		return e.dialect.Underline(it.On).Payload
	case command.PropInvert:
		return e.dialect.Invert(it.On).Payload
	case command.PropSize:
		return e.dialect.Size(it.Width, it.Height).Payload
	}
	return it.Payload
}
