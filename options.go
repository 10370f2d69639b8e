package receipt

import (
	"log/slog"

	"github.com/posprint/receipt/codepage"
	"github.com/posprint/receipt/internal/pool"
)

// Option configures an Encoder at construction.
type Option func(*config)

type config struct {
	columns       int
	columnsSet    bool
	imageMode     string
	newline       string
	newlineSet    bool
	autoFlush     bool
	autoFlushSet  bool
	strict        bool
	codepage      string
	feedBeforeCut int
	feedSet       bool
	logger        *slog.Logger
	pool          *pool.Buffers
	textEncoder   codepage.Encoder
	embedded      bool
}

// validColumns lists the column counts real printer/font pairings produce.
var validColumns = map[int]bool{32: true, 35: true, 42: true, 44: true, 48: true}

// WithColumns overrides the column count derived from the model's font A.
// Top-level encoders accept only the counts that correspond to real
// printer/font geometries; embedded encoders take any positive width.
func WithColumns(n int) Option {
	return func(c *config) {
		c.columns = n
		c.columnsSet = true
	}
}

// WithImageMode overrides the model's default image encoding mode,
// "raster" or "column".
func WithImageMode(mode string) Option {
	return func(c *config) { c.imageMode = mode }
}

// WithNewline overrides the line terminator; one of "\n\r", "\n" or "".
func WithNewline(nl string) Option {
	return func(c *config) {
		c.newline = nl
		c.newlineSet = true
	}
}

// WithAutoFlush controls whether a dialect flush sequence is appended at
// the end of a document. Defaults to true for top-level StarPRNT encoders
// and false otherwise.
func WithAutoFlush(on bool) Option {
	return func(c *config) {
		c.autoFlush = on
		c.autoFlushSet = true
	}
}

// WithStrict makes capability mismatches (unsupported symbology, QR model,
// PDF417) fatal instead of logged no-ops.
func WithStrict(on bool) Option {
	return func(c *config) { c.strict = on }
}

// WithCodepage selects the startup codepage, or "auto" for per-run
// detection against the model's codepage mapping.
func WithCodepage(name string) Option {
	return func(c *config) { c.codepage = name }
}

// WithFeedBeforeCut overrides the number of lines fed before a cut.
func WithFeedBeforeCut(lines int) Option {
	return func(c *config) {
		c.feedBeforeCut = lines
		c.feedSet = true
	}
}

// WithLogger sets the logger used for relaxed-mode capability warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithPool supplies the buffer pool used during image framing. Mainly a
// test hook; a fresh pool is created when omitted.
func WithPool(p *pool.Buffers) Option {
	return func(c *config) { c.pool = p }
}

// WithTextEncoder replaces the default charmap-backed codepage encoder.
func WithTextEncoder(e codepage.Encoder) Option {
	return func(c *config) { c.textEncoder = e }
}
