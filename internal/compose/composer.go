// Package compose implements the stateful line-composition pipeline: a
// style tracker that emits deltas, and a composer that accumulates mixed
// text/style/raw items, wraps text against the column budget, applies
// alignment padding, and flushes finished lines to a queue.
package compose

import (
	"strings"
	"unicode/utf8"

	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/wrap"
)

// FlushOptions modifies a single flush.
type FlushOptions struct {
	// ForceNewline emits an empty line even when nothing is buffered, so
	// the paper still advances.
	ForceNewline bool

	// ForceFlush emits the buffer even when the cursor has not moved.
	ForceFlush bool

	// IgnoreAlignment suppresses alignment padding for this line.
	IgnoreAlignment bool
}

// Composer accumulates command items into the current line and emits
// finished lines to its output callback.
//
// Each emitted line is bracketed: it opens with the delta that re-applies
// the style active at the start of the line and closes with the delta back
// to the default style, so lines are idempotent with respect to style state.
type Composer struct {
	columns  int
	embedded bool
	cursor   int
	buffer   []command.Item
	stored   []command.Item
	align    command.Alignment
	styler   *Styler
	out      func(command.Line)
}

// NewComposer builds a composer for the given column budget. Embedded
// composers (table cells, box bodies) pad every line to the full budget.
func NewComposer(columns int, embedded bool, out func(command.Line)) *Composer {
	c := &Composer{
		columns:  columns,
		embedded: embedded,
		styler:   NewStyler(),
		out:      out,
	}
	c.styler.bind(c)
	return c
}

// Styler returns the style tracker wired to this composer.
func (c *Composer) Styler() *Styler {
	return c.styler
}

// Columns returns the current column budget.
func (c *Composer) Columns() int {
	return c.columns
}

// SetColumns rescales the column budget (font changes).
func (c *Composer) SetColumns(n int) {
	c.columns = n
}

// Cursor returns the current cell position on the line.
func (c *Composer) Cursor() int {
	return c.cursor
}

// Alignment returns the alignment in effect for the next line.
func (c *Composer) Alignment() command.Alignment {
	align := c.align
	for _, it := range c.buffer {
		if it.Kind == command.Align && it.Payload == nil {
			align = it.Alignment
		}
	}
	return align
}

// styleChanged implements itemSink; style deltas occupy no cells.
func (c *Composer) styleChanged(it command.Item) {
	c.Add(it, 0)
}

// Text wraps value against the remaining budget and adds the resulting
// lines; every wrapped line except the last is flushed immediately.
func (c *Composer) Text(value, codepage string) {
	width := c.styler.Current().Width
	lines := wrap.Lines(value, wrap.Options{
		Columns: c.columns,
		Width:   width,
		Indent:  c.cursor,
	})
	for i, l := range lines {
		if l != "" {
			c.Add(command.TextItem(l, codepage), utf8.RuneCountInString(l)*width)
		}
		if i < len(lines)-1 {
			c.Flush(FlushOptions{ForceNewline: true})
		}
	}
}

// Space adds a run of n space cells.
func (c *Composer) Space(n int) {
	c.Add(command.SpaceItem(n), n)
}

// Raw adds an opaque payload item that occupies logical cells.
func (c *Composer) Raw(it command.Item, cells int) {
	c.Add(it, cells)
}

// Add appends an item that occupies the given number of cells, flushing
// first if it would overflow the line.
func (c *Composer) Add(it command.Item, cells int) {
	if c.cursor+cells > c.columns {
		c.Flush(FlushOptions{})
	}
	c.buffer = append(c.buffer, it)
	c.cursor += cells
}

// End forces the cursor to the end of the line so the next Add flushes.
func (c *Composer) End() {
	c.cursor = c.columns
}

// Flush fetches the composed line and emits it. A forced newline that
// produces no content still emits a line holding a single empty item.
func (c *Composer) Flush(opts FlushOptions) {
	items, height := c.fetch(opts)
	if len(items) == 0 {
		if opts.ForceNewline {
			c.out(command.Line{Items: []command.Item{{Kind: command.Empty}}, Height: 1})
		}
		return
	}
	c.out(command.Line{Items: items, Height: height})
}

// fetch assembles the current buffer into a finished line, applying
// alignment and the style brackets, and resets the line state.
func (c *Composer) fetch(opts FlushOptions) ([]command.Item, int) {
	if c.cursor == 0 && len(c.buffer) == 0 && !opts.ForceNewline {
		return nil, 0
	}
	if c.cursor == 0 && !opts.ForceNewline && !opts.ForceFlush {
		return nil, 0
	}

	buffer, lineAlign, nextAlign := c.resolveAlignment()

	var out []command.Item
	pad := c.columns - c.cursor

	align := lineAlign
	if opts.IgnoreAlignment {
		align = command.AlignLeft
	}

	switch align {
	case command.AlignRight:
		buffer = c.stripTrailingSpace(buffer)
		pad = c.columns - c.cursor
		if pad > 0 {
			out = append(out, command.SpaceItem(pad))
		}
		out = append(out, c.stored...)
		out = append(out, buffer...)
		out = append(out, c.styler.Store()...)

	case command.AlignCenter:
		left := pad / 2
		right := pad - left
		if left > 0 {
			out = append(out, command.SpaceItem(left))
		}
		out = append(out, c.stored...)
		out = append(out, buffer...)
		out = append(out, c.styler.Store()...)
		if c.embedded && right > 0 {
			out = append(out, command.SpaceItem(right))
		}

	default:
		out = append(out, c.stored...)
		out = append(out, buffer...)
		out = append(out, c.styler.Store()...)
		if c.embedded && pad > 0 {
			out = append(out, command.SpaceItem(pad))
		}
	}

	out = mergeItems(out)

	height := 1
	for _, it := range out {
		if it.Kind == command.Style && it.Prop == command.PropSize && it.Height > height {
			height = it.Height
		}
	}

	c.cursor = 0
	c.buffer = nil
	c.stored = c.styler.Restore()
	c.align = nextAlign

	if len(out) == 0 && opts.ForceNewline {
		return nil, 0
	}
	return out, height
}

// resolveAlignment scans the buffer for layout-only align items. An align
// directive sitting at the very end of the buffer takes effect on the next
// line; any earlier directive overwrites the current line's alignment.
// Layout-only align items are removed; align items carrying a payload are
// embedded dialect emissions and stay in-line.
func (c *Composer) resolveAlignment() (buffer []command.Item, lineAlign, nextAlign command.Alignment) {
	lineAlign = c.align
	nextAlign = c.align
	for i, it := range c.buffer {
		if it.Kind == command.Align && it.Payload == nil {
			if i == len(c.buffer)-1 {
				nextAlign = it.Alignment
			} else {
				lineAlign = it.Alignment
				nextAlign = it.Alignment
			}
		}
	}
	buffer = make([]command.Item, 0, len(c.buffer))
	for _, it := range c.buffer {
		if it.Kind == command.Align && it.Payload == nil {
			continue
		}
		buffer = append(buffer, it)
	}
	return buffer, lineAlign, nextAlign
}

// stripTrailingSpace removes trailing space items and trailing spaces in a
// final text item, pulling the cursor back so right alignment reaches the
// true end of the content. Text cells honour the width multiplier in effect.
func (c *Composer) stripTrailingSpace(buffer []command.Item) []command.Item {
	width := c.styler.Current().Width
	for len(buffer) > 0 {
		last := &buffer[len(buffer)-1]
		switch last.Kind {
		case command.Space:
			c.cursor -= last.Size
			buffer = buffer[:len(buffer)-1]
			continue
		case command.Text:
			trimmed := strings.TrimRight(last.Text, " ")
			if removed := utf8.RuneCountInString(last.Text) - utf8.RuneCountInString(trimmed); removed > 0 {
				c.cursor -= removed * width
				if trimmed == "" {
					buffer = buffer[:len(buffer)-1]
					continue
				}
				last.Text = trimmed
			}
		}
		break
	}
	return buffer
}

// mergeItems joins adjacent text items that share a compatible codepage
// (equal, or one undetermined) and collapses adjacent size deltas, keeping
// the latter.
func mergeItems(items []command.Item) []command.Item {
	out := items[:0]
	for _, it := range items {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			if it.Kind == command.Text && prev.Kind == command.Text && compatibleCodepage(prev.Codepage, it.Codepage) {
				prev.Text += it.Text
				if prev.Codepage == "" {
					prev.Codepage = it.Codepage
				}
				continue
			}
			if it.Kind == command.Style && it.Prop == command.PropSize &&
				prev.Kind == command.Style && prev.Prop == command.PropSize {
				*prev = it
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func compatibleCodepage(a, b string) bool {
	return a == b || a == "" || b == ""
}
