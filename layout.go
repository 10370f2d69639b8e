package receipt

import (
	"strings"
	"unicode/utf8"

	"github.com/posprint/receipt/internal/command"
	"github.com/posprint/receipt/internal/compose"
)

// TableColumn describes one table column.
type TableColumn struct {
	Width         int
	MarginLeft    int
	MarginRight   int
	Align         Align
	VerticalAlign string // "top" (default) or "bottom"
}

// RuleOptions configures a horizontal rule.
type RuleOptions struct {
	Style string // "single" (default) or "double"
	Width int    // 0 = full line
}

// BoxOptions configures a bordered box.
type BoxOptions struct {
	Style        string // "single" (default), "double" or "none"
	Width        int    // 0 = full line
	MarginLeft   int
	PaddingLeft  int
	PaddingRight int
	Align        Align
}

// Table renders rows of cells. Every cell is laid out by a nested embedded
// encoder sized to its column width, then cells in a row are padded to the
// tallest cell and stitched together line by line.
func (e *Encoder) Table(columns []TableColumn, rows [][]string) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("table not allowed in embedded mode"))
	}
	if len(columns) == 0 {
		return e.fail(validationErrorf("table needs at least one column"))
	}
	total := 0
	for i, col := range columns {
		if col.Width < 1 {
			return e.fail(validationErrorf("table column %d width %d invalid", i, col.Width))
		}
		total += col.MarginLeft + col.Width + col.MarginRight
	}
	if total > e.columns {
		return e.fail(validationErrorf("table width %d exceeds %d columns", total, e.columns))
	}

	e.composer.Flush(compose.FlushOptions{ForceFlush: true})
	for _, row := range rows {
		if err := e.tableRow(columns, row); err != nil {
			return e.fail(err)
		}
	}
	return e
}

func (e *Encoder) tableRow(columns []TableColumn, row []string) error {
	cells := make([][]command.Line, len(columns))
	height := 0
	for i, col := range columns {
		content := ""
		if i < len(row) {
			content = row[i]
		}
		nested := e.nested(col.Width)
		nested.Align(col.Align).Text(content)
		lines, err := nested.commandLines()
		if err != nil {
			return err
		}
		cells[i] = lines
		if len(lines) > height {
			height = len(lines)
		}
	}
	if height == 0 {
		height = 1
	}

	// Pad shorter cells with blank lines per their vertical alignment.
	for i, col := range columns {
		for len(cells[i]) < height {
			blank := command.Line{
				Items:  []command.Item{command.SpaceItem(col.Width)},
				Height: 1,
			}
			if col.VerticalAlign == "bottom" {
				cells[i] = append([]command.Line{blank}, cells[i]...)
			} else {
				cells[i] = append(cells[i], blank)
			}
		}
	}

	for li := 0; li < height; li++ {
		for i, col := range columns {
			if col.MarginLeft > 0 {
				e.composer.Space(col.MarginLeft)
			}
			for _, it := range cells[i][li].Items {
				e.composer.Raw(it, itemCells(it))
			}
			if col.MarginRight > 0 {
				e.composer.Space(col.MarginRight)
			}
		}
		e.composer.Flush(compose.FlushOptions{ForceNewline: true, IgnoreAlignment: true})
	}
	return nil
}

// itemCells reports the cells an already-composed item occupies. Embedded
// cell lines carry only text, space and style items; size brackets occupy
// no cells themselves.
func itemCells(it command.Item) int {
	switch it.Kind {
	case command.Text:
		return utf8.RuneCountInString(it.Text)
	case command.Space:
		return it.Size
	}
	return 0
}

// Rule draws a horizontal rule across the given width.
func (e *Encoder) Rule(opts ...RuleOptions) *Encoder {
	if e.err != nil {
		return e
	}
	o := RuleOptions{Style: "single"}
	if len(opts) > 0 {
		o = opts[0]
		if o.Style == "" {
			o.Style = "single"
		}
	}
	width := o.Width
	if width < 1 || width > e.columns {
		width = e.columns
	}
	glyph := "─"
	if o.Style == "double" {
		glyph = "═"
	}
	e.composer.Flush(compose.FlushOptions{ForceFlush: true})
	return e.Text(strings.Repeat(glyph, width)).Newline()
}

// boxGlyphs holds the frame characters per border style: top-left, top,
// top-right, side, bottom-left, bottom-right.
var boxGlyphs = map[string][6]string{
	"single": {"┌", "─", "┐", "│", "└", "┘"},
	"double": {"╔", "═", "╗", "║", "╚", "╝"},
}

// Box renders contents inside a bordered (or borderless) block. The
// contents callback receives a nested embedded encoder sized to the inner
// width; top-level-only operations error inside it.
func (e *Encoder) Box(opts BoxOptions, contents func(*Encoder)) *Encoder {
	if e.err != nil {
		return e
	}
	if e.embedded {
		return e.fail(contextErrorf("box not allowed in embedded mode"))
	}
	if opts.Style == "" {
		opts.Style = "single"
	}
	if opts.Style != "none" {
		if _, ok := boxGlyphs[opts.Style]; !ok {
			return e.fail(validationErrorf("unknown box style %q", opts.Style))
		}
	}
	width := opts.Width
	if width < 1 || width > e.columns-opts.MarginLeft {
		width = e.columns - opts.MarginLeft
	}
	border := 1
	if opts.Style == "none" {
		border = 0
	}
	inner := width - 2*border - opts.PaddingLeft - opts.PaddingRight
	if inner < 1 {
		return e.fail(validationErrorf("box too narrow: %d inner columns", inner))
	}

	nested := e.nested(inner)
	nested.Align(opts.Align)
	contents(nested)
	lines, err := nested.commandLines()
	if err != nil {
		return e.fail(err)
	}

	e.composer.Flush(compose.FlushOptions{ForceFlush: true})

	g, bordered := boxGlyphs[opts.Style], opts.Style != "none"
	if bordered {
		e.marginSpace(opts.MarginLeft)
		e.Text(g[0] + strings.Repeat(g[1], width-2) + g[2]).Newline()
	}
	for _, line := range lines {
		e.marginSpace(opts.MarginLeft)
		if bordered {
			e.composer.Raw(command.TextItem(g[3], ""), 1)
		}
		if opts.PaddingLeft > 0 {
			e.composer.Space(opts.PaddingLeft)
		}
		for _, it := range line.Items {
			e.composer.Raw(it, itemCells(it))
		}
		if opts.PaddingRight > 0 {
			e.composer.Space(opts.PaddingRight)
		}
		if bordered {
			e.composer.Raw(command.TextItem(g[3], ""), 1)
		}
		e.composer.Flush(compose.FlushOptions{ForceNewline: true, IgnoreAlignment: true})
	}
	if bordered {
		e.marginSpace(opts.MarginLeft)
		e.Text(g[4] + strings.Repeat(g[1], width-2) + g[5]).Newline()
	}
	return e
}

func (e *Encoder) marginSpace(n int) {
	if n > 0 {
		e.composer.Space(n)
	}
}
