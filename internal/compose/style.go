package compose

import "github.com/posprint/receipt/internal/command"

// Style is the full set of per-character print attributes.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Invert    bool
	Width     int
	Height    int
}

// DefaultStyle is all attributes off at 1x1 size.
func DefaultStyle() Style {
	return Style{Width: 1, Height: 1}
}

// itemSink receives style-delta items as they are produced.
type itemSink interface {
	styleChanged(command.Item)
}

// Styler tracks the current style against the default and emits delta items
// into its sink whenever an attribute actually changes. Width and height
// updates coalesce into a single size delta carrying both values.
type Styler struct {
	current Style
	def     Style
	sink    itemSink
}

// NewStyler returns a tracker at the default style.
func NewStyler() *Styler {
	return &Styler{current: DefaultStyle(), def: DefaultStyle()}
}

func (s *Styler) bind(sink itemSink) {
	s.sink = sink
}

// Current returns the active style.
func (s *Styler) Current() Style {
	return s.current
}

func (s *Styler) emit(it command.Item) {
	if s.sink != nil {
		s.sink.styleChanged(it)
	}
}

// SetBold updates the bold attribute.
func (s *Styler) SetBold(on bool) {
	if s.current.Bold == on {
		return
	}
	s.current.Bold = on
	s.emit(command.StyleBool(command.PropBold, on))
}

// SetItalic updates the italic attribute.
func (s *Styler) SetItalic(on bool) {
	if s.current.Italic == on {
		return
	}
	s.current.Italic = on
	s.emit(command.StyleBool(command.PropItalic, on))
}

// SetUnderline updates the underline attribute.
func (s *Styler) SetUnderline(on bool) {
	if s.current.Underline == on {
		return
	}
	s.current.Underline = on
	s.emit(command.StyleBool(command.PropUnderline, on))
}

// SetInvert updates the white-on-black attribute.
func (s *Styler) SetInvert(on bool) {
	if s.current.Invert == on {
		return
	}
	s.current.Invert = on
	s.emit(command.StyleBool(command.PropInvert, on))
}

// SetWidth updates the character-cell width multiplier.
func (s *Styler) SetWidth(w int) {
	s.SetSize(w, s.current.Height)
}

// SetHeight updates the character-cell height multiplier.
func (s *Styler) SetHeight(h int) {
	s.SetSize(s.current.Width, h)
}

// SetSize updates both multipliers at once.
func (s *Styler) SetSize(w, h int) {
	if s.current.Width == w && s.current.Height == h {
		return
	}
	s.current.Width = w
	s.current.Height = h
	s.emit(command.StyleSize(w, h))
}

// Store returns the delta items that would drive the current style back to
// the default, without emitting them or changing state.
func (s *Styler) Store() []command.Item {
	return delta(s.current, s.def)
}

// Restore returns the delta items that re-apply the current style starting
// from the default.
func (s *Styler) Restore() []command.Item {
	return delta(s.def, s.current)
}

// Reset silently returns the tracker to the default style.
func (s *Styler) Reset() {
	s.current = s.def
}

// delta lists the style items that drive style from into to.
func delta(from, to Style) []command.Item {
	var items []command.Item
	if from.Bold != to.Bold {
		items = append(items, command.StyleBool(command.PropBold, to.Bold))
	}
	if from.Italic != to.Italic {
		items = append(items, command.StyleBool(command.PropItalic, to.Italic))
	}
	if from.Underline != to.Underline {
		items = append(items, command.StyleBool(command.PropUnderline, to.Underline))
	}
	if from.Invert != to.Invert {
		items = append(items, command.StyleBool(command.PropInvert, to.Invert))
	}
	if from.Width != to.Width || from.Height != to.Height {
		items = append(items, command.StyleSize(to.Width, to.Height))
	}
	return items
}
