package compose

import (
	"testing"

	"github.com/posprint/receipt/internal/command"
)

// collect returns a composer and a pointer to the lines it emits.
func collect(columns int, embedded bool) (*Composer, *[]command.Line) {
	var lines []command.Line
	c := NewComposer(columns, embedded, func(l command.Line) {
		lines = append(lines, l)
	})
	return c, &lines
}

func cellCount(l command.Line) int {
	n := 0
	width := 1
	for _, it := range l.Items {
		switch it.Kind {
		case command.Text:
			n += len([]rune(it.Text)) * width
		case command.Space:
			n += it.Size
		case command.Style:
			if it.Prop == command.PropSize {
				width = it.Width
			}
		}
	}
	return n
}

func TestTextAccumulatesUntilFlush(t *testing.T) {
	c, lines := collect(42, false)
	c.Text("hello", "cp437")
	if len(*lines) != 0 {
		t.Fatal("text alone should not flush")
	}
	if c.Cursor() != 5 {
		t.Errorf("cursor = %d, want 5", c.Cursor())
	}
	c.Flush(FlushOptions{ForceNewline: true})
	if len(*lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(*lines))
	}
	items := (*lines)[0].Items
	if len(items) != 1 || items[0].Kind != command.Text || items[0].Text != "hello" {
		t.Errorf("unexpected line items: %+v", items)
	}
}

func TestTextWrapsAndFlushesIntermediateLines(t *testing.T) {
	c, lines := collect(10, false)
	c.Text("the quick brown fox", "")
	if len(*lines) != 1 {
		t.Fatalf("line count = %d, want 1 (last line stays buffered)", len(*lines))
	}
	if got := (*lines)[0].Items[0].Text; got != "the quick" {
		t.Errorf("first line = %q", got)
	}
	if c.Cursor() != 9 {
		t.Errorf("cursor = %d, want 9 for %q", c.Cursor(), "brown fox")
	}
}

func TestForcedNewlineEmitsEmptyItem(t *testing.T) {
	c, lines := collect(42, false)
	c.Flush(FlushOptions{ForceNewline: true})
	if len(*lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(*lines))
	}
	items := (*lines)[0].Items
	if len(items) != 1 || items[0].Kind != command.Empty {
		t.Errorf("expected a single empty item, got %+v", items)
	}
}

func TestFlushWithoutContentIsSilent(t *testing.T) {
	c, lines := collect(42, false)
	c.Flush(FlushOptions{})
	c.Flush(FlushOptions{ForceFlush: true})
	if len(*lines) != 0 {
		t.Errorf("line count = %d, want 0", len(*lines))
	}
}

func TestStyleDeltasLandInLine(t *testing.T) {
	c, lines := collect(42, false)
	c.Text("a", "")
	c.Styler().SetBold(true)
	c.Text("b", "")
	c.Styler().SetBold(false)
	c.Text("c", "")
	c.Flush(FlushOptions{ForceNewline: true})

	items := (*lines)[0].Items
	want := []struct {
		kind command.Kind
		text string
		on   bool
	}{
		{command.Text, "a", false},
		{command.Style, "", true},
		{command.Text, "b", false},
		{command.Style, "", false},
		{command.Text, "c", false},
	}
	if len(items) != len(want) {
		t.Fatalf("items = %+v, want %d entries", items, len(want))
	}
	for i, w := range want {
		if items[i].Kind != w.kind {
			t.Errorf("item %d kind = %v, want %v", i, items[i].Kind, w.kind)
		}
		if w.kind == command.Text && items[i].Text != w.text {
			t.Errorf("item %d text = %q, want %q", i, items[i].Text, w.text)
		}
		if w.kind == command.Style && items[i].On != w.on {
			t.Errorf("item %d on = %v, want %v", i, items[i].On, w.on)
		}
	}
}

func TestStyleBracketsAcrossLines(t *testing.T) {
	c, lines := collect(42, false)
	c.Styler().SetBold(true)
	c.Text("one", "")
	c.Flush(FlushOptions{ForceNewline: true})
	c.Text("two", "")
	c.Flush(FlushOptions{ForceNewline: true})

	// First line: bold-on delta ... bold-off bracket at the end.
	first := (*lines)[0].Items
	if first[len(first)-1].Kind != command.Style || first[len(first)-1].On {
		t.Errorf("first line should close with bold-off, got %+v", first[len(first)-1])
	}

	// Second line re-opens bold from the stored bracket.
	second := (*lines)[1].Items
	if second[0].Kind != command.Style || !second[0].On {
		t.Errorf("second line should open with bold-on, got %+v", second[0])
	}
}

func TestStoreRestoreRoundTrip(t *testing.T) {
	s := NewStyler()
	s.SetBold(true)
	s.SetSize(2, 3)
	s.SetUnderline(true)

	store := s.Store()
	restore := s.Restore()

	// Applying store then restore must be the identity on the style state.
	state := s.Current()
	apply := func(items []command.Item, st Style) Style {
		for _, it := range items {
			switch it.Prop {
			case command.PropBold:
				st.Bold = it.On
			case command.PropItalic:
				st.Italic = it.On
			case command.PropUnderline:
				st.Underline = it.On
			case command.PropInvert:
				st.Invert = it.On
			case command.PropSize:
				st.Width, st.Height = it.Width, it.Height
			}
		}
		return st
	}
	got := apply(restore, apply(store, state))
	if got != state {
		t.Errorf("store/restore round trip = %+v, want %+v", got, state)
	}
}

func TestRightAlignStripsTrailingSpace(t *testing.T) {
	c, lines := collect(10, false)
	c.Add(command.AlignItem(command.AlignRight), 0)
	c.Text("hello ", "")
	c.Flush(FlushOptions{ForceNewline: true})

	items := (*lines)[0].Items
	if len(items) != 2 {
		t.Fatalf("items = %+v, want [space text]", items)
	}
	if items[0].Kind != command.Space || items[0].Size != 5 {
		t.Errorf("leading pad = %+v, want space(5)", items[0])
	}
	if items[1].Kind != command.Text || items[1].Text != "hello" {
		t.Errorf("text = %+v, want %q", items[1], "hello")
	}
	if got := cellCount((*lines)[0]); got != 10 {
		t.Errorf("total cells = %d, want 10", got)
	}
}

func TestCenterAlignSplitsPadding(t *testing.T) {
	c, lines := collect(11, true)
	c.Add(command.AlignItem(command.AlignCenter), 0)
	c.Text("abcd", "")
	c.Flush(FlushOptions{ForceNewline: true})

	items := (*lines)[0].Items
	// 7 cells remain: left 3, right 4 (embedded keeps the right pad).
	if items[0].Kind != command.Space || items[0].Size != 3 {
		t.Errorf("left pad = %+v, want space(3)", items[0])
	}
	last := items[len(items)-1]
	if last.Kind != command.Space || last.Size != 4 {
		t.Errorf("right pad = %+v, want space(4)", last)
	}
	if got := cellCount((*lines)[0]); got != 11 {
		t.Errorf("total cells = %d, want 11", got)
	}
}

func TestTrailingAlignAppliesToNextLine(t *testing.T) {
	c, lines := collect(10, false)
	c.Text("aa", "")
	c.Add(command.AlignItem(command.AlignRight), 0)
	c.Flush(FlushOptions{ForceNewline: true})
	c.Text("bb", "")
	c.Flush(FlushOptions{ForceNewline: true})

	// First line keeps left alignment: no leading pad.
	if (*lines)[0].Items[0].Kind != command.Text {
		t.Errorf("first line should start with text, got %+v", (*lines)[0].Items[0])
	}
	// Second line is right aligned.
	if (*lines)[1].Items[0].Kind != command.Space || (*lines)[1].Items[0].Size != 8 {
		t.Errorf("second line should start with space(8), got %+v", (*lines)[1].Items[0])
	}
}

func TestEmbeddedLinePaddedToColumns(t *testing.T) {
	c, lines := collect(12, true)
	c.Text("hi", "")
	c.Flush(FlushOptions{ForceNewline: true})
	if got := cellCount((*lines)[0]); got != 12 {
		t.Errorf("embedded line cells = %d, want 12", got)
	}
}

func TestAddOverflowFlushesFirst(t *testing.T) {
	c, lines := collect(10, false)
	c.Text("aaaa", "")
	c.Raw(command.RawItem(command.Raw, []byte{0x01}), 8)
	if len(*lines) != 1 {
		t.Fatalf("overflow should flush the pending line")
	}
	if c.Cursor() != 8 {
		t.Errorf("cursor = %d, want 8", c.Cursor())
	}
}

func TestMergeAdjacentTextSharingCodepage(t *testing.T) {
	c, lines := collect(42, false)
	c.Add(command.TextItem("ab", "cp437"), 2)
	c.Add(command.TextItem("cd", ""), 2)
	c.Add(command.TextItem("ef", "cp437"), 2)
	c.Add(command.TextItem("gh", "cp850"), 2)
	c.Flush(FlushOptions{ForceNewline: true})

	items := (*lines)[0].Items
	if len(items) != 2 {
		t.Fatalf("items = %+v, want two merged text runs", items)
	}
	if items[0].Text != "abcdef" || items[0].Codepage != "cp437" {
		t.Errorf("first run = %+v", items[0])
	}
	if items[1].Text != "gh" || items[1].Codepage != "cp850" {
		t.Errorf("second run = %+v", items[1])
	}
}

func TestLineHeightTracksSizeDeltas(t *testing.T) {
	c, lines := collect(42, false)
	c.Text("a", "")
	c.Styler().SetSize(2, 4)
	c.Text("b", "")
	c.Styler().SetSize(1, 2)
	c.Text("c", "")
	c.Flush(FlushOptions{ForceNewline: true})

	if got := (*lines)[0].Height; got != 4 {
		t.Errorf("line height = %d, want 4", got)
	}

	// The next line inherits height 2 through the stored bracket.
	c.Text("d", "")
	c.Flush(FlushOptions{ForceNewline: true})
	if got := (*lines)[1].Height; got != 2 {
		t.Errorf("second line height = %d, want 2", got)
	}
}

func TestEndForcesNextAddToFlush(t *testing.T) {
	c, lines := collect(10, false)
	c.Text("hi", "")
	c.End()
	c.Text("next", "")
	if len(*lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(*lines))
	}
	if got := (*lines)[0].Items[0].Text; got != "hi" {
		t.Errorf("first line = %q, want %q", got, "hi")
	}
}
