package receipt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTableSingleRow(t *testing.T) {
	enc := newTestEncoder(t)
	data, err := enc.Table(
		[]TableColumn{
			{Width: 10},
			{Width: 10, MarginLeft: 2},
		},
		[][]string{{"left", "right"}},
	).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// Cell one padded to 10, two margin cells, cell two padded to 10.
	want := "left" + strings.Repeat(" ", 6) + "  " + "right" + strings.Repeat(" ", 5)
	if !bytes.Contains(data, []byte(want)) {
		t.Errorf("Encode() = %q, want to contain %q", data, want)
	}
}

func TestTableWrapsTallCells(t *testing.T) {
	enc := newTestEncoder(t)
	lines, err := enc.Table(
		[]TableColumn{
			{Width: 6},
			{Width: 6, MarginLeft: 1},
		},
		[][]string{{"wrap me please", "x"}},
	).Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("row spans %d lines, want 3", len(lines))
	}
}

func TestTableVerticalAlignBottom(t *testing.T) {
	enc := newTestEncoder(t)
	data, err := enc.Table(
		[]TableColumn{
			{Width: 6},
			{Width: 6, VerticalAlign: "bottom"},
		},
		[][]string{{"tall text", "low"}},
	).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	rows := bytes.Split(data, []byte("\n\r"))
	if len(rows) < 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if bytes.Contains(rows[0], []byte("low")) {
		t.Error("bottom-aligned cell appeared on the first line")
	}
	if !bytes.Contains(rows[len(rows)-2], []byte("low")) {
		t.Errorf("bottom-aligned cell missing from the last row line: %q", rows)
	}
}

func TestTableValidation(t *testing.T) {
	t.Run("width overflow", func(t *testing.T) {
		enc := newTestEncoder(t)
		enc.Table([]TableColumn{{Width: 50}}, nil)
		if !errors.Is(enc.Err(), ErrValidation) {
			t.Errorf("Err() = %v, want ErrValidation", enc.Err())
		}
	})
	t.Run("no columns", func(t *testing.T) {
		enc := newTestEncoder(t)
		enc.Table(nil, nil)
		if !errors.Is(enc.Err(), ErrValidation) {
			t.Errorf("Err() = %v, want ErrValidation", enc.Err())
		}
	})
}

func TestRule(t *testing.T) {
	t.Run("single full width", func(t *testing.T) {
		enc := newTestEncoder(t)
		data, err := enc.Rule().Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if !bytes.Contains(data, bytes.Repeat([]byte{0xC4}, 42)) {
			t.Errorf("missing 42 single-rule glyphs: % X", data)
		}
	})
	t.Run("double partial width", func(t *testing.T) {
		enc := newTestEncoder(t)
		data, err := enc.Rule(RuleOptions{Style: "double", Width: 10}).Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if !bytes.Contains(data, bytes.Repeat([]byte{0xCD}, 10)) {
			t.Errorf("missing 10 double-rule glyphs: % X", data)
		}
	})
}

func TestBoxSingleBorder(t *testing.T) {
	enc := newTestEncoder(t)
	data, err := enc.Box(BoxOptions{Width: 20}, func(n *Encoder) {
		n.Text("hi")
	}).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	top := append([]byte{0xDA}, bytes.Repeat([]byte{0xC4}, 18)...)
	top = append(top, 0xBF)
	bottom := append([]byte{0xC0}, bytes.Repeat([]byte{0xC4}, 18)...)
	bottom = append(bottom, 0xD9)
	if !bytes.Contains(data, top) {
		t.Errorf("missing top border: % X", data)
	}
	if !bytes.Contains(data, bottom) {
		t.Errorf("missing bottom border: % X", data)
	}
	body := append([]byte{0xB3}, []byte("hi")...)
	body = append(body, bytes.Repeat([]byte{' '}, 16)...)
	body = append(body, 0xB3)
	if !bytes.Contains(data, body) {
		t.Errorf("missing body line: %q", data)
	}
}

func TestBoxBorderless(t *testing.T) {
	enc := newTestEncoder(t)
	// A leading line gets the codepage switch out of the way so the body
	// bytes are contiguous.
	data, err := enc.Line("head").Box(BoxOptions{Style: "none", Width: 12, PaddingLeft: 2}, func(n *Encoder) {
		n.Text("pad")
	}).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if bytes.IndexByte(data, 0xB3) >= 0 || bytes.IndexByte(data, 0xDA) >= 0 {
		t.Error("borderless box should not draw frame glyphs")
	}
	if !bytes.Contains(data, []byte("  pad")) {
		t.Errorf("missing padded body: %q", data)
	}
}

func TestBoxTooNarrow(t *testing.T) {
	enc := newTestEncoder(t)
	enc.Box(BoxOptions{Width: 4, PaddingLeft: 2, PaddingRight: 2}, func(n *Encoder) {})
	if !errors.Is(enc.Err(), ErrValidation) {
		t.Errorf("Err() = %v, want ErrValidation", enc.Err())
	}
}

func TestBoxDouble(t *testing.T) {
	enc := newTestEncoder(t)
	data, err := enc.Box(BoxOptions{Style: "double", Width: 10}, func(n *Encoder) {
		n.Text("x")
	}).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Contains(data, []byte{0xC9}) || !bytes.Contains(data, []byte{0xBC}) {
		t.Errorf("missing double-border corners: % X", data)
	}
}
