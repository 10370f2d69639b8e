package wrap

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLinesBasicWrapping(t *testing.T) {
	tests := []struct {
		name string
		text string
		o    Options
		want []string
	}{
		{
			name: "fits on one line",
			text: "hello world",
			o:    Options{Columns: 20, Width: 1},
			want: []string{"hello world"},
		},
		{
			name: "breaks at whitespace",
			text: "the quick brown fox",
			o:    Options{Columns: 10, Width: 1},
			want: []string{"the quick", "brown fox"},
		},
		{
			name: "indent narrows first line only",
			text: "aaaa bbbb cccc",
			o:    Options{Columns: 10, Width: 1, Indent: 6},
			want: []string{"aaaa", "bbbb cccc"},
		},
		{
			name: "soft hyphen break",
			text: "twenty-two",
			o:    Options{Columns: 8, Width: 1},
			want: []string{"twenty-", "two"},
		},
		{
			name: "explicit newlines",
			text: "one\ntwo",
			o:    Options{Columns: 10, Width: 1},
			want: []string{"one", "two"},
		},
		{
			name: "empty lines preserved",
			text: "one\n\ntwo",
			o:    Options{Columns: 10, Width: 1},
			want: []string{"one", "", "two"},
		},
		{
			name: "double width halves the budget",
			text: "abc def",
			o:    Options{Columns: 10, Width: 2},
			want: []string{"abc", "def"},
		},
		{
			name: "trailing space kept on last line",
			text: "hello ",
			o:    Options{Columns: 10, Width: 1},
			want: []string{"hello "},
		},
		{
			name: "trailing space stripped on broken lines",
			text: "aaaa    bbbb",
			o:    Options{Columns: 6, Width: 1},
			want: []string{"aaaa", "bbbb"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.text, tt.o)
			if len(got) != len(tt.want) {
				t.Fatalf("Lines() = %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLinesOversizedToken(t *testing.T) {
	t.Run("prefix fills current line when room remains", func(t *testing.T) {
		got := Lines("abcdefghijklmnopqrstuvwxyz", Options{Columns: 10, Width: 1})
		want := []string{"abcdefghij", "klmnopqrst", "uvwxyz"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("Lines() = %q, want %q", got, want)
		}
	})

	t.Run("no partial prefix under eight cells", func(t *testing.T) {
		// Indent leaves 7 cells: under the 8-cell minimum, so the token
		// starts on a fresh line.
		got := Lines("abcdefghijkl", Options{Columns: 10, Width: 1, Indent: 3})
		want := []string{"", "abcdefghij", "kl"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("Lines() = %q, want %q", got, want)
		}
	})

	t.Run("partial prefix at exactly eight cells", func(t *testing.T) {
		got := Lines("abcdefghijkl", Options{Columns: 10, Width: 1, Indent: 2})
		want := []string{"abcdefgh", "ijkl"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("Lines() = %q, want %q", got, want)
		}
	})
}

func TestLinesBudgetInvariant(t *testing.T) {
	texts := []string{
		"a sequence of words that keeps going for a while",
		"hyphen-ated multi-part tokens every-where",
		"averyveryverylongtokenwithoutanybreaksinit and more",
	}
	for _, width := range []int{1, 2, 3, 4} {
		for _, text := range texts {
			o := Options{Columns: 24, Width: width, Indent: 5}
			lines := Lines(text, o)
			indent := o.Indent
			for i, l := range lines {
				if utf8.RuneCountInString(l)*width+indent > o.Columns {
					t.Errorf("width %d line %d %q exceeds budget", width, i, l)
				}
				indent = 0
			}
		}
	}
}
