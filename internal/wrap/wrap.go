// Package wrap breaks text against a character-cell budget.
//
// Budgets are expressed in cells: every character occupies Width cells (the
// active width multiplier), and the first line may start with an indent of
// cells already consumed by earlier items on the line.
package wrap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options controls a wrapping pass.
type Options struct {
	// Columns is the total cell budget per line.
	Columns int

	// Width is the per-character cell width multiplier, >= 1.
	Width int

	// Indent is the number of cells already consumed on the first line.
	Indent int
}

// minSplitCells is the smallest remainder of the current line worth filling
// with the prefix of an oversized token, in units of Width.
const minSplitCells = 8

// Lines wraps text so that every produced line fits the budget:
// runes(line)*Width + indent <= Columns, with indent applied to the first
// line only. Lines break at whitespace, after soft hyphens, and at explicit
// newlines; explicit empty lines are preserved. Trailing whitespace is
// stripped from every line except the last.
func Lines(text string, o Options) []string {
	if o.Width < 1 {
		o.Width = 1
	}
	if o.Columns < o.Width {
		o.Columns = o.Width
	}

	var lines []string
	indent := o.Indent
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, o.Columns, o.Width, indent)...)
		indent = 0
	}

	for i := 0; i < len(lines)-1; i++ {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return lines
}

func wrapParagraph(para string, columns, width, indent int) []string {
	var lines []string
	var cur strings.Builder
	cells := indent

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		cells = 0
	}

	for _, tok := range tokenize(para) {
		tokCells := utf8.RuneCountInString(tok) * width

		if isSpace(tok) {
			if cells+tokCells <= columns {
				cur.WriteString(tok)
				cells += tokCells
			} else {
				// Whitespace at a break point is dropped, not carried.
				flush()
			}
			continue
		}

		if cells+tokCells <= columns {
			cur.WriteString(tok)
			cells += tokCells
			continue
		}

		if tokCells <= columns {
			flush()
			cur.WriteString(tok)
			cells = tokCells
			continue
		}

		// Token exceeds a whole line: split character-wise. A partial
		// prefix joins the current line only when enough room remains to
		// be worth it.
		runes := []rune(tok)
		remaining := columns - cells
		if remaining >= minSplitCells*width {
			take := remaining / width
			cur.WriteString(string(runes[:take]))
			runes = runes[take:]
		}
		flush()
		perLine := columns / width
		for len(runes) > perLine {
			lines = append(lines, string(runes[:perLine]))
			runes = runes[perLine:]
		}
		cur.WriteString(string(runes))
		cells = len(runes) * width
	}

	lines = append(lines, cur.String())
	return lines
}

// tokenize splits a paragraph into alternating whitespace runs, soft-hyphen
// word pieces ("exam-" + "ple"), and plain words. A hyphen breaks a word
// only when a word character follows it.
func tokenize(para string) []string {
	var toks []string
	i := 0
	for i < len(para) {
		j := i
		if para[i] == ' ' || para[i] == '\t' {
			for j < len(para) && (para[j] == ' ' || para[j] == '\t') {
				j++
			}
			toks = append(toks, para[i:j])
		} else {
			for j < len(para) && para[j] != ' ' && para[j] != '\t' {
				j++
			}
			toks = append(toks, splitSoftHyphens(para[i:j])...)
		}
		i = j
	}
	return toks
}

// splitSoftHyphens cuts a word after each hyphen that is followed by a
// word character: "twenty-two" -> "twenty-", "two".
func splitSoftHyphens(word string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(word)-1; i++ {
		next, _ := utf8.DecodeRuneInString(word[i+1:])
		if word[i] == '-' && i > start && (next == '_' || unicode.IsLetter(next) || unicode.IsDigit(next)) {
			parts = append(parts, word[start:i+1])
			start = i + 1
		}
	}
	parts = append(parts, word[start:])
	return parts
}

func isSpace(tok string) bool {
	return tok != "" && (tok[0] == ' ' || tok[0] == '\t')
}
