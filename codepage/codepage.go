// Package codepage encodes text into the single-byte legacy codepages used
// by receipt printers.
//
// The encoder interface is intentionally small so alternative
// implementations (hardware lookup tables, printer-specific extensions) can
// be swapped in; the default implementation is backed by
// golang.org/x/text/encoding/charmap.
package codepage

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Run is a maximal slice of encoded text sharing one codepage.
type Run struct {
	Codepage string
	Bytes    []byte
}

// Encoder encodes UTF-8 text into named single-byte codepages.
type Encoder interface {
	// Supports reports whether the named codepage is available.
	Supports(name string) bool

	// Encode encodes text into the named codepage. Unmappable code points
	// are substituted with '?'; the substitution is deterministic.
	Encode(text, name string) ([]byte, error)

	// AutoEncode segments text into maximal runs, choosing for each run the
	// first codepage in candidates able to represent it. Candidate order is
	// preserved: earlier entries always win when several could serve.
	AutoEncode(text string, candidates []string) []Run
}

// substitute replaces unmappable code points.
const substitute = '?'

// charmaps names every codepage the default encoder can produce.
var charmaps = map[string]*charmap.Charmap{
	"cp437":       charmap.CodePage437,
	"cp850":       charmap.CodePage850,
	"cp852":       charmap.CodePage852,
	"cp855":       charmap.CodePage855,
	"cp858":       charmap.CodePage858,
	"cp860":       charmap.CodePage860,
	"cp862":       charmap.CodePage862,
	"cp863":       charmap.CodePage863,
	"cp865":       charmap.CodePage865,
	"cp866":       charmap.CodePage866,
	"windows1250": charmap.Windows1250,
	"windows1251": charmap.Windows1251,
	"windows1252": charmap.Windows1252,
	"windows1253": charmap.Windows1253,
	"windows1254": charmap.Windows1254,
	"iso8859-2":   charmap.ISO8859_2,
	"iso8859-7":   charmap.ISO8859_7,
	"iso8859-15":  charmap.ISO8859_15,
	"koi8-r":      charmap.KOI8R,
}

type defaultEncoder struct{}

// Default returns the charmap-backed encoder.
func Default() Encoder {
	return defaultEncoder{}
}

func (defaultEncoder) Supports(name string) bool {
	if name == "ascii" {
		return true
	}
	_, ok := charmaps[name]
	return ok
}

func (defaultEncoder) Encode(text, name string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	if name == "ascii" {
		for _, r := range text {
			if r < 0x80 {
				out = append(out, byte(r))
			} else {
				out = append(out, substitute)
			}
		}
		return out, nil
	}
	cm, ok := charmaps[name]
	if !ok {
		return nil, fmt.Errorf("codepage: unknown codepage %q", name)
	}
	for _, r := range text {
		if b, ok := cm.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, substitute)
		}
	}
	return out, nil
}

func (e defaultEncoder) AutoEncode(text string, candidates []string) []Run {
	var runs []Run
	var cur *Run

	usable := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if e.Supports(c) {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		usable = []string{"cp437"}
	}

	for _, r := range text {
		name := ""
		if cur != nil && encodable(r, cur.Codepage) {
			name = cur.Codepage
		} else {
			for _, c := range usable {
				if encodable(r, c) {
					name = c
					break
				}
			}
		}
		if name == "" {
			// Unmappable everywhere: substitute inside the current run.
			if cur == nil {
				runs = append(runs, Run{Codepage: usable[0]})
				cur = &runs[len(runs)-1]
			}
			cur.Bytes = append(cur.Bytes, substitute)
			continue
		}
		if cur == nil || cur.Codepage != name {
			runs = append(runs, Run{Codepage: name})
			cur = &runs[len(runs)-1]
		}
		b, _ := encodeRune(r, name)
		cur.Bytes = append(cur.Bytes, b)
	}
	return runs
}

func encodable(r rune, name string) bool {
	_, ok := encodeRune(r, name)
	return ok
}

func encodeRune(r rune, name string) (byte, bool) {
	if name == "ascii" {
		if r < 0x80 {
			return byte(r), true
		}
		return 0, false
	}
	cm, ok := charmaps[name]
	if !ok {
		return 0, false
	}
	return cm.EncodeRune(r)
}
