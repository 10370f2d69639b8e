package rasterize

import "fmt"

// RLE control-byte scheme compatible with ESC/POS GS v 0 mode 1: a control
// byte >= 0x80 introduces a run (the next byte repeated ctrl-0x80+2 times,
// 2..129); a control byte < 0x80 introduces ctrl+1 literal bytes (1..128).
const (
	maxRunLength     = 129
	maxLiteralLength = 128
	runControlBase   = 0x80
)

// RLEResult reports the outcome of a compression attempt. When Compressed is
// false, Data is an unmodified copy of the input.
type RLEResult struct {
	Data           []byte
	Compressed     bool
	OriginalSize   int
	CompressedSize int
	Ratio          float64
}

// CompressRLE run-length encodes d. If the encoded form is not strictly
// smaller than the input, the uncompressed copy is returned instead.
//
// The literal-vs-run heuristic is deliberately byte-compatible with the
// streams printers were validated against: a run longer than 129 restarts,
// and a leftover of one is emitted as a literal-of-one before literal
// accumulation resumes. Alternating three-byte patterns at run boundaries
// may miss a one-byte win; do not rework without a wire-level baseline.
func CompressRLE(d []byte) RLEResult {
	out := make([]byte, 0, len(d))
	i := 0
	for i < len(d) {
		r := runLength(d, i)
		if r >= 2 {
			b := d[i]
			for r > 0 {
				chunk := min(r, maxRunLength)
				if chunk >= 2 {
					out = append(out, byte(runControlBase+chunk-2), b)
				} else {
					out = append(out, 0x00, b)
				}
				i += chunk
				r -= chunk
			}
			continue
		}
		start := i
		for i < len(d) && i-start < maxLiteralLength {
			if i+1 < len(d) && d[i] == d[i+1] {
				break
			}
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, d[start:i]...)
	}

	if len(out) >= len(d) {
		copied := make([]byte, len(d))
		copy(copied, d)
		return RLEResult{
			Data:           copied,
			Compressed:     false,
			OriginalSize:   len(d),
			CompressedSize: len(d),
			Ratio:          1,
		}
	}
	res := RLEResult{
		Data:           out,
		Compressed:     true,
		OriginalSize:   len(d),
		CompressedSize: len(out),
	}
	if len(d) > 0 {
		res.Ratio = float64(len(out)) / float64(len(d))
	}
	return res
}

// runLength counts consecutive bytes equal to d[i], uncapped.
func runLength(d []byte, i int) int {
	r := 1
	for i+r < len(d) && d[i+r] == d[i] {
		r++
	}
	return r
}

// DecompressRLE is the inverse of CompressRLE's compressed form. It is used
// by tests and by callers that need to verify round-trips.
func DecompressRLE(d []byte) ([]byte, error) {
	out := make([]byte, 0, len(d)*2)
	i := 0
	for i < len(d) {
		ctrl := d[i]
		if ctrl >= runControlBase {
			if i+1 >= len(d) {
				return nil, fmt.Errorf("rle: truncated run at offset %d", i)
			}
			count := int(ctrl-runControlBase) + 2
			b := d[i+1]
			for j := 0; j < count; j++ {
				out = append(out, b)
			}
			i += 2
			continue
		}
		count := int(ctrl) + 1
		if i+1+count > len(d) {
			return nil, fmt.Errorf("rle: truncated literal block at offset %d", i)
		}
		out = append(out, d[i+1:i+1+count]...)
		i += 1 + count
	}
	return out, nil
}
