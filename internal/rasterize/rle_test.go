package rasterize

import (
	"bytes"
	"testing"
)

func repeatByte(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestCompressRLE(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{
			name: "run of three",
			in:   []byte{0xAA, 0xAA, 0xAA},
			want: []byte{0x81, 0xAA},
		},
		{
			name: "run of exactly 129",
			in:   repeatByte(0x55, 129),
			want: []byte{0xFF, 0x55},
		},
		{
			name: "run of 130 restarts with literal of one",
			in:   repeatByte(0x55, 130),
			want: []byte{0xFF, 0x55, 0x00, 0x55},
		},
		{
			name: "capped run then literals",
			in:   append(repeatByte(0xAA, 130), 0x01, 0x02, 0x03, 0x04, 0x05),
			want: []byte{0xFF, 0xAA, 0x00, 0xAA, 0x04, 0x01, 0x02, 0x03, 0x04, 0x05},
		},
		{
			name: "literal stops before run",
			in:   []byte{0x01, 0x02, 0x03, 0x07, 0x07, 0x07, 0x07},
			want: []byte{0x02, 0x01, 0x02, 0x03, 0x82, 0x07},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompressRLE(tt.in)
			if !got.Compressed {
				t.Fatalf("CompressRLE() reported uncompressed, data = % X", got.Data)
			}
			if !bytes.Equal(got.Data, tt.want) {
				t.Errorf("CompressRLE() = % X, want % X", got.Data, tt.want)
			}
			if got.OriginalSize != len(tt.in) || got.CompressedSize != len(tt.want) {
				t.Errorf("sizes = %d/%d, want %d/%d",
					got.OriginalSize, got.CompressedSize, len(tt.in), len(tt.want))
			}
			back, err := DecompressRLE(got.Data)
			if err != nil {
				t.Fatalf("DecompressRLE() error = %v", err)
			}
			if !bytes.Equal(back, tt.in) {
				t.Errorf("round trip mismatch: got % X", back)
			}
		})
	}
}

func TestCompressRLEIncompressible(t *testing.T) {
	in := make([]byte, 64)
	for i := range in {
		in[i] = byte(i)
	}
	got := CompressRLE(in)
	if got.Compressed {
		t.Fatal("distinct bytes should not compress")
	}
	if !bytes.Equal(got.Data, in) {
		t.Error("uncompressed result should equal the input")
	}
	if got.Ratio != 1 {
		t.Errorf("ratio = %v, want 1", got.Ratio)
	}
	// The returned buffer is a copy, never an alias.
	got.Data[0] = 0xFF
	if in[0] == 0xFF {
		t.Error("uncompressed result aliases the input")
	}
}

func TestCompressRLELongLiteral(t *testing.T) {
	// 200 distinct bytes force a literal-block restart at 128.
	in := make([]byte, 200)
	for i := range in {
		in[i] = byte(i)
	}
	// Force the compressed branch by appending a long run.
	in = append(in, repeatByte(0xEE, 100)...)
	got := CompressRLE(in)
	if !got.Compressed {
		t.Fatal("expected compression")
	}
	if got.Data[0] != 0x7F {
		t.Errorf("first literal header = %02X, want 7F", got.Data[0])
	}
	back, err := DecompressRLE(got.Data)
	if err != nil {
		t.Fatalf("DecompressRLE() error = %v", err)
	}
	if !bytes.Equal(back, in) {
		t.Error("round trip mismatch")
	}
}

func TestCompressRLERoundTripRandomish(t *testing.T) {
	// Deterministic pseudo-random pattern with mixed runs and literals.
	in := make([]byte, 0, 4096)
	state := uint32(0x1234)
	for len(in) < 4096 {
		state = state*1664525 + 1013904223
		b := byte(state >> 24)
		run := int(state>>16)%7 + 1
		for i := 0; i < run; i++ {
			in = append(in, b)
		}
	}
	got := CompressRLE(in)
	if got.Compressed {
		back, err := DecompressRLE(got.Data)
		if err != nil {
			t.Fatalf("DecompressRLE() error = %v", err)
		}
		if !bytes.Equal(back, in) {
			t.Fatal("round trip mismatch")
		}
	} else if !bytes.Equal(got.Data, in) {
		t.Fatal("uncompressed result should equal the input")
	}
}

func TestDecompressRLETruncated(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"run missing value", []byte{0x85}},
		{"literal missing bytes", []byte{0x04, 0x01, 0x02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecompressRLE(tt.in); err == nil {
				t.Error("DecompressRLE() should fail on truncated input")
			}
		})
	}
}

func TestCompressRLEEmpty(t *testing.T) {
	got := CompressRLE(nil)
	if got.Compressed || len(got.Data) != 0 {
		t.Errorf("empty input: compressed=%v len=%d", got.Compressed, len(got.Data))
	}
}
