package pool

import (
	"bytes"
	"testing"
)

func TestAcquireLengthAndCapacity(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantCap int
	}{
		{"zero", 0, 1},
		{"one", 1, 1},
		{"exact power", 64, 64},
		{"rounds up", 65, 128},
		{"large", 5000, 8192},
	}
	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := p.Acquire(tt.n)
			if len(buf) != tt.n {
				t.Errorf("Acquire(%d) len = %d, want %d", tt.n, len(buf), tt.n)
			}
			if cap(buf) != tt.wantCap {
				t.Errorf("Acquire(%d) cap = %d, want %d", tt.n, cap(buf), tt.wantCap)
			}
		})
	}
}

func TestReleaseRecycles(t *testing.T) {
	p := New()
	buf := p.Acquire(100)
	for i := range buf {
		buf[i] = 0xFF
	}
	p.Release(buf)

	if got := p.Len(100); got != 1 {
		t.Fatalf("pooled count = %d, want 1", got)
	}

	again := p.Acquire(100)
	if !bytes.Equal(again, make([]byte, 100)) {
		t.Error("recycled buffer was not zero-filled")
	}
	if got := p.Len(100); got != 0 {
		t.Errorf("pooled count after reuse = %d, want 0", got)
	}
}

func TestBucketDepthCap(t *testing.T) {
	p := New()
	for i := 0; i < 15; i++ {
		p.Release(make([]byte, 256))
	}
	if got := p.Len(256); got != maxPerBucket {
		t.Errorf("bucket depth = %d, want %d", got, maxPerBucket)
	}
}

func TestOversizeNeverPooled(t *testing.T) {
	p := New()
	big := make([]byte, maxPooledSize+1)
	p.Release(big)
	for size, bucket := range p.buckets {
		if len(bucket) > 0 {
			t.Errorf("oversize buffer landed in bucket %d", size)
		}
	}

	// Oversize acquire comes from a plain allocation with exact capacity.
	buf := p.Acquire(maxPooledSize + 1)
	if len(buf) != maxPooledSize+1 {
		t.Errorf("oversize acquire len = %d", len(buf))
	}
}

func TestClear(t *testing.T) {
	p := New()
	p.Release(make([]byte, 64))
	p.Release(make([]byte, 1024))
	p.Clear()
	if p.Len(64) != 0 || p.Len(1024) != 0 {
		t.Error("Clear left pooled buffers behind")
	}
}

func TestReleaseOddCapacity(t *testing.T) {
	// Buffers with non-power-of-two capacity must land in a bucket whose
	// size they can actually serve.
	p := New()
	odd := make([]byte, 100) // cap 100, bucket 64
	p.Release(odd)
	buf := p.Acquire(64)
	if len(buf) != 64 {
		t.Fatalf("len = %d, want 64", len(buf))
	}
	if cap(buf) < 64 {
		t.Errorf("bucket served undersized buffer: cap %d", cap(buf))
	}
}
