package receipt

import "iter"

// DefaultChunkSize is the streaming chunk size when none is given.
const DefaultChunkSize = 512

// Chunk is one slice of the encoded document plus progress metadata.
type Chunk struct {
	Index      int    // 0-based chunk index
	Total      int    // total number of chunks
	Data       []byte // at most the configured chunk size
	BytesSent  int    // bytes delivered including this chunk
	TotalBytes int
	IsLast     bool
}

// StreamOptions configures EncodeStream.
type StreamOptions struct {
	// ChunkSize caps each slice; 0 means DefaultChunkSize, negative is an
	// error.
	ChunkSize int

	// OnChunkSent, when set, runs after each chunk is consumed. Returning
	// an error stops the sequence; blocking in it implements backpressure
	// against slow printer links.
	OnChunkSent func(Chunk) error
}

// EncodeStream finalizes the document like Encode and returns a lazy,
// finite sequence of chunks in strict byte order. Concatenating every
// chunk's Data reproduces Encode's output exactly. Breaking out of the
// range stops production; no transport handles are held.
func (e *Encoder) EncodeStream(opts StreamOptions) (iter.Seq[Chunk], error) {
	size := opts.ChunkSize
	if size == 0 {
		size = DefaultChunkSize
	}
	if size < 1 {
		return nil, configErrorf("chunk size %d must be at least 1", opts.ChunkSize)
	}

	data, err := e.Encode()
	if err != nil {
		return nil, err
	}

	total := (len(data) + size - 1) / size
	seq := func(yield func(Chunk) bool) {
		for i := 0; i < total; i++ {
			start := i * size
			end := min(start+size, len(data))
			c := Chunk{
				Index:      i,
				Total:      total,
				Data:       data[start:end],
				BytesSent:  end,
				TotalBytes: len(data),
				IsLast:     i == total-1,
			}
			if !yield(c) {
				return
			}
			if opts.OnChunkSent != nil {
				if err := opts.OnChunkSent(c); err != nil {
					return
				}
			}
		}
	}
	return seq, nil
}
