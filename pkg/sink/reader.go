package sink

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/arrowlog/pkg/compression"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/pool"
)

// Reader decodes chunks written by a FileSink.
type Reader struct {
	stream      io.ReadCloser
	closer      io.Closer
	mem         memory.Allocator
	compression compression.Algorithm
}

// NewReader reads the header from r and prepares to decode chunks. mem may
// be nil to use the Go allocator.
func NewReader(r io.Reader, mem memory.Allocator) (*Reader, error) {
	if r == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "reader is nil")
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	br := bufio.NewReader(r)
	algo, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	comp, err := compression.NewCompressor(&compression.Config{Algorithm: algo})
	if err != nil {
		return nil, err
	}
	stream, err := comp.NewReader(br)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed stream")
	}
	return &Reader{stream: stream, mem: mem, compression: algo}, nil
}

// OpenFile opens a file written by a FileSink.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}
	r, err := NewReader(f, nil)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Compression returns the stream compression the file was written with
func (r *Reader) Compression() compression.Algorithm {
	return r.compression
}

// Next decodes the next chunk. It returns io.EOF after the last one. The
// caller releases the returned chunk.
func (r *Reader) Next() (Chunk, error) {
	// The IPC reader copies message bodies into r.mem, so the frame can go
	// back to the pool once the record is decoded.
	frame, err := readFrame(r.stream)
	if err != nil {
		return Chunk{}, err
	}
	defer pool.GlobalBufferPool.Put(frame)

	rdr, err := ipc.NewReader(bytes.NewReader(frame), ipc.WithAllocator(r.mem))
	if err != nil {
		return Chunk{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to decode chunk")
	}
	defer rdr.Release()

	if !rdr.Next() {
		if err := rdr.Err(); err != nil {
			return Chunk{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to decode chunk")
		}
		return Chunk{}, errors.New(errors.ErrorTypeFile, "chunk frame holds no record")
	}
	return recordChunk(rdr.Record())
}

// Close releases the underlying stream and file.
func (r *Reader) Close() error {
	err := r.stream.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadFile reads every chunk of a file. The caller releases the chunks.
func ReadFile(path string) ([]Chunk, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var chunks []Chunk
	for {
		c, err := r.Next()
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			for _, c := range chunks {
				c.Release()
			}
			return nil, err
		}
		chunks = append(chunks, c)
	}
}
