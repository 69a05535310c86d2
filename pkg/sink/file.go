package sink

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/compression"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/metrics"
	"github.com/ajitpratap0/arrowlog/pkg/pool"
)

// IPC body compression codecs.
const (
	IPCNone = "none"
	IPCLZ4  = "lz4"
	IPCZstd = "zstd"
)

// FileOptions configures a FileSink.
type FileOptions struct {
	// Compression compresses the whole stream after the header. Nil means none.
	Compression *compression.Config
	// IPCCompression compresses Arrow record bodies: none, lz4 or zstd.
	IPCCompression string
	// Allocator is used by the IPC writer. Defaults to the Go allocator.
	Allocator memory.Allocator
	Logger    *zap.Logger
}

// FileSink writes chunks as framed Arrow IPC streams.
type FileSink struct {
	mu      sync.Mutex
	file    *os.File
	counter *countingWriter
	buf     *bufio.Writer
	stream  io.WriteCloser
	ipcOpts []ipc.Option
	logger  *zap.Logger
	chunks  int64
	closed  bool
}

// NewFileSink creates or truncates path and writes the file header.
func NewFileSink(path string, opts FileOptions) (*FileSink, error) {
	f, err := os.Create(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create file").
			WithDetail("path", path)
	}
	s, err := NewStreamSink(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.file = f
	return s, nil
}

// NewStreamSink writes the file format to w. Closing the sink does not close w.
func NewStreamSink(w io.Writer, opts FileOptions) (*FileSink, error) {
	if w == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "writer is nil")
	}
	comp, err := compression.NewCompressor(opts.Compression)
	if err != nil {
		return nil, err
	}

	mem := opts.Allocator
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	ipcOpts := []ipc.Option{ipc.WithAllocator(mem)}
	switch opts.IPCCompression {
	case "", IPCNone:
	case IPCLZ4:
		ipcOpts = append(ipcOpts, ipc.WithLZ4())
	case IPCZstd:
		ipcOpts = append(ipcOpts, ipc.WithZstd())
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported ipc compression %q", opts.IPCCompression)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	counter := &countingWriter{w: w}
	buf := bufio.NewWriter(counter)
	if err := writeHeader(buf, comp.Algorithm()); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to write file header")
	}
	stream, err := comp.NewWriter(buf)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSink, "failed to create compressed stream")
	}

	logger.Debug("file sink opened",
		zap.String("compression", string(comp.Algorithm())),
		zap.String("ipc_compression", opts.IPCCompression))
	return &FileSink{
		counter: counter,
		buf:     buf,
		stream:  stream,
		ipcOpts: ipcOpts,
		logger:  logger,
	}, nil
}

func (s *FileSink) Send(_ context.Context, chunk Chunk) error {
	rec := chunkRecord(chunk)
	defer rec.Release()

	frame := pool.GetBuffer()
	defer pool.PutBuffer(frame)

	opts := make([]ipc.Option, 0, len(s.ipcOpts)+1)
	opts = append(opts, s.ipcOpts...)
	w := ipc.NewWriter(frame, append(opts, ipc.WithSchema(rec.Schema()))...)
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return errors.Wrap(err, errors.ErrorTypeSink, "failed to encode chunk").
			WithDetail("entity_path", chunk.EntityPath)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeSink, "failed to encode chunk").
			WithDetail("entity_path", chunk.EntityPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(errors.ErrorTypeSink, "file sink is closed")
	}
	before := s.counter.n
	if err := writeFrame(s.stream, frame.Bytes()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write chunk")
	}
	s.chunks++
	metrics.SinkChunks.WithLabelValues("file").Inc()
	metrics.SinkBytesWritten.WithLabelValues("file").Add(float64(s.counter.n - before))
	return nil
}

// Flush pushes buffered bytes to the underlying writer. Compressed streams
// may hold back data until Close.
func (s *FileSink) Flush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	before := s.counter.n
	if f, ok := s.stream.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed stream")
		}
	}
	if err := s.buf.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush file")
	}
	metrics.SinkBytesWritten.WithLabelValues("file").Add(float64(s.counter.n - before))
	return nil
}

// BytesWritten returns the bytes written to the destination so far
func (s *FileSink) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.n
}

// ChunksWritten returns the number of chunks written
func (s *FileSink) ChunksWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks
}

// Close finishes the compressed stream, flushes and closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	before := s.counter.n
	var firstErr error
	if err := s.stream.Close(); err != nil {
		firstErr = errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed stream")
	}
	if err := s.buf.Flush(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, errors.ErrorTypeFile, "failed to flush file")
	}
	metrics.SinkBytesWritten.WithLabelValues("file").Add(float64(s.counter.n - before))
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, errors.ErrorTypeFile, "failed to close file")
		}
	}
	s.logger.Debug("file sink closed",
		zap.Int64("chunks", s.chunks),
		zap.Int64("bytes", s.counter.n))
	return firstErr
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
