package sink

import (
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/compression"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/pool"
)

// A file is a header followed by a possibly compressed stream of frames. The
// header is the magic, a format version and the stream compression algorithm
// as a length-prefixed string. Every frame is a little-endian uint32 length
// and a complete Arrow IPC stream holding a single one-row record.
const (
	magic         = "ARROWLOG"
	formatVersion = 1
	maxFrameSize  = 1 << 30
)

// Schema metadata keys of a chunk record.
const (
	metaEntityPath = "arrowlog.entity_path"
	metaStatic     = "arrowlog.static"
	metaTimePrefix = "arrowlog.time."
)

func writeHeader(w io.Writer, algo compression.Algorithm) error {
	name := string(algo)
	buf := make([]byte, 0, len(magic)+2+len(name))
	buf = append(buf, magic...)
	buf = append(buf, formatVersion, byte(len(name)))
	buf = append(buf, name...)
	_, err := w.Write(buf)
	return err
}

func readHeader(r io.Reader) (compression.Algorithm, error) {
	fixed := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to read file header")
	}
	if string(fixed[:len(magic)]) != magic {
		return "", errors.New(errors.ErrorTypeFile, "not an arrowlog file")
	}
	if v := fixed[len(magic)]; v != formatVersion {
		return "", errors.Newf(errors.ErrorTypeFile, "unsupported format version %d", v)
	}
	name := make([]byte, fixed[len(magic)+1])
	if _, err := io.ReadFull(r, name); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to read file header")
	}
	return compression.ParseAlgorithm(string(name))
}

func writeFrame(w io.Writer, frame []byte) error {
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(frame)))
	if _, err := w.Write(size[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

// readFrame returns io.EOF at a clean end of stream. The frame comes from
// pool.GlobalBufferPool and goes back there once decoded.
func readFrame(r io.Reader) ([]byte, error) {
	var size [4]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "truncated frame header")
	}
	n := binary.LittleEndian.Uint32(size[:])
	if n > maxFrameSize {
		return nil, errors.Newf(errors.ErrorTypeFile, "frame of %d bytes exceeds limit", n)
	}
	buf := pool.GlobalBufferPool.Get(int(n))
	if _, err := io.ReadFull(r, buf); err != nil {
		pool.GlobalBufferPool.Put(buf)
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "truncated frame")
	}
	return buf, nil
}

// chunkRecord turns a chunk into a one-row record with one list column per
// cell. The caller releases the record.
func chunkRecord(chunk Chunk) arrow.Record {
	keys := []string{metaEntityPath, metaStatic}
	values := []string{chunk.EntityPath, strconv.FormatBool(chunk.IsStatic())}
	for _, name := range chunk.Timelines() {
		keys = append(keys, metaTimePrefix+name)
		values = append(values, strconv.FormatInt(chunk.Timepoint[name], 10))
	}
	md := arrow.NewMetadata(keys, values)

	fields := make([]arrow.Field, len(chunk.Cells))
	columns := make([]arrow.Array, len(chunk.Cells))
	defer func() {
		for _, c := range columns {
			if c != nil {
				c.Release()
			}
		}
	}()
	for i, c := range chunk.Cells {
		columns[i] = singleRow(c.Array())
		fields[i] = arrow.Field{Name: c.Name(), Type: columns[i].DataType()}
	}
	return array.NewRecord(arrow.NewSchema(fields, &md), columns, 1)
}

// singleRow wraps values in a list array with one entry holding all of them.
func singleRow(values arrow.Array) arrow.Array {
	offsets := arrow.Int32Traits.CastToBytes([]int32{0, int32(values.Len())})
	data := array.NewData(arrow.ListOf(values.DataType()), 1,
		[]*memory.Buffer{nil, memory.NewBufferBytes(offsets)},
		[]arrow.ArrayData{values.Data()}, 0, 0)
	defer data.Release()
	return array.NewListData(data)
}

// recordChunk is the inverse of chunkRecord. The returned cells stay valid
// after rec is released.
func recordChunk(rec arrow.Record) (Chunk, error) {
	md := rec.Schema().Metadata()
	var chunk Chunk

	if i := md.FindKey(metaEntityPath); i >= 0 {
		chunk.EntityPath = md.Values()[i]
	}
	static := true
	if i := md.FindKey(metaStatic); i >= 0 {
		static = md.Values()[i] == "true"
	}
	if !static {
		chunk.Timepoint = make(map[string]int64)
	}
	for i, key := range md.Keys() {
		name, ok := strings.CutPrefix(key, metaTimePrefix)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(md.Values()[i], 10, 64)
		if err != nil {
			return Chunk{}, errors.Wrap(err, errors.ErrorTypeFile, "invalid timepoint").
				WithDetail("timeline", name)
		}
		if chunk.Timepoint == nil {
			chunk.Timepoint = make(map[string]int64)
		}
		chunk.Timepoint[name] = v
	}

	chunk.Cells = make([]cell.Cell, 0, rec.NumCols())
	for i, col := range rec.Columns() {
		name := rec.ColumnName(i)
		list, ok := col.(*array.List)
		if !ok || list.Len() != 1 {
			cell.ReleaseAll(chunk.Cells)
			return Chunk{}, errors.Newf(errors.ErrorTypeFile, "column %s is not a single-row list", name)
		}
		start, end := list.ValueOffsets(0)
		values := array.NewSlice(list.ListValues(), start, end)
		c, err := cell.New(name, values)
		values.Release()
		if err != nil {
			cell.ReleaseAll(chunk.Cells)
			return Chunk{}, err
		}
		chunk.Cells = append(chunk.Cells, c)
	}
	return chunk, nil
}
