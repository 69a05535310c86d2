package main

import (
	"io"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// chunkIndexSchema describes one chunk of a recording without its values.
const chunkIndexSchema = `{
  "type": "record",
  "name": "ChunkIndex",
  "namespace": "arrowlog",
  "fields": [
    {"name": "entity_path", "type": "string"},
    {"name": "static", "type": "boolean"},
    {"name": "timepoint", "type": {"type": "map", "values": "long"}},
    {"name": "archetype", "type": ["null", "string"], "default": null},
    {"name": "cells", "type": {"type": "array", "items": {
      "type": "record",
      "name": "CellIndex",
      "fields": [
        {"name": "name", "type": "string"},
        {"name": "length", "type": "long"}
      ]
    }}}
  ]
}`

// avroIndexWriter writes chunk summaries as an Avro object container file.
type avroIndexWriter struct {
	ocf *goavro.OCFWriter
}

func newAvroIndexWriter(w io.Writer) (*avroIndexWriter, error) {
	codec, err := goavro.NewCodec(chunkIndexSchema)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "invalid chunk index schema")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionSnappyLabel,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create Avro writer")
	}
	return &avroIndexWriter{ocf: ocf}, nil
}

func (w *avroIndexWriter) Encode(c inspectedChunk) error {
	if err := w.ocf.Append([]interface{}{avroNative(c)}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to append chunk index").
			WithDetail("entity_path", c.EntityPath)
	}
	return nil
}

// Close is a no-op; OCFWriter flushes every Append.
func (w *avroIndexWriter) Close() error { return nil }

func avroNative(c inspectedChunk) map[string]interface{} {
	timepoint := make(map[string]interface{}, len(c.Timepoint))
	for k, v := range c.Timepoint {
		timepoint[k] = v
	}
	cells := make([]interface{}, len(c.Cells))
	for i, cl := range c.Cells {
		cells[i] = map[string]interface{}{
			"name":   cl.Name(),
			"length": int64(cl.Len()),
		}
	}
	var archetype interface{}
	if c.Archetype != "" {
		archetype = goavro.Union("string", c.Archetype)
	}
	return map[string]interface{}{
		"entity_path": c.EntityPath,
		"static":      c.Static,
		"timepoint":   timepoint,
		"archetype":   archetype,
		"cells":       cells,
	}
}
