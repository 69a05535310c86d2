// Package arrowlog serializes typed archetype records into Apache Arrow cells
// and streams them to in-memory or file sinks.
//
// An archetype is a fixed, schema-defined set of component fields, for example
// Points3D with positions, radii, colors and labels. Logging one archetype
// record produces a row: an ordered list of cells, each one a named Arrow
// array. The first cell is always the archetype's type tag.
//
// # Quick Start
//
// Log a point cloud on a frame timeline:
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/arrowlog/pkg/archetypes"
//	    "github.com/ajitpratap0/arrowlog/pkg/collection"
//	    "github.com/ajitpratap0/arrowlog/pkg/components"
//	    "github.com/ajitpratap0/arrowlog/pkg/config"
//	    "github.com/ajitpratap0/arrowlog/pkg/recording"
//	)
//
//	cfg := config.Default()
//	cfg.Sink.Kind = config.SinkFile
//	cfg.Sink.Path = "scene.arrowlog"
//
//	rec, _ := recording.Open(cfg)
//	defer rec.Close()
//
//	rec.SetTime("frame", 0)
//	points := archetypes.NewPoints3D(collection.Borrow(positions)).
//	    WithRadii(collection.Of[components.Radius](0.05))
//	err := rec.Log(context.Background(), "/world/points", points)
//
// # Key Packages
//
//	pkg/collection   - Owned or borrowed sequences of component values
//	pkg/codec        - Arrow encoders and decoders for datatypes
//	pkg/datatypes    - Vectors, rotations, colors, strings and images
//	pkg/components   - Named component types over datatypes
//	pkg/schema       - Component and archetype descriptors
//	pkg/cell         - Named Arrow arrays
//	pkg/archetype    - Row and column serialization of archetypes
//	pkg/archetypes   - Points3D, Capsules3D, Scalar, SegmentationImage, ViewContents
//	pkg/sink         - Memory, batching and file sinks with a reader
//	pkg/recording    - Timelines, entity paths and logging to a sink
//	pkg/config       - YAML configuration with ${VAR} substitution
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics
//
// # Memory
//
// Collections either own their values or borrow a caller's buffer. A borrowed
// buffer must stay unchanged until the archetype holding it is serialized.
// Serialization builds each array from a pooled builder, so steady-state
// logging reuses its allocations.
//
// # Configuration
//
// The arrowlog command reads a YAML file, then ARROWLOG_* environment
// variables, then flags:
//
//	arrowlog demo --config arrowlog.yaml --compression zstd
//	ARROWLOG_SINK_PATH=/tmp/run.arrowlog arrowlog demo
//	arrowlog inspect /tmp/run.arrowlog --pretty
package arrowlog
