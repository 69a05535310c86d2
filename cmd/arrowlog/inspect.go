package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/json"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
	"github.com/ajitpratap0/arrowlog/pkg/sink"
)

type inspectedChunk struct {
	EntityPath string           `json:"entity_path"`
	Static     bool             `json:"static"`
	Timepoint  map[string]int64 `json:"timepoint,omitempty"`
	Archetype  string           `json:"archetype,omitempty"`
	Cells      []cell.Cell      `json:"cells"`
}

// chunkEncoder is implemented by the inspect output formats
type chunkEncoder interface {
	Encode(c inspectedChunk) error
	Close() error
}

type jsonChunkEncoder struct {
	*json.StreamingEncoder
}

func (e jsonChunkEncoder) Encode(c inspectedChunk) error {
	return e.StreamingEncoder.Encode(c)
}

func newChunkEncoder(w io.Writer, format string, pretty bool) (chunkEncoder, error) {
	switch format {
	case "json":
		enc, err := json.NewStreamingEncoder(w, true)
		if err != nil {
			return nil, err
		}
		if pretty {
			enc.SetPretty("  ")
		}
		return jsonChunkEncoder{enc}, nil
	case "avro":
		return newAvroIndexWriter(w)
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown output format %q", format)
	}
}

func newInspectCommand() *cobra.Command {
	var (
		pretty bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the chunks of a recording",
		Long: `Print the chunks of a recording as a JSON array, or write an Avro
index of them (entity path, timepoint, archetype and cell lengths).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := sink.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			enc, err := newChunkEncoder(cmd.OutOrStdout(), format, pretty)
			if err != nil {
				return err
			}
			for {
				chunk, err := r.Next()
				if err != nil {
					if err == io.EOF {
						break
					}
					return err
				}
				err = enc.Encode(describeChunk(chunk))
				chunk.Release()
				if err != nil {
					return err
				}
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, avro)")
	return cmd
}

func describeChunk(c sink.Chunk) inspectedChunk {
	out := inspectedChunk{
		EntityPath: c.EntityPath,
		Static:     c.IsStatic(),
		Timepoint:  c.Timepoint,
		Cells:      c.Cells,
	}
	for _, cl := range c.Cells {
		if !cl.IsTypeTag() {
			continue
		}
		if a, ok := schema.Default.ArchetypeByIndicator(cl.Name()); ok {
			out.Archetype = a.Name
		}
	}
	return out
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the registered components and archetypes as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.Default.Export()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}
