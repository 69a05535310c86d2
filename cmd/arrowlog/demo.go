package main

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/archetypes"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/config"
	"github.com/ajitpratap0/arrowlog/pkg/datatypes"
	"github.com/ajitpratap0/arrowlog/pkg/logger"
	"github.com/ajitpratap0/arrowlog/pkg/observability"
	"github.com/ajitpratap0/arrowlog/pkg/recording"
)

const defaultDemoPath = "demo.arrowlog"

func newDemoCommand(v *viper.Viper) *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Record sample archetypes to a file",
		Long: `Record a few frames of sample points, capsules, scalars and a
segmentation image to an Arrow IPC file.

Example:
  arrowlog demo --out demo.arrowlog --compression zstd --frames 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			cfg.Sink.Kind = config.SinkFile
			if cfg.Sink.Path == "" {
				cfg.Sink.Path = defaultDemoPath
			}

			shutdown, err := observability.InitTracing(observability.TracingConfig{
				ServiceName:    "arrowlog",
				ServiceVersion: version,
				Exporter:       cfg.Observability.TracingExporter,
				SamplingRate:   cfg.Observability.TracingSampleRate,
				Output:         cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.Background()) }()

			rec, err := recording.Open(cfg, recording.WithLogger(logger.Get()))
			if err != nil {
				return err
			}
			if err := recordDemo(cmd.Context(), rec, frames); err != nil {
				_ = rec.Close()
				return err
			}
			if err := rec.Close(); err != nil {
				return err
			}

			logger.Info("demo recorded",
				zap.String("path", cfg.Sink.Path),
				zap.Int("frames", frames))
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %d frames to %s (recording %s)\n", frames, cfg.Sink.Path, rec.ID())
			return nil
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 10, "number of frames to record")
	cmd.Flags().String("out", "", "output file (default "+defaultDemoPath+")")
	cmd.Flags().String("compression", "", "stream compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	cmd.Flags().String("ipc-compression", "", "Arrow body compression (none, lz4, zstd)")
	_ = v.BindPFlag("sink.path", cmd.Flags().Lookup("out"))
	_ = v.BindPFlag("sink.compression", cmd.Flags().Lookup("compression"))
	_ = v.BindPFlag("sink.ipc_compression", cmd.Flags().Lookup("ipc-compression"))
	return cmd
}

// recordDemo logs a static view layout and then frames of a rotating point
// spiral, a row of capsules and a sine scalar.
func recordDemo(ctx context.Context, rec *recording.Recording, frames int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := rec.LogStatic(ctx, "/blueprint/view", archetypes.NewViewContents("+ /world/**", "+ /plots/**")); err != nil {
		return err
	}

	mask, err := archetypes.NewSegmentationImage(segmentationMask(8, 8), datatypes.ImageFormat{
		Width: 8, Height: 8, ChannelDatatype: datatypes.ChannelU8,
	})
	if err != nil {
		return err
	}
	if err := rec.LogStatic(ctx, "/world/mask", mask.WithOpacity(0.5).WithDrawOrder(1)); err != nil {
		return err
	}

	for frame := 0; frame < frames; frame++ {
		rec.SetTime("frame", int64(frame))
		phase := float64(frame) / 10

		positions := make([]components.Position3D, 32)
		colors := make([]components.Color, len(positions))
		for i := range positions {
			angle := phase + float64(i)*0.4
			positions[i] = components.Position3D{
				float32(math.Cos(angle)), float32(math.Sin(angle)), float32(i) * 0.05,
			}
			colors[i] = components.Color(datatypes.RGB(uint8(i*8), 128, uint8(255-i*8)))
		}
		points := archetypes.NewPoints3D(collection.Take(positions)).
			WithColors(collection.Take(colors)).
			WithRadii(collection.Of[components.Radius](0.02))
		if err := rec.Log(ctx, "/world/spiral", points); err != nil {
			return err
		}

		capsules := archetypes.Capsules3DFromLengthsAndRadii(
			collection.Of[components.Length](0.5, 1, 1.5),
			collection.Of[components.Radius](0.1),
		).WithTranslations(collection.Of(
			components.PoseTranslation3D{-1, 0, 0},
			components.PoseTranslation3D{0, 0, 0},
			components.PoseTranslation3D{1, 0, 0},
		)).WithRotationAxisAngles(collection.Of(components.PoseRotationAxisAngle{
			Axis: datatypes.Vec3D{0, 0, 1}, Angle: float32(phase),
		}))
		if err := rec.Log(ctx, "/world/capsules", capsules); err != nil {
			return err
		}

		if err := rec.Log(ctx, "/plots/sine", archetypes.NewScalar(math.Sin(phase))); err != nil {
			return err
		}
	}
	return rec.Flush(ctx)
}

// segmentationMask returns a width x height mask with three class bands.
func segmentationMask(width, height int) []byte {
	mask := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mask[y*width+x] = byte(3 * x / width)
		}
	}
	return mask
}
