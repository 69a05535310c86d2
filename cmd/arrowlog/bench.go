package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/archetypes"
	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/logger"
	"github.com/ajitpratap0/arrowlog/pkg/metrics"
)

type benchResult struct {
	Records  int
	Cells    int
	Points   int
	Duration time.Duration
}

// processUsage is the CPU time and resident memory of this process.
type processUsage struct {
	CPUSeconds float64
	RSS        uint64
}

func sampleProcess(proc *process.Process) (processUsage, error) {
	var u processUsage
	times, err := proc.Times()
	if err != nil {
		return u, err
	}
	u.CPUSeconds = times.User + times.System
	mem, err := proc.MemoryInfo()
	if err != nil {
		return u, err
	}
	u.RSS = mem.RSS
	return u, nil
}

func (r benchResult) perSecond(n int) float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(n) / r.Duration.Seconds()
}

func newBenchCommand(v *viper.Viper) *cobra.Command {
	var (
		duration time.Duration
		points   int
		cpuFile  string
		memFile  string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure Points3D serialization throughput",
		Long: `Serialize Points3D records in a loop and report throughput.
Optionally write CPU and heap profiles.

Example:
  arrowlog bench --points 10000 --duration 5s --cpuprofile cpu.prof`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			var pool *codec.BuilderPool
			opts := []codec.Option{codec.WithLogger(logger.Get())}
			if cfg.Memory.EnableBuilderPool {
				pool = codec.NewBuilderPool(nil, cfg.Memory.BuildersPerType, logger.Get())
				pool.SetObserver(metrics.ObserveBuilderPool)
				defer pool.Close()
				opts = append(opts, codec.WithBuilderPool(pool))
			}
			env := codec.NewEnv(opts...)

			if cpuFile != "" {
				f, err := os.Create(cpuFile) //nolint:gosec // G304: path comes from a flag
				if err != nil {
					return err
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return err
				}
				defer pprof.StopCPUProfile()
			}

			// Resource sampling is best effort.
			proc, procErr := process.NewProcess(int32(os.Getpid()))
			var before processUsage
			if procErr == nil {
				before, procErr = sampleProcess(proc)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()
			res, err := benchPoints(ctx, env, points)
			if err != nil {
				return err
			}

			var after processUsage
			if procErr == nil {
				after, procErr = sampleProcess(proc)
			}
			if procErr != nil {
				logger.Debug("process sampling unavailable", zap.Error(procErr))
			}

			if memFile != "" {
				f, err := os.Create(memFile) //nolint:gosec // G304: path comes from a flag
				if err != nil {
					return err
				}
				defer f.Close()
				runtime.GC()
				if err := pprof.WriteHeapProfile(f); err != nil {
					return err
				}
			}

			logger.Info("benchmark finished",
				zap.Int("records", res.Records),
				zap.Duration("duration", res.Duration),
				zap.Bool("builder_pool", pool != nil))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "records:   %d in %v\n", res.Records, res.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "records/s: %.0f\n", res.perSecond(res.Records))
			fmt.Fprintf(out, "cells/s:   %.0f\n", res.perSecond(res.Cells))
			fmt.Fprintf(out, "points/s:  %.0f\n", res.perSecond(res.Points))
			if procErr == nil && res.Duration > 0 {
				cpu := (after.CPUSeconds - before.CPUSeconds) / res.Duration.Seconds() * 100
				fmt.Fprintf(out, "cpu:       %.0f%%\n", cpu)
				fmt.Fprintf(out, "rss:       %.1f MiB\n", float64(after.RSS)/(1<<20))
			}
			if pool != nil {
				hits, misses, _ := pool.Stats()
				fmt.Fprintf(out, "builder pool: %d hits, %d misses\n", hits, misses)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 3*time.Second, "how long to run")
	cmd.Flags().IntVar(&points, "points", 1000, "points per record")
	cmd.Flags().StringVar(&cpuFile, "cpuprofile", "", "write a CPU profile to this file")
	cmd.Flags().StringVar(&memFile, "memprofile", "", "write a heap profile to this file")
	return cmd
}

// benchPoints serializes a borrowed point cloud until ctx is done.
func benchPoints(ctx context.Context, env *codec.Env, n int) (benchResult, error) {
	positions := make([]components.Position3D, n)
	radii := make([]components.Radius, n)
	for i := range positions {
		positions[i] = components.Position3D{float32(i), float32(i) * 0.5, 1}
		radii[i] = components.Radius(0.01 * float32(i%10))
	}

	var res benchResult
	start := time.Now()
	for ctx.Err() == nil {
		points := archetypes.NewPoints3D(collection.Borrow(positions)).
			WithRadii(collection.Borrow(radii))
		cells, err := archetype.Serialize(env, points)
		if err != nil {
			return res, err
		}
		res.Records++
		res.Cells += len(cells)
		res.Points += n
		cell.ReleaseAll(cells)
	}
	res.Duration = time.Since(start)
	return res, nil
}
