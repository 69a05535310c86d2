package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/json"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestDemoThenInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.arrowlog")

	out := run(t, "demo", "--out", path, "--frames", "2", "--compression", "zstd")
	assert.Contains(t, out, "recorded 2 frames")

	var chunks []struct {
		EntityPath string           `json:"entity_path"`
		Static     bool             `json:"static"`
		Timepoint  map[string]int64 `json:"timepoint"`
		Archetype  string           `json:"archetype"`
		Cells      []struct {
			Name   string `json:"name"`
			Length int    `json:"length"`
		} `json:"cells"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "inspect", path)), &chunks))

	// Two static chunks, then points, capsules and a scalar per frame.
	require.Len(t, chunks, 2+2*3)
	assert.Equal(t, "/blueprint/view", chunks[0].EntityPath)
	assert.True(t, chunks[0].Static)
	assert.Equal(t, "arrowlog.archetypes.ViewContents", chunks[0].Archetype)

	spiral := chunks[2]
	assert.Equal(t, "/world/spiral", spiral.EntityPath)
	assert.Equal(t, "arrowlog.archetypes.Points3D", spiral.Archetype)
	assert.Equal(t, int64(0), spiral.Timepoint["frame"])
	assert.Equal(t, 32, spiral.Cells[1].Length)

	last := chunks[len(chunks)-1]
	assert.Equal(t, "/plots/sine", last.EntityPath)
	assert.Equal(t, int64(1), last.Timepoint["frame"])
}

func TestEnvironmentOverridesSinkPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.arrowlog")
	t.Setenv("ARROWLOG_SINK_PATH", path)

	out := run(t, "demo", "--frames", "1")
	assert.Contains(t, out, path)
}

func TestSchemaCommand(t *testing.T) {
	out := run(t, "schema")
	assert.Contains(t, out, "arrowlog.archetypes.Capsules3D")
	assert.Contains(t, out, "arrowlog.components.Radius")
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, run(t, "version"), "arrowlog v"+version)
}

func TestBenchCommandWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	out := run(t, "bench", "--duration", "50ms", "--points", "64", "--cpuprofile", cpu, "--memprofile", mem)
	assert.Contains(t, out, "records/s:")
	assert.Contains(t, out, "builder pool:")
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

func TestBenchPointsCountsCells(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := benchPoints(ctx, codec.DefaultEnv(), 8)
	require.NoError(t, err)
	require.Positive(t, res.Records)
	// type tag, positions and radii
	assert.Equal(t, 3*res.Records, res.Cells)
	assert.Equal(t, 8*res.Records, res.Points)
}

func TestInspectAvroIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.arrowlog")
	run(t, "demo", "--out", path, "--frames", "1")

	out := run(t, "inspect", path, "--format", "avro")
	ocf, err := goavro.NewOCFReader(strings.NewReader(out))
	require.NoError(t, err)

	var records []map[string]interface{}
	for ocf.Scan() {
		datum, err := ocf.Read()
		require.NoError(t, err)
		records = append(records, datum.(map[string]interface{}))
	}
	require.NoError(t, ocf.Err())
	require.Len(t, records, 2+3)

	view := records[0]
	assert.Equal(t, "/blueprint/view", view["entity_path"])
	assert.Equal(t, true, view["static"])
	assert.Equal(t, map[string]interface{}{"string": "arrowlog.archetypes.ViewContents"}, view["archetype"])

	spiral := records[2]
	assert.Equal(t, int64(0), spiral["timepoint"].(map[string]interface{})["frame"])
	cells := spiral["cells"].([]interface{})
	assert.Equal(t, int64(32), cells[1].(map[string]interface{})["length"])
}

func TestInspectUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.arrowlog")
	run(t, "demo", "--out", path, "--frames", "1")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"inspect", path, "--format", "csv", "--log-level", "error"})
	assert.Error(t, root.Execute())
}
