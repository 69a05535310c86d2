package archetypes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/archetypes"
	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/datatypes"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
	"github.com/ajitpratap0/arrowlog/pkg/testutil"
)

func serialize(t *testing.T, a archetype.Archetype) []cell.Cell {
	t.Helper()
	env := codec.NewEnv(codec.WithAllocator(testutil.CheckedAllocator(t)))
	cells, err := archetype.Serialize(env, a)
	require.NoError(t, err)
	t.Cleanup(func() { cell.ReleaseAll(cells) })
	return cells
}

func cellNames(cells []cell.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Name()
	}
	return out
}

func TestCapsulesWithOnlyRadii(t *testing.T) {
	capsules := archetypes.NewCapsules3D().
		WithRadii(collection.Of[components.Radius](0.5, 1))

	cells := serialize(t, capsules)
	assert.Equal(t, []string{
		"arrowlog.components.Capsules3DIndicator",
		"arrowlog.components.Radius",
	}, cellNames(cells))
	assert.True(t, cells[0].IsTypeTag())
	assert.Equal(t, 0, cells[0].Len())
	assert.Equal(t, 2, cells[1].Len())
}

func TestCapsulesFromLengthsAndRadii(t *testing.T) {
	capsules := archetypes.Capsules3DFromLengthsAndRadii(
		collection.Of[components.Length](1, 2, 3),
		collection.Of[components.Radius](0.25),
	).WithTranslations(collection.Of(components.PoseTranslation3D{0, 0, 1}, components.PoseTranslation3D{0, 0, 2}, components.PoseTranslation3D{0, 0, 3}))

	n, err := archetype.NumInstances(capsules)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	cells := serialize(t, capsules)
	assert.Equal(t, []string{
		"arrowlog.components.Capsules3DIndicator",
		components.NameLength,
		components.NameRadius,
		components.NamePoseTranslation3D,
	}, cellNames(cells))
}

func TestPoints3D(t *testing.T) {
	points := archetypes.NewPoints3D(collection.Of(
		components.Position3D{1, 2, 3},
		components.Position3D{4, 5, 6},
	)).
		WithColors(collection.Of(components.Color(datatypes.RGB(255, 0, 0)))).
		WithLabels(collection.Of[components.Text]("a", "b")).
		WithShowLabels(true)

	cells := serialize(t, points)
	assert.Equal(t, []string{
		"arrowlog.components.Points3DIndicator",
		components.NamePosition3D,
		components.NameColor,
		components.NameText,
		components.NameShowLabels,
	}, cellNames(cells))

	got, err := codec.Decode(components.Position3DCodec, cells[1].Array())
	require.NoError(t, err)
	assert.Equal(t, []components.Position3D{{1, 2, 3}, {4, 5, 6}}, got)
}

func TestPoints3DRejectsMismatchedLengths(t *testing.T) {
	points := archetypes.NewPoints3D(collection.Of(
		components.Position3D{1, 2, 3},
		components.Position3D{4, 5, 6},
		components.Position3D{7, 8, 9},
	)).WithRadii(collection.Of[components.Radius](1, 2))

	_, err := archetype.Serialize(codec.NewEnv(), points)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestBorrowedBufferIsReadAtSerializeTime(t *testing.T) {
	radii := []components.Radius{1, 2}
	capsules := archetypes.NewCapsules3D().WithRadii(collection.Borrow(radii))
	radii[1] = 5

	cells := serialize(t, capsules)
	got, err := codec.Decode(components.RadiusCodec, cells[1].Array())
	require.NoError(t, err)
	assert.Equal(t, []components.Radius{1, 5}, got)
}

func TestScalarColumns(t *testing.T) {
	env := codec.NewEnv(codec.WithAllocator(testutil.CheckedAllocator(t)))
	scalars := archetypes.NewScalars(collection.Of[components.Scalar](1, 2, 3))

	columns, err := archetype.Columns(env, scalars)
	require.NoError(t, err)
	defer archetype.ReleaseColumns(columns)

	require.Len(t, columns, 2)
	assert.Equal(t, "arrowlog.components.ScalarIndicator", columns[0].Name())
	assert.Equal(t, components.NameScalar, columns[1].Name())
	assert.Equal(t, 3, columns[0].Rows())
	assert.Equal(t, 3, columns[1].Rows())

	start, end := columns[1].Array().ValueOffsets(2)
	assert.Equal(t, int64(2), start)
	assert.Equal(t, int64(3), end)
}

func TestSegmentationImage(t *testing.T) {
	format := datatypes.ImageFormat{Width: 2, Height: 2, ChannelDatatype: datatypes.ChannelU8}

	img, err := archetypes.NewSegmentationImage([]byte{0, 1, 1, 2}, format)
	require.NoError(t, err)
	img.WithOpacity(0.5).WithDrawOrder(2)

	cells := serialize(t, img)
	assert.Equal(t, []string{
		"arrowlog.components.SegmentationImageIndicator",
		components.NameImageBuffer,
		components.NameImageFormat,
		components.NameOpacity,
		components.NameDrawOrder,
	}, cellNames(cells))

	formats, err := codec.Decode(components.ImageFormatCodec, cells[2].Array())
	require.NoError(t, err)
	assert.Equal(t, []components.ImageFormat{components.ImageFormat(format)}, formats)

	_, err = archetypes.NewSegmentationImage([]byte{0, 1, 2}, format)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	_, err = archetypes.NewSegmentationImage(nil, format)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))
}

func TestClearedArchetypes(t *testing.T) {
	for _, a := range []archetype.Archetype{
		archetypes.ClearedPoints3D(),
		archetypes.ClearedCapsules3D(),
		archetypes.ClearedScalar(),
		archetypes.ClearedSegmentationImage(),
	} {
		t.Run(a.Descriptor().ShortName(), func(t *testing.T) {
			cells := serialize(t, a)
			require.Len(t, cells, len(a.Descriptor().Fields)+1)
			for _, c := range cells {
				assert.Equal(t, 0, c.Len(), c.Name())
			}
		})
	}
}

func TestViewContents(t *testing.T) {
	cells := serialize(t, archetypes.NewViewContents("+ /world/**", "- /world/debug"))
	require.Len(t, cells, 2)
	got, err := codec.Decode(components.QueryExpressionCodec, cells[1].Array())
	require.NoError(t, err)
	assert.Equal(t, []components.QueryExpression{"+ /world/**", "- /world/debug"}, got)
}

func TestDescriptorsRegistered(t *testing.T) {
	for _, name := range []string{"Points3D", "Capsules3D", "Scalar", "SegmentationImage", "ViewContents"} {
		desc, ok := schema.Default.Archetype(archetypes.Name(name))
		require.True(t, ok, name)

		byIndicator, ok := schema.Default.ArchetypeByIndicator(desc.Indicator)
		require.True(t, ok)
		assert.Same(t, desc, byIndicator)
	}
}
