package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// streamRoundTrip compresses data through NewWriter and reads it back
// through NewReader, returning the compressed size and the result.
func streamRoundTrip(t *testing.T, comp Compressor, data []byte) (int, []byte) {
	t.Helper()
	var stream bytes.Buffer
	w, err := comp.NewWriter(&stream)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	size := stream.Len()

	r, err := comp.NewReader(&stream)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return size, got
}

func TestLZ4CompressionLevels(t *testing.T) {
	levels := []Level{Fastest, Default, Better, Best}
	testData := bytes.Repeat([]byte("test data for compression "), 100)

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			compressor, err := NewCompressor(&Config{Algorithm: LZ4, Level: level})
			require.NoError(t, err)

			compressed, decompressed := streamRoundTrip(t, compressor, testData)
			assert.Equal(t, testData, decompressed)
			assert.Less(t, compressed, len(testData))

			t.Logf("Level %v: Original: %d bytes, Compressed: %d bytes, Ratio: %.2f%%",
				level, len(testData), compressed,
				float64(compressed)/float64(len(testData))*100)
		})
	}
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	original := bytes.Repeat([]byte("arrowlog recording stream content "), 64)

	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: algo, Level: Default})
			require.NoError(t, err)
			assert.Equal(t, algo, comp.Algorithm())

			_, got := streamRoundTrip(t, comp, original)
			assert.Equal(t, original, got)

			_, empty := streamRoundTrip(t, comp, nil)
			assert.Empty(t, empty)
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, a)

	a, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, a)

	_, err = ParseAlgorithm("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewCompressor(&Config{Algorithm: "brotli"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
