package csvio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wacheck/wacheck/internal/lookup"
	"github.com/wacheck/wacheck/internal/testutil"
)

var sampleResults = []lookup.Result{
	{Number: "15551234567", Status: lookup.StatusRegistered},
	{Number: "15550000000", Status: lookup.StatusNotRegistered},
	{Number: "+44 20 7946 0958", Status: lookup.StatusError},
	{Number: "123,456", Status: lookup.StatusNotRegistered},
}

func TestEncodeResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeResults(&buf, sampleResults[:2]))

	assert.Equal(t, "Number,WhatsApp Status\n15551234567,Registered\n15550000000,Not Registered\n", buf.String())
}

func TestEncodeResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeResults(&buf, nil))
	assert.Equal(t, "Number,WhatsApp Status\n", buf.String())
}

func TestWriteResultsOverwrites(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "output.csv", strings.Repeat("stale line\n", 50))

	require.NoError(t, WriteResults(path, sampleResults[:1]))
	assert.Equal(t, "Number,WhatsApp Status\n15551234567,Registered\n", testutil.ReadFile(t, path))
}

func TestWriteResultsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	require.NoError(t, WriteResults(first, sampleResults))
	require.NoError(t, WriteResults(second, sampleResults))
	a := testutil.ReadFile(t, first)
	require.NoError(t, WriteResults(first, sampleResults))

	assert.Equal(t, a, testutil.ReadFile(t, second))
	assert.Equal(t, a, testutil.ReadFile(t, first))
}

func TestWriteResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, WriteResults(path, sampleResults))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := ParseResults(f)
	require.NoError(t, err)
	assert.Equal(t, sampleResults, got)
}

func TestWriteResultsRowCountMatchesInput(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100} {
		results := make([]lookup.Result, n)
		for i := range results {
			results[i] = lookup.Result{Number: strings.Repeat("9", i+1), Status: lookup.StatusNotRegistered}
		}
		var buf bytes.Buffer
		require.NoError(t, EncodeResults(&buf, results))

		got, err := ParseResults(&buf)
		require.NoError(t, err)
		assert.Equal(t, results, got, "n=%d", n)
	}
}

func TestWriteResultsBadDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "output.csv")
	err := WriteResults(path, sampleResults)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
}

func TestParseResultsRejectsUnknownStatus(t *testing.T) {
	_, err := ParseResults(strings.NewReader("Number,WhatsApp Status\n1,Maybe\n"))
	testutil.ErrorContains(t, err, "row 2")
}

func TestParseResultsRejectsWrongHeader(t *testing.T) {
	_, err := ParseResults(strings.NewReader("number,status\n1,Registered\n"))
	testutil.ErrorContains(t, err, "unexpected results header")
}
