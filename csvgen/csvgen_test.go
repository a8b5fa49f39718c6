package csvgen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRowQuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteRow([]string{"plain", `with "quotes"`, "multi\nline", ""}))

	assert.Equal(t, "\"plain\",\"with \"\"quotes\"\"\",\"multi\nline\",\"\"\r\n", buf.String())
}

func TestWriteRowEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteRow(nil))
	assert.Equal(t, "\r\n", buf.String())
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() {
	f.flushes++
}

func TestStreamFlushesPerRow(t *testing.T) {
	rec := &flushRecorder{}

	err := Stream(rec, Rows([][]string{
		{"heading 1", "heading 2"},
		{"row 1 column 1", "row 1 column 2"},
		{"row 2 column 1", "row 2 column 2"},
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, rec.flushes)
	assert.Equal(t,
		"\"heading 1\",\"heading 2\"\r\n"+
			"\"row 1 column 1\",\"row 1 column 2\"\r\n"+
			"\"row 2 column 1\",\"row 2 column 2\"\r\n",
		rec.String())
}

func TestStreamPlainWriter(t *testing.T) {
	var buf bytes.Buffer

	err := Stream(&buf, Rows([][]string{{"a"}, {"b"}}))
	require.NoError(t, err)

	assert.Equal(t, "\"a\"\r\n\"b\"\r\n", buf.String())
}
