package ods

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadCells(t *testing.T) {
	ss := New()
	sheet := ss.Sheet("Sheet 1")

	sheet.WriteRow("header", []string{"Name", "Status"}, RowOptions{}, CellOptions{StyleName: "cell-header"})
	sheet.WriteRow("r1", []string{"Alpha", "live"}, RowOptions{}, CellOptions{})

	assert.Equal(t, "Name", sheet.ReadCell(0, 0))
	assert.Equal(t, "Status", sheet.ReadCell(1, 0))
	assert.Equal(t, "Alpha", sheet.ReadCell(0, 1))
	assert.Equal(t, "live", sheet.ReadCell(1, 1))
}

func TestReadCellOutOfRange(t *testing.T) {
	ss := New()
	sheet := ss.Sheet("Sheet 1")
	sheet.WriteRow("only", []string{"x"}, RowOptions{}, CellOptions{})

	assert.Equal(t, "", sheet.ReadCell(5, 0))
	assert.Equal(t, "", sheet.ReadCell(0, 5))
	assert.Equal(t, "", sheet.ReadCell(-1, -1))
}

func TestMultilineValueBecomesParagraphs(t *testing.T) {
	ss := New()
	sheet := ss.Sheet("Sheet 1")

	row := sheet.CreateRow("r", RowOptions{})
	row.WriteCell("line one\nline two", CellOptions{})

	cell := row.elem.children[0]
	require.Len(t, cell.children, 2)
	assert.Equal(t, "line one\nline two", sheet.ReadCell(0, 0))
}

func TestSpanDefaultsPairUp(t *testing.T) {
	ss := New()
	row := ss.Sheet("s").CreateRow("r", RowOptions{})

	row.WriteCell("wide", CellOptions{ColumnsSpanned: 2})
	row.WriteCoveredCell()

	cell := row.elem.children[0]
	attrs := map[string]string{}
	for _, a := range cell.attrs {
		attrs[a.name] = a.value
	}
	assert.Equal(t, "2", attrs["table:number-columns-spanned"])
	assert.Equal(t, "1", attrs["table:number-rows-spanned"])
	assert.Equal(t, "table:covered-table-cell", row.elem.children[1].name)
}

func TestLinkCellReadsAsText(t *testing.T) {
	ss := New()
	sheet := ss.Sheet("s")

	row := sheet.CreateRow("r", RowOptions{})
	row.WriteLinkCell("Alpha", "https://example.com/suppliers/1", CellOptions{})

	assert.Equal(t, "Alpha", sheet.ReadCell(0, 0))
}

func TestGetRowAndCreateColumn(t *testing.T) {
	ss := New()
	sheet := ss.Sheet("s")
	sheet.CreateColumn(ColumnOptions{StyleName: "col-default", DefaultCellStyleName: "cell-default", Repeated: 3})

	created := sheet.CreateRow("top", RowOptions{StyleName: "row-tall"})
	assert.Same(t, created, sheet.GetRow("top"))
	assert.Nil(t, sheet.GetRow("missing"))
}

func TestSheetIsCreateOrGet(t *testing.T) {
	ss := New()
	a := ss.Sheet("Report")
	b := ss.Sheet("Report")
	assert.Same(t, a, b)
}

func TestSavePackageLayout(t *testing.T) {
	ss := New()
	ss.AddFont("Arial", "Arial")
	ss.AddStyle("cell-header", StyleFamilyTableCell, []Prop{
		TextProperties(Attrs{"fo:font-weight": "bold"}),
	}, "cell-default")

	sheet := ss.Sheet("Findings & Results")
	sheet.WriteRow("h", []string{`va"lue`, "<tag>"}, RowOptions{}, CellOptions{})

	var buf bytes.Buffer
	require.NoError(t, ss.Save(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)

	// mimetype first, stored uncompressed
	first := zr.File[0]
	assert.Equal(t, "mimetype", first.Name)
	assert.Equal(t, zip.Store, first.Method)
	assert.Equal(t, Mimetype, readZipFile(t, first))

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "META-INF/manifest.xml")
	assert.Contains(t, names, "content.xml")
	assert.Contains(t, names, "styles.xml")

	for _, f := range zr.File {
		if f.Name != "content.xml" {
			continue
		}
		content := readZipFile(t, f)
		assert.Contains(t, content, `table:name="Findings &amp; Results"`)
		assert.Contains(t, content, `style:name="Arial"`)
		assert.Contains(t, content, `style:parent-style-name="cell-default"`)
		assert.Contains(t, content, "va&quot;lue")
		assert.Contains(t, content, "&lt;tag&gt;")
		assert.True(t, strings.HasPrefix(content, xmlHeader))
	}
}

func readZipFile(t *testing.T, f *zip.File) string {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}
