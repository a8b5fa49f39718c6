// Package download turns a handler-supplied data source into a CSV or
// OpenDocument spreadsheet attachment. A frontend implements View; Handler
// owns dispatch, response headers, and the choice between the two formats —
// exactly one of which is produced per request.
package download

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	dmutils "github.com/sportsbitenews/digitalmarketplace-utils"
	"github.com/sportsbitenews/digitalmarketplace-utils/csvgen"
	"github.com/sportsbitenews/digitalmarketplace-utils/ods"
)

type FileType int

const (
	FileTypeNone FileType = iota
	FileTypeCSV
	FileTypeODS
)

// Context is the data a View gathers up front for the generation routines.
// Filename carries no extension.
type Context struct {
	Filename string
	Data     map[string]any
}

// View is what a download endpoint must implement.
type View interface {
	// DetermineFileType picks which format this request gets.
	DetermineFileType(c *gin.Context) FileType

	// FileContext gathers everything generation needs, typically from the
	// app's API clients.
	FileContext(c *gin.Context) (*Context, error)

	// CSVRows returns the rows for the CSV branch, headings first.
	CSVRows(fc *Context) ([][]string, error)

	// GenerateODS populates the pre-styled spreadsheet for the ODS branch.
	GenerateODS(ss *ods.Spreadsheet, fc *Context) error
}

// PreRequestHook runs before any file generation; returning an error aborts
// the request with 500.
type PreRequestHook interface {
	PreRequest(c *gin.Context) error
}

// PostRequestHook runs after the response has been written.
type PostRequestHook interface {
	PostRequest(c *gin.Context)
}

func Handler(v View) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h, ok := v.(PreRequestHook); ok {
			if err := h.PreRequest(c); err != nil {
				c.AbortWithStatusJSON(dmutils.ISR, dmutils.H{"error": err.Error()})
				return
			}
		}

		fc, err := v.FileContext(c)
		if err != nil {
			c.AbortWithStatusJSON(dmutils.ISR, dmutils.H{"error": err.Error()})
			return
		}

		switch v.DetermineFileType(c) {
		case FileTypeCSV:
			writeCSV(c, v, fc)
		case FileTypeODS:
			writeODS(c, v, fc)
		default:
			c.AbortWithStatusJSON(dmutils.BR, dmutils.H{"error": "unknown download file type"})
			return
		}

		if h, ok := v.(PostRequestHook); ok {
			h.PostRequest(c)
		}
	}
}

// writeCSV streams the rows straight to the client, one flush per row.
func writeCSV(c *gin.Context, v View, fc *Context) {
	rows, err := v.CSVRows(fc)
	if err != nil {
		c.AbortWithStatusJSON(dmutils.ISR, dmutils.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment;filename="+fc.Filename+".csv")
	c.Header("Content-Type", "text/csv; header=present")
	c.Status(http.StatusOK)

	if err := csvgen.Stream(c.Writer, csvgen.Rows(rows)); err != nil {
		// Headers are gone; all we can do is cut the stream short.
		c.Abort()
	}
}

func writeODS(c *gin.Context, v View, fc *Context) {
	ss := DefaultSpreadsheet()
	if err := v.GenerateODS(ss, fc); err != nil {
		c.AbortWithStatusJSON(dmutils.ISR, dmutils.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := ss.Save(&buf); err != nil {
		c.AbortWithStatusJSON(dmutils.ISR, dmutils.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment;filename="+fc.Filename+".ods")
	c.Data(http.StatusOK, ods.Mimetype, buf.Bytes())
}

// DefaultSpreadsheet pre-loads the house font and the column, row and cell
// styles the frontends share, ready for population with data.
func DefaultSpreadsheet() *ods.Spreadsheet {
	ss := ods.New()

	ss.AddFont("Arial", "Arial")

	ss.AddStyle("col-default", ods.StyleFamilyTableColumn, []ods.Prop{
		ods.TableColumnProperties(ods.Attrs{
			"style:column-width":             "150pt",
			"fo:break-before":                "auto",
			"style:use-optimal-column-width": "true",
		}),
	}, "")

	ss.AddStyle("col-wide", ods.StyleFamilyTableColumn, []ods.Prop{
		ods.TableColumnProperties(ods.Attrs{
			"style:column-width": "300pt",
		}),
	}, "col-default")

	ss.AddStyle("row-default", ods.StyleFamilyTableRow, []ods.Prop{
		ods.TableRowProperties(ods.Attrs{
			"fo:break-before":              "auto",
			"style:use-optimal-row-height": "true",
		}),
	}, "")

	ss.AddStyle("row-tall", ods.StyleFamilyTableRow, []ods.Prop{
		ods.TableRowProperties(ods.Attrs{
			"style:row-height": "50pt",
		}),
	}, "row-default")

	ss.AddStyle("cell-default", ods.StyleFamilyTableCell, []ods.Prop{
		ods.TableCellProperties(ods.Attrs{
			"fo:wrap-option":       "wrap",
			"style:vertical-align": "top",
		}),
		ods.TextProperties(ods.Attrs{
			"fo:font-family":          "Arial",
			"style:font-name-asian":   "Arial",
			"style:font-name-complex": "Arial",
			"fo:font-size":            "10pt",
		}),
	}, "Default")

	ss.AddStyle("cell-header", ods.StyleFamilyTableCell, []ods.Prop{
		ods.TableCellProperties(ods.Attrs{
			"fo:wrap-option":       "wrap",
			"style:vertical-align": "top",
		}),
		ods.TextProperties(ods.Attrs{
			"fo:font-weight": "bold",
		}),
	}, "cell-default")

	return ss
}
