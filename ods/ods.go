// Package ods builds OpenDocument spreadsheets for download responses. It
// keeps a small element tree mirroring the ODF content model: a document
// holds sheets, sheets hold named rows, rows hold string cells. Styles and
// fonts are declared up front and referenced by name from rows and cells.
package ods

import (
	"sort"
	"strconv"
	"strings"
)

const Mimetype = "application/vnd.oasis.opendocument.spreadsheet"

type element struct {
	name     string // prefixed tag name, e.g. "table:table-cell"
	attrs    []attr
	text     string
	children []*element
}

type attr struct {
	name  string
	value string
}

func newElement(name string) *element {
	return &element{name: name}
}

func (e *element) setAttr(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name: name, value: value})
}

func (e *element) add(children ...*element) {
	e.children = append(e.children, children...)
}

// textContent flattens nested text, so a paragraph holding a hyperlink reads
// the same as a plain one.
func (e *element) textContent() string {
	var b strings.Builder
	b.WriteString(e.text)
	for _, c := range e.children {
		b.WriteString(c.textContent())
	}
	return b.String()
}

// CellOptions style a single cell. A span of zero means "not spanned"; when
// either span is set the other defaults to 1, since ODF requires both
// attributes to appear together.
type CellOptions struct {
	StyleName      string
	ColumnsSpanned int
	RowsSpanned    int
}

type RowOptions struct {
	StyleName string
}

type ColumnOptions struct {
	StyleName            string
	DefaultCellStyleName string
	Repeated             int
}

type Row struct {
	elem *element
}

// WriteCell appends one string cell. Each line of a multi-line value becomes
// its own paragraph.
func (r *Row) WriteCell(value string, opts CellOptions) {
	cell := r.newCell(opts)
	for _, line := range strings.Split(value, "\n") {
		p := newElement("text:p")
		p.text = line
		cell.add(p)
	}
	r.elem.add(cell)
}

// WriteLinkCell appends a cell whose single paragraph is a hyperlink.
func (r *Row) WriteLinkCell(text, href string, opts CellOptions) {
	cell := r.newCell(opts)

	a := newElement("text:a")
	a.setAttr("xlink:href", href)
	a.text = text

	p := newElement("text:p")
	p.add(a)
	cell.add(p)

	r.elem.add(cell)
}

func (r *Row) WriteCells(values []string, opts CellOptions) {
	for _, v := range values {
		r.WriteCell(v, opts)
	}
}

// WriteCoveredCell appends the placeholder that sits under a spanned cell.
func (r *Row) WriteCoveredCell() {
	r.elem.add(newElement("table:covered-table-cell"))
}

func (r *Row) newCell(opts CellOptions) *element {
	cell := newElement("table:table-cell")
	if opts.StyleName != "" {
		cell.setAttr("table:style-name", opts.StyleName)
	}
	if opts.ColumnsSpanned > 0 || opts.RowsSpanned > 0 {
		cols, rows := opts.ColumnsSpanned, opts.RowsSpanned
		if cols == 0 {
			cols = 1
		}
		if rows == 0 {
			rows = 1
		}
		cell.setAttr("table:number-columns-spanned", strconv.Itoa(cols))
		cell.setAttr("table:number-rows-spanned", strconv.Itoa(rows))
	}
	cell.setAttr("office:value-type", "string")
	return cell
}

type Sheet struct {
	table *element
	rows  map[string]*Row
}

// CreateRow adds an empty named row for cells to be inserted manually.
func (s *Sheet) CreateRow(name string, opts RowOptions) *Row {
	elem := newElement("table:table-row")
	if opts.StyleName != "" {
		elem.setAttr("table:style-name", opts.StyleName)
	}

	row := &Row{elem: elem}
	s.rows[name] = row
	s.table.add(elem)
	return row
}

// WriteRow creates a named row and populates it with the given cells.
func (s *Sheet) WriteRow(name string, cells []string, rowOpts RowOptions, cellOpts CellOptions) {
	s.CreateRow(name, rowOpts).WriteCells(cells, cellOpts)
}

func (s *Sheet) GetRow(name string) *Row {
	return s.rows[name]
}

func (s *Sheet) CreateColumn(opts ColumnOptions) {
	col := newElement("table:table-column")
	if opts.StyleName != "" {
		col.setAttr("table:style-name", opts.StyleName)
	}
	if opts.DefaultCellStyleName != "" {
		col.setAttr("table:default-cell-style-name", opts.DefaultCellStyleName)
	}
	if opts.Repeated > 1 {
		col.setAttr("table:number-columns-repeated", strconv.Itoa(opts.Repeated))
	}
	s.table.add(col)
}

// ReadCell returns the text of the cell at column x, row y, with paragraphs
// joined by newlines. Out-of-range coordinates read as empty.
func (s *Sheet) ReadCell(x, y int) string {
	var rows []*element
	for _, c := range s.table.children {
		if c.name == "table:table-row" {
			rows = append(rows, c)
		}
	}
	if y < 0 || y >= len(rows) {
		return ""
	}

	cells := rows[y].children
	if x < 0 || x >= len(cells) {
		return ""
	}

	paras := make([]string, 0, len(cells[x].children))
	for _, p := range cells[x].children {
		paras = append(paras, p.textContent())
	}
	return strings.Join(paras, "\n")
}

// StyleFamily selects what an automatic style applies to.
type StyleFamily string

const (
	StyleFamilyTableColumn StyleFamily = "table-column"
	StyleFamilyTableRow    StyleFamily = "table-row"
	StyleFamilyTableCell   StyleFamily = "table-cell"
)

// Attrs hold prefixed ODF attribute names, e.g. "style:column-width".
type Attrs map[string]string

// Prop is one properties block inside a style declaration.
type Prop struct {
	elem *element
}

func properties(name string, attrs Attrs) Prop {
	e := newElement(name)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.setAttr(k, attrs[k])
	}
	return Prop{elem: e}
}

func TableColumnProperties(attrs Attrs) Prop {
	return properties("style:table-column-properties", attrs)
}

func TableRowProperties(attrs Attrs) Prop {
	return properties("style:table-row-properties", attrs)
}

func TableCellProperties(attrs Attrs) Prop {
	return properties("style:table-cell-properties", attrs)
}

func TextProperties(attrs Attrs) Prop {
	return properties("style:text-properties", attrs)
}

type Spreadsheet struct {
	sheets map[string]*Sheet
	order  []*Sheet
	fonts  []*element
	styles []*element
}

func New() *Spreadsheet {
	return &Spreadsheet{sheets: map[string]*Sheet{}}
}

// Sheet returns the named sheet, creating it on first use.
func (ss *Spreadsheet) Sheet(name string) *Sheet {
	if s, ok := ss.sheets[name]; ok {
		return s
	}

	table := newElement("table:table")
	table.setAttr("table:name", name)

	s := &Sheet{table: table, rows: map[string]*Row{}}
	ss.sheets[name] = s
	ss.order = append(ss.order, s)
	return s
}

// AddStyle declares an automatic style; parent may be empty.
func (ss *Spreadsheet) AddStyle(name string, family StyleFamily, props []Prop, parent string) {
	style := newElement("style:style")
	style.setAttr("style:name", name)
	style.setAttr("style:family", string(family))
	if parent != "" {
		style.setAttr("style:parent-style-name", parent)
	}
	for _, p := range props {
		style.add(p.elem)
	}
	ss.styles = append(ss.styles, style)
}

// AddFont declares a font face available to styles.
func (ss *Spreadsheet) AddFont(name, family string) {
	face := newElement("style:font-face")
	face.setAttr("style:name", name)
	face.setAttr("svg:font-family", family)
	ss.fonts = append(ss.fonts, face)
}
