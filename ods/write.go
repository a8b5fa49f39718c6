package ods

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

var contentNamespaces = []attr{
	{"xmlns:office", "urn:oasis:names:tc:opendocument:xmlns:office:1.0"},
	{"xmlns:style", "urn:oasis:names:tc:opendocument:xmlns:style:1.0"},
	{"xmlns:table", "urn:oasis:names:tc:opendocument:xmlns:table:1.0"},
	{"xmlns:text", "urn:oasis:names:tc:opendocument:xmlns:text:1.0"},
	{"xmlns:fo", "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"},
	{"xmlns:svg", "urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"},
	{"xmlns:xlink", "http://www.w3.org/1999/xlink"},
}

// Save writes the document as an ODF package. The mimetype entry must come
// first and be stored uncompressed so consumers can sniff it at a fixed
// offset.
func (ss *Spreadsheet) Save(w io.Writer) error {
	zw := zip.NewWriter(w)

	mt, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return fmt.Errorf("ods: mimetype entry: %w", err)
	}
	if _, err := io.WriteString(mt, Mimetype); err != nil {
		return fmt.Errorf("ods: mimetype entry: %w", err)
	}

	for _, part := range []struct {
		name string
		body string
	}{
		{"META-INF/manifest.xml", manifestXML()},
		{"content.xml", ss.contentXML()},
		{"styles.xml", stylesXML()},
	} {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("ods: %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.body); err != nil {
			return fmt.Errorf("ods: %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("ods: close package: %w", err)
	}
	return nil
}

func (ss *Spreadsheet) contentXML() string {
	root := newElement("office:document-content")
	root.attrs = append(root.attrs, contentNamespaces...)
	root.setAttr("office:version", "1.2")

	decls := newElement("office:font-face-decls")
	decls.add(ss.fonts...)
	root.add(decls)

	auto := newElement("office:automatic-styles")
	auto.add(ss.styles...)
	root.add(auto)

	spreadsheet := newElement("office:spreadsheet")
	for _, s := range ss.order {
		spreadsheet.add(s.table)
	}

	body := newElement("office:body")
	body.add(spreadsheet)
	root.add(body)

	var b strings.Builder
	b.WriteString(xmlHeader)
	writeElement(&b, root)
	return b.String()
}

func stylesXML() string {
	root := newElement("office:document-styles")
	root.attrs = append(root.attrs, contentNamespaces...)
	root.setAttr("office:version", "1.2")

	// The "Default" cell style that automatic styles hang off.
	def := newElement("style:style")
	def.setAttr("style:name", "Default")
	def.setAttr("style:family", "table-cell")

	styles := newElement("office:styles")
	styles.add(def)
	root.add(styles)

	var b strings.Builder
	b.WriteString(xmlHeader)
	writeElement(&b, root)
	return b.String()
}

func manifestXML() string {
	root := newElement("manifest:manifest")
	root.setAttr("xmlns:manifest", "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0")
	root.setAttr("manifest:version", "1.2")

	for _, entry := range []struct {
		path  string
		media string
	}{
		{"/", Mimetype},
		{"content.xml", "text/xml"},
		{"styles.xml", "text/xml"},
	} {
		e := newElement("manifest:file-entry")
		e.setAttr("manifest:full-path", entry.path)
		e.setAttr("manifest:media-type", entry.media)
		root.add(e)
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	writeElement(&b, root)
	return b.String()
}

func writeElement(b *strings.Builder, e *element) {
	b.WriteByte('<')
	b.WriteString(e.name)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		escapeXML(b, a.value)
		b.WriteByte('"')
	}

	if e.text == "" && len(e.children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')

	escapeXML(b, e.text)
	for _, c := range e.children {
		writeElement(b, c)
	}

	b.WriteString("</")
	b.WriteString(e.name)
	b.WriteByte('>')
}

func escapeXML(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
}
