// Package epub reads the text sections of an EPUB book.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"ereader/html"
)

var (
	ErrNotFound   = errors.New("no such book")
	ErrNotEPUB    = errors.New("not an .epub file")
	ErrNoRootfile = errors.New("container.xml names no package document")
)

const containerPath = "META-INF/container.xml"

// Section is one document of the book, decoded to plain text.
type Section struct {
	ID   string // manifest item id
	Text string
}

// Lines splits the section text into lines.
func (s Section) Lines() []string {
	return strings.Split(strings.ReplaceAll(s.Text, "\r\n", "\n"), "\n")
}

// Options control text extraction.
type Options struct {
	// Width wraps paragraphs at this many cells; 0 leaves them unwrapped.
	Width int
}

// Book is an open EPUB archive.
type Book struct {
	Path  string
	Title string

	zr       *zip.ReadCloser
	files    map[string]*zip.File
	opfDir   string
	manifest []item
	spine    []string
}

type item struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDoc struct {
	Title    []string `xml:"metadata>title"`
	Manifest []item   `xml:"manifest>item"`
	Spine    []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// Check reports whether path names an existing .epub file.
func Check(p string) error {
	if !strings.EqualFold(filepath.Ext(p), ".epub") {
		return fmt.Errorf("%s: %w", p, ErrNotEPUB)
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", p, ErrNotEPUB)
	}
	return nil
}

// Open opens the book at path and reads its package document.
func Open(p string) (*Book, error) {
	if err := Check(p); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}

	b := &Book{Path: p, zr: zr, files: make(map[string]*zip.File)}
	for _, f := range zr.File {
		b.files[f.Name] = f
	}

	if err := b.readPackage(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return b, nil
}

// Close releases the archive.
func (b *Book) Close() error {
	return b.zr.Close()
}

func (b *Book) readPackage() error {
	var c container
	if err := b.decodeXML(containerPath, &c); err != nil {
		return err
	}
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return ErrNoRootfile
	}
	opfPath := c.Rootfiles[0].FullPath

	var pkg packageDoc
	if err := b.decodeXML(opfPath, &pkg); err != nil {
		return err
	}

	b.opfDir = path.Dir(opfPath)
	b.manifest = pkg.Manifest
	for _, ref := range pkg.Spine {
		b.spine = append(b.spine, ref.IDRef)
	}
	for _, t := range pkg.Title {
		if t = strings.TrimSpace(t); t != "" {
			b.Title = t
			break
		}
	}
	return nil
}

func (b *Book) decodeXML(name string, v any) error {
	rc, err := b.open(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func (b *Book) open(name string) (io.ReadCloser, error) {
	f, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("missing %s", name)
	}
	return f.Open()
}

func isDocument(it item) bool {
	switch it.MediaType {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

// documents returns the content documents in reading order: the spine,
// or the manifest when the spine is empty.
func (b *Book) documents() []item {
	byID := make(map[string]item, len(b.manifest))
	for _, it := range b.manifest {
		byID[it.ID] = it
	}

	var docs []item
	if len(b.spine) > 0 {
		for _, id := range b.spine {
			if it, ok := byID[id]; ok && isDocument(it) {
				docs = append(docs, it)
			}
		}
		return docs
	}
	for _, it := range b.manifest {
		if isDocument(it) {
			docs = append(docs, it)
		}
	}
	return docs
}

// Sections decodes every content document to text.
func (b *Book) Sections(opts Options) ([]Section, error) {
	var sections []Section
	for _, it := range b.documents() {
		s, err := b.section(it, opts)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, nil
}

func (b *Book) section(it item, opts Options) (Section, error) {
	name := path.Join(b.opfDir, it.Href)
	if unescaped, err := url.PathUnescape(name); err == nil {
		if _, ok := b.files[unescaped]; ok {
			name = unescaped
		}
	}

	rc, err := b.open(name)
	if err != nil {
		return Section{}, fmt.Errorf("section %s: %w", it.ID, err)
	}
	defer rc.Close()

	doc, err := html.Parse(rc)
	if err != nil {
		return Section{}, fmt.Errorf("section %s: %w", it.ID, err)
	}
	return Section{
		ID:   it.ID,
		Text: html.Text(doc.Content, opts.Width),
	}, nil
}
