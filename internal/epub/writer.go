// Package epub writes EPUB 3 books from titled chapters of plain-text
// paragraphs. Containers are assembled by go-epub, which also emits an NCX
// so that ePub 2 reading systems can build a table of contents.
//
//	err := epub.WriteFile("book.epub", &epub.Book{Title: "书名", Language: "zh-CN", Chapters: chapters})
package epub

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goepub "github.com/go-shiori/go-epub"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/html/atom"

	"github.com/unalkalkan/txt2epub/pkg/types"
)

const styleFilename = "style.css"

// build assembles b into a go-epub book. Text that ends up in XML is
// stripped of characters XML 1.0 does not allow.
func build(b *Book) (*goepub.Epub, error) {
	title := types.CleanXMLText(strings.TrimSpace(b.Title))
	if title == "" {
		return nil, ErrNoTitle
	}

	e, err := goepub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("epub: new book: %w", err)
	}

	identifier := b.Identifier
	if identifier == "" {
		identifier = "id-" + title
	}
	e.SetIdentifier(types.CleanXMLText(identifier))
	if b.Author != "" {
		e.SetAuthor(types.CleanXMLText(b.Author))
	}
	if b.Language != "" {
		e.SetLang(b.Language)
	}

	stylesheet := b.Stylesheet
	if stylesheet == "" {
		stylesheet = DefaultStylesheet
	}
	cssPath, err := e.AddCSS(dataurl.New([]byte(stylesheet), "text/css").String(), styleFilename)
	if err != nil {
		return nil, fmt.Errorf("epub: add stylesheet: %w", err)
	}

	if b.Cover != nil {
		imgPath, err := e.AddImage(dataurl.New(b.Cover.Data, b.Cover.MediaType()).String(), b.Cover.Filename())
		if err != nil {
			return nil, fmt.Errorf("epub: add cover: %w", err)
		}
		e.SetCover(imgPath, "")
	}

	for i, ch := range b.Chapters {
		body, err := sectionBody(ch)
		if err != nil {
			return nil, fmt.Errorf("epub: chapter %d: %w", i+1, err)
		}
		if _, err := e.AddSection(body, types.CleanXMLText(ch.Title), sectionFilename(i+1), cssPath); err != nil {
			return nil, fmt.Errorf("epub: add chapter %d: %w", i+1, err)
		}
	}

	// A package needs at least one spine item.
	if len(b.Chapters) == 0 {
		body, err := heading(atom.H1, title)
		if err != nil {
			return nil, err
		}
		if _, err := e.AddSection(body, title, titlePageFilename, cssPath); err != nil {
			return nil, fmt.Errorf("epub: add title page: %w", err)
		}
	}

	return e, nil
}

// Write serializes b as an EPUB container to w.
func Write(w io.Writer, b *Book) error {
	e, err := build(b)
	if err != nil {
		return err
	}
	if _, err := e.WriteTo(w); err != nil {
		return fmt.Errorf("epub: write: %w", err)
	}
	return nil
}

// WriteFile writes b to the named file, replacing any existing file. The
// book is written to a temporary file in the same directory and renamed
// into place, so a failed write leaves no partial file behind.
func WriteFile(name string, b *Book) error {
	e, err := build(b)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), ".epub-*")
	if err != nil {
		return fmt.Errorf("epub: create %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := e.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("epub: chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("epub: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("epub: move %s into place: %w", name, err)
	}
	return nil
}
