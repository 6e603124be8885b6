// Package convert turns one plain-text novel into one EPUB in a single call.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/unalkalkan/txt2epub/internal/epub"
	"github.com/unalkalkan/txt2epub/internal/parser"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

const (
	DefaultAuthor   = "净无痕"
	DefaultLanguage = "zh-CN"
)

// Metadata describes the book being produced.
type Metadata struct {
	Identifier string
	Title      string
	Author     string
	Language   string
}

func (m *Metadata) applyDefaults() {
	if m.Author == "" {
		m.Author = DefaultAuthor
	}
	if m.Language == "" {
		m.Language = DefaultLanguage
	}
}

// Output is the result of converting one document.
type Output struct {
	EPUB     []byte
	Encoding string
	Chapters []*types.Chapter
}

// Paragraphs returns the number of paragraphs across all chapters.
func (o *Output) Paragraphs() int {
	n := 0
	for _, ch := range o.Chapters {
		n += len(ch.Paragraphs)
	}
	return n
}

// prepare decodes data and infers its chapters and paragraphs. The returned
// book is ready to be written.
func prepare(ctx context.Context, data []byte, meta Metadata, opts types.Options, cover *epub.Cover) (*epub.Book, string, error) {
	p, err := parser.NewTXTParser(opts)
	if err != nil {
		return nil, "", err
	}

	result, err := p.Parse(ctx, data)
	if err != nil {
		return nil, "", err
	}

	meta.applyDefaults()

	return &epub.Book{
		Identifier: meta.Identifier,
		Title:      meta.Title,
		Author:     meta.Author,
		Language:   meta.Language,
		Cover:      cover,
		Chapters:   result.Chapters,
	}, result.Encoding, nil
}

// Bytes decodes data, infers its chapters and paragraphs and packages the
// result. cover may be nil.
func Bytes(ctx context.Context, data []byte, meta Metadata, opts types.Options, cover *epub.Cover) (*Output, error) {
	book, encoding, err := prepare(ctx, data, meta, opts, cover)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := epub.Write(&buf, book); err != nil {
		return nil, fmt.Errorf("failed to write epub: %w", err)
	}

	return &Output{
		EPUB:     buf.Bytes(),
		Encoding: encoding,
		Chapters: book.Chapters,
	}, nil
}

// Request is a file-to-file conversion.
type Request struct {
	InputPath  string
	OutputPath string // defaults to InputPath with an .epub extension
	CoverPath  string
	Metadata   // Title defaults to the input file's base name
	Options    types.Options
}

// Summary reports what File produced.
type Summary struct {
	OutputPath string
	Encoding   string
	Chapters   int
	Paragraphs int
	Cover      bool
}

// OutputPathFor derives the default output path for a text file.
func OutputPathFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".epub"
}

// TitleFor derives the default book title for a text file.
func TitleFor(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// File converts req.InputPath and writes the EPUB to req.OutputPath. A cover
// that cannot be read or is not a supported image is logged and skipped.
func File(ctx context.Context, req Request, log *slog.Logger) (*Summary, error) {
	if req.OutputPath == "" {
		req.OutputPath = OutputPathFor(req.InputPath)
	}
	if req.Title == "" {
		req.Title = TitleFor(req.InputPath)
	}

	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var cover *epub.Cover
	if req.CoverPath != "" {
		cover, err = epub.ReadCover(req.CoverPath)
		if err != nil {
			log.Warn("Skipping cover image", "path", req.CoverPath, "error", err)
			cover = nil
		}
	}

	book, encoding, err := prepare(ctx, data, req.Metadata, req.Options, cover)
	if err != nil {
		return nil, err
	}
	if len(book.Chapters) == 0 {
		log.Warn("No chapters found", "input", req.InputPath)
	}

	if err := epub.WriteFile(req.OutputPath, book); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	out := &Output{Encoding: encoding, Chapters: book.Chapters}
	log.Info("Converted book",
		"input", req.InputPath,
		"output", req.OutputPath,
		"encoding", out.Encoding,
		"chapters", len(out.Chapters),
		"paragraphs", out.Paragraphs())

	return &Summary{
		OutputPath: req.OutputPath,
		Encoding:   out.Encoding,
		Chapters:   len(out.Chapters),
		Paragraphs: out.Paragraphs(),
		Cover:      cover != nil,
	}, nil
}
