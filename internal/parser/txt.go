package parser

import (
	"context"
	"fmt"
	"regexp"

	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/internal/textenc"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

var _ Parser = (*TXTParser)(nil)

// TXTParser parses plain text files
type TXTParser struct {
	heading *regexp.Regexp
	opts    segmentation.Options
}

// NewTXTParser creates a TXT parser for the given inference options. A zero
// ParagraphMode selects smart segmentation.
func NewTXTParser(opts types.Options) (*TXTParser, error) {
	heading, err := CompilePattern(opts.ChapterPattern)
	if err != nil {
		return nil, err
	}

	mode := opts.ParagraphMode
	if mode == "" {
		mode = types.ModeSmart
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", segmentation.ErrInvalidMode, mode)
	}

	return &TXTParser{
		heading: heading,
		opts: segmentation.Options{
			Mode:        mode,
			ForceIndent: opts.ForceIndent,
		},
	}, nil
}

// Parse decodes data and extracts its chapters
func (p *TXTParser) Parse(ctx context.Context, data []byte) (*Result, error) {
	text, enc, err := textenc.Decode(data)
	if err != nil {
		return nil, err
	}

	chapters, err := p.ParseText(text)
	if err != nil {
		return nil, err
	}

	return &Result{Chapters: chapters, Encoding: string(enc)}, nil
}

// ParseText extracts chapters from already decoded text
func (p *TXTParser) ParseText(text string) ([]*types.Chapter, error) {
	return SplitChapters(textenc.SplitLines(text), p.heading, p.opts)
}
