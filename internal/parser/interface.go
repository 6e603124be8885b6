package parser

import (
	"context"

	"github.com/unalkalkan/txt2epub/pkg/types"
)

// Parser defines the interface for document parsers
type Parser interface {
	// Parse decodes the document and infers its chapters and paragraphs
	Parse(ctx context.Context, data []byte) (*Result, error)
}

// Result is the outcome of parsing one document
type Result struct {
	Chapters []*types.Chapter
	Encoding string
}

// Paragraphs returns the total paragraph count across all chapters.
func (r *Result) Paragraphs() int {
	n := 0
	for _, ch := range r.Chapters {
		n += len(ch.Paragraphs)
	}
	return n
}
