// Package packaging turns a stored source text into stored chapters and a
// stored EPUB.
package packaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/unalkalkan/txt2epub/internal/book"
	"github.com/unalkalkan/txt2epub/internal/epub"
	"github.com/unalkalkan/txt2epub/internal/parser"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// Service runs the parse and package stages for stored books
type Service struct {
	bookRepo book.Repository
	logger   *slog.Logger
}

// NewService creates a new packaging service
func NewService(bookRepo book.Repository, logger *slog.Logger) *Service {
	return &Service{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// ProcessBook parses the source text stored for bookID, stores the chapters
// it finds and packages them. On failure the book is left in StatusError
// with the cause recorded, and the error is returned.
func (s *Service) ProcessBook(ctx context.Context, bookID string) (*types.Book, error) {
	b, err := s.bookRepo.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := s.setStatus(ctx, b, types.StatusParsing); err != nil {
		return nil, err
	}

	if err := s.parse(ctx, b); err != nil {
		return b, s.fail(ctx, b, err)
	}

	if err := s.setStatus(ctx, b, types.StatusPackaging); err != nil {
		return nil, err
	}

	if err := s.PackageBook(ctx, bookID); err != nil {
		return b, s.fail(ctx, b, err)
	}

	if err := s.setStatus(ctx, b, types.StatusReady); err != nil {
		return nil, err
	}

	s.logger.Info("Book ready",
		"book_id", b.ID,
		"encoding", b.Encoding,
		"chapters", b.TotalChapters,
		"paragraphs", b.TotalParas)

	return b, nil
}

func (s *Service) parse(ctx context.Context, b *types.Book) error {
	raw, err := s.bookRepo.GetRawFile(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("failed to get source text: %w", err)
	}

	p, err := parser.NewTXTParser(b.Options)
	if err != nil {
		return err
	}

	result, err := p.Parse(ctx, raw)
	if err != nil {
		return err
	}

	for _, ch := range result.Chapters {
		ch.BookID = b.ID
		if err := s.bookRepo.SaveChapter(ctx, ch); err != nil {
			return fmt.Errorf("failed to save chapter %s: %w", ch.ID, err)
		}
	}

	b.Encoding = result.Encoding
	b.TotalChapters = len(result.Chapters)
	b.TotalParas = result.Paragraphs()
	return nil
}

// PackageBook builds the EPUB for a parsed book from its stored chapters and
// cover, and stores it
func (s *Service) PackageBook(ctx context.Context, bookID string) error {
	b, err := s.bookRepo.GetBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to get book: %w", err)
	}

	chapters, err := s.bookRepo.ListChapters(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to list chapters: %w", err)
	}

	var buf bytes.Buffer
	err = epub.Write(&buf, &epub.Book{
		Identifier: b.Identifier,
		Title:      b.Title,
		Author:     b.Author,
		Language:   b.Language,
		Cover:      s.loadCover(ctx, b),
		Chapters:   chapters,
	})
	if err != nil {
		return fmt.Errorf("failed to write epub: %w", err)
	}

	if err := s.bookRepo.SaveEPUB(ctx, bookID, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save epub: %w", err)
	}
	return nil
}

// loadCover returns nil when the book has no usable cover.
func (s *Service) loadCover(ctx context.Context, b *types.Book) *epub.Cover {
	if b.CoverFormat == "" {
		return nil
	}

	data, err := s.bookRepo.GetCover(ctx, b.ID, b.CoverFormat)
	if err != nil {
		s.logger.Warn("Cover unavailable, packaging without it", "book_id", b.ID, "error", err)
		return nil
	}

	cover, err := epub.LoadCover(data)
	if err != nil {
		s.logger.Warn("Cover rejected, packaging without it", "book_id", b.ID, "error", err)
		return nil
	}
	return cover
}

func (s *Service) setStatus(ctx context.Context, b *types.Book, status string) error {
	b.Status = status
	if err := s.bookRepo.UpdateBook(ctx, b); err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}
	return nil
}

// fail records cause on the book and returns it. A failure to persist the
// error state is joined to cause.
func (s *Service) fail(ctx context.Context, b *types.Book, cause error) error {
	s.logger.Error("Book processing failed", "book_id", b.ID, "error", cause)

	b.Error = cause.Error()
	if err := s.setStatus(ctx, b, types.StatusError); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
