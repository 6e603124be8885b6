// Package book persists converted books, their chapters and their artifacts
// through a storage adapter.
package book

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/unalkalkan/txt2epub/internal/storage"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// ErrNotFound is returned when a book or one of its artifacts is missing.
var ErrNotFound = errors.New("book: not found")

// Repository handles book metadata and artifact persistence
type Repository interface {
	// SaveBook stores book metadata
	SaveBook(ctx context.Context, book *types.Book) error

	// GetBook retrieves book metadata by ID
	GetBook(ctx context.Context, bookID string) (*types.Book, error)

	// UpdateBook updates book metadata
	UpdateBook(ctx context.Context, book *types.Book) error

	// ListBooks returns all books, newest upload first
	ListBooks(ctx context.Context) ([]*types.Book, error)

	// SaveChapter stores chapter data
	SaveChapter(ctx context.Context, chapter *types.Chapter) error

	// GetChapter retrieves chapter by ID
	GetChapter(ctx context.Context, bookID, chapterID string) (*types.Chapter, error)

	// ListChapters returns all chapters for a book in reading order
	ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error)

	// SaveRawFile stores the uploaded source text
	SaveRawFile(ctx context.Context, bookID string, data []byte) error

	// GetRawFile retrieves the uploaded source text
	GetRawFile(ctx context.Context, bookID string) ([]byte, error)

	// SaveCover stores the cover image in the given format
	SaveCover(ctx context.Context, bookID string, data []byte, format string) error

	// GetCover retrieves the cover image stored in the given format
	GetCover(ctx context.Context, bookID, format string) ([]byte, error)

	// SaveEPUB stores the packaged e-book
	SaveEPUB(ctx context.Context, bookID string, data []byte) error

	// OpenEPUB opens the packaged e-book for reading
	OpenEPUB(ctx context.Context, bookID string) (io.ReadCloser, error)
}

// StorageRepository implements Repository using a storage adapter
type StorageRepository struct {
	storage storage.Adapter
}

// NewRepository creates a new book repository
func NewRepository(storageAdapter storage.Adapter) Repository {
	return &StorageRepository{
		storage: storageAdapter,
	}
}

func bookDir(bookID string) string {
	return path.Join("books", bookID)
}

// SaveBook stores book metadata
func (r *StorageRepository) SaveBook(ctx context.Context, book *types.Book) error {
	return r.putJSON(ctx, path.Join(bookDir(book.ID), "metadata.json"), book)
}

// GetBook retrieves book metadata by ID
func (r *StorageRepository) GetBook(ctx context.Context, bookID string) (*types.Book, error) {
	var book types.Book
	if err := r.getJSON(ctx, path.Join(bookDir(bookID), "metadata.json"), &book); err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", bookID, err)
	}
	return &book, nil
}

// UpdateBook updates book metadata
func (r *StorageRepository) UpdateBook(ctx context.Context, book *types.Book) error {
	return r.SaveBook(ctx, book)
}

// ListBooks returns all books, newest upload first
func (r *StorageRepository) ListBooks(ctx context.Context) ([]*types.Book, error) {
	paths, err := r.storage.List(ctx, "books/")
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]*types.Book, 0)
	for _, p := range paths {
		// Only metadata files, not chapters or artifacts
		if path.Base(p) != "metadata.json" {
			continue
		}

		var book types.Book
		if err := r.getJSON(ctx, p, &book); err != nil {
			continue // Skip books that can't be read
		}
		books = append(books, &book)
	}

	sort.Slice(books, func(i, j int) bool {
		if !books[i].UploadedAt.Equal(books[j].UploadedAt) {
			return books[i].UploadedAt.After(books[j].UploadedAt)
		}
		return books[i].ID < books[j].ID
	})

	return books, nil
}

// SaveChapter stores chapter data
func (r *StorageRepository) SaveChapter(ctx context.Context, chapter *types.Chapter) error {
	return r.putJSON(ctx, chapterPath(chapter.BookID, chapter.ID), chapter)
}

func chapterPath(bookID, chapterID string) string {
	return path.Join(bookDir(bookID), "chapters", chapterID+".json")
}

// GetChapter retrieves chapter by ID
func (r *StorageRepository) GetChapter(ctx context.Context, bookID, chapterID string) (*types.Chapter, error) {
	var chapter types.Chapter
	if err := r.getJSON(ctx, chapterPath(bookID, chapterID), &chapter); err != nil {
		return nil, fmt.Errorf("failed to get chapter %s: %w", chapterID, err)
	}
	return &chapter, nil
}

// ListChapters returns all chapters for a book in reading order
func (r *StorageRepository) ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error) {
	paths, err := r.storage.List(ctx, path.Join(bookDir(bookID), "chapters")+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	chapters := make([]*types.Chapter, 0, len(paths))
	for _, p := range paths {
		var chapter types.Chapter
		if err := r.getJSON(ctx, p, &chapter); err != nil {
			return nil, fmt.Errorf("failed to read chapter %s: %w", p, err)
		}
		chapters = append(chapters, &chapter)
	}

	sort.Slice(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})

	return chapters, nil
}

// SaveRawFile stores the uploaded source text
func (r *StorageRepository) SaveRawFile(ctx context.Context, bookID string, data []byte) error {
	return r.storage.Put(ctx, path.Join(bookDir(bookID), "source.txt"), bytes.NewReader(data))
}

// GetRawFile retrieves the uploaded source text
func (r *StorageRepository) GetRawFile(ctx context.Context, bookID string) ([]byte, error) {
	return r.getBytes(ctx, path.Join(bookDir(bookID), "source.txt"))
}

// SaveCover stores the cover image in the given format
func (r *StorageRepository) SaveCover(ctx context.Context, bookID string, data []byte, format string) error {
	return r.storage.Put(ctx, coverPath(bookID, format), bytes.NewReader(data))
}

// GetCover retrieves the cover image stored in the given format
func (r *StorageRepository) GetCover(ctx context.Context, bookID, format string) ([]byte, error) {
	return r.getBytes(ctx, coverPath(bookID, format))
}

func coverPath(bookID, format string) string {
	return path.Join(bookDir(bookID), "cover."+format)
}

// SaveEPUB stores the packaged e-book
func (r *StorageRepository) SaveEPUB(ctx context.Context, bookID string, data []byte) error {
	return r.storage.Put(ctx, path.Join(bookDir(bookID), "book.epub"), bytes.NewReader(data))
}

// OpenEPUB opens the packaged e-book for reading. The caller closes it.
func (r *StorageRepository) OpenEPUB(ctx context.Context, bookID string) (io.ReadCloser, error) {
	rc, err := r.storage.Get(ctx, path.Join(bookDir(bookID), "book.epub"))
	if err != nil {
		return nil, notFound(err)
	}
	return rc, nil
}

func (r *StorageRepository) putJSON(ctx context.Context, p string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path.Base(p), err)
	}
	return r.storage.Put(ctx, p, bytes.NewReader(data))
}

func (r *StorageRepository) getJSON(ctx context.Context, p string, v any) error {
	reader, err := r.storage.Get(ctx, p)
	if err != nil {
		return notFound(err)
	}
	defer reader.Close()

	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path.Base(p), err)
	}
	return nil
}

func (r *StorageRepository) getBytes(ctx context.Context, p string) ([]byte, error) {
	reader, err := r.storage.Get(ctx, p)
	if err != nil {
		return nil, notFound(err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path.Base(p), err)
	}
	return data, nil
}

// notFound translates a storage miss into ErrNotFound and passes other
// errors through.
func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
