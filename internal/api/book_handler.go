package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unalkalkan/txt2epub/internal/book"
	"github.com/unalkalkan/txt2epub/internal/packaging"
	"github.com/unalkalkan/txt2epub/internal/textenc"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// BookHandler handles stored-book endpoints
type BookHandler struct {
	repo book.Repository
	svc  *packaging.Service
	cfg  types.ConversionConfig
	log  *slog.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(repo book.Repository, svc *packaging.Service, cfg types.ConversionConfig, log *slog.Logger) *BookHandler {
	return &BookHandler{
		repo: repo,
		svc:  svc,
		cfg:  cfg,
		log:  log,
	}
}

// UploadBook handles POST /api/v1/books. The source is stored, parsed and
// packaged before the response is written.
func (h *BookHandler) UploadBook(w http.ResponseWriter, r *http.Request) {
	form, ferr := parseConversionForm(w, r, h.cfg, h.log)
	if ferr != nil {
		respondError(w, ferr.message, ferr.status)
		return
	}

	newBook := &types.Book{
		ID:         fmt.Sprintf("book_%d", time.Now().UnixNano()),
		Title:      form.meta.Title,
		Author:     form.meta.Author,
		Language:   form.meta.Language,
		UploadedAt: time.Now().UTC(),
		Status:     types.StatusUploaded,
		SourceName: form.filename,
		Options:    form.opts,
	}
	if form.cover != nil {
		newBook.CoverFormat = form.cover.Format
	}

	ctx := r.Context()
	if err := h.repo.SaveBook(ctx, newBook); err != nil {
		h.log.Error("Failed to save book", "book_id", newBook.ID, "error", err)
		respondError(w, "Failed to save book metadata", http.StatusInternalServerError)
		return
	}
	if err := h.repo.SaveRawFile(ctx, newBook.ID, form.data); err != nil {
		h.log.Error("Failed to save source text", "book_id", newBook.ID, "error", err)
		respondError(w, "Failed to save source text", http.StatusInternalServerError)
		return
	}
	if form.cover != nil {
		if err := h.repo.SaveCover(ctx, newBook.ID, form.cover.Data, form.cover.Format); err != nil {
			h.log.Error("Failed to save cover", "book_id", newBook.ID, "error", err)
			respondError(w, "Failed to save cover", http.StatusInternalServerError)
			return
		}
	}

	processed, err := h.svc.ProcessBook(ctx, newBook.ID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, textenc.ErrUndecodable) {
			status = http.StatusUnprocessableEntity
		}
		respondJSON(w, errorResponse{Error: err.Error(), BookID: newBook.ID}, status)
		return
	}

	respondJSON(w, processed, http.StatusCreated)
}

// ListBooks handles GET /api/v1/books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.repo.ListBooks(r.Context())
	if err != nil {
		h.log.Error("Failed to list books", "error", err)
		respondError(w, "Failed to list books", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{"books": books}, http.StatusOK)
}

// GetBook handles GET /api/v1/books/{bookID}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	b, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, b, http.StatusOK)
}

// ListChapters handles GET /api/v1/books/{bookID}/chapters
func (h *BookHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	b, ok := h.lookup(w, r)
	if !ok {
		return
	}

	chapters, err := h.repo.ListChapters(r.Context(), b.ID)
	if err != nil {
		h.log.Error("Failed to list chapters", "book_id", b.ID, "error", err)
		respondError(w, "Failed to list chapters", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]any{"book_id": b.ID, "chapters": chapters}, http.StatusOK)
}

// DownloadBook handles GET /api/v1/books/{bookID}/download
func (h *BookHandler) DownloadBook(w http.ResponseWriter, r *http.Request) {
	b, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if b.Status != types.StatusReady {
		respondError(w, fmt.Sprintf("Book is not ready (status: %s)", b.Status), http.StatusConflict)
		return
	}

	rc, err := h.repo.OpenEPUB(r.Context(), b.ID)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			respondError(w, "EPUB not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to open epub", "book_id", b.ID, "error", err)
		respondError(w, "Failed to open epub", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		h.log.Error("Failed to read epub", "book_id", b.ID, "error", err)
		respondError(w, "Failed to read epub", http.StatusInternalServerError)
		return
	}

	respondEPUB(w, b.Title, data)
}

// lookup loads the book named in the URL, answering 404 when it is missing.
func (h *BookHandler) lookup(w http.ResponseWriter, r *http.Request) (*types.Book, bool) {
	bookID := chi.URLParam(r, "bookID")

	b, err := h.repo.GetBook(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			respondError(w, "Book not found", http.StatusNotFound)
			return nil, false
		}
		h.log.Error("Failed to get book", "book_id", bookID, "error", err)
		respondError(w, "Failed to get book", http.StatusInternalServerError)
		return nil, false
	}
	return b, true
}
