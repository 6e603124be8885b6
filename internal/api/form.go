package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unalkalkan/txt2epub/internal/convert"
	"github.com/unalkalkan/txt2epub/internal/epub"
	"github.com/unalkalkan/txt2epub/internal/parser"
	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// formError carries the HTTP status a rejected form should be answered with
type formError struct {
	status  int
	message string
}

func (e *formError) Error() string { return e.message }

func badRequest(format string, args ...any) *formError {
	return &formError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

// conversionForm is a validated upload
type conversionForm struct {
	filename string
	data     []byte
	cover    *epub.Cover
	meta     convert.Metadata
	opts     types.Options
}

// parseConversionForm reads the multipart upload shared by the stored and
// stateless conversion endpoints. Omitted fields take the configured
// defaults. An unusable cover is logged and dropped.
func parseConversionForm(w http.ResponseWriter, r *http.Request, cfg types.ConversionConfig, log *slog.Logger) (*conversionForm, *formError) {
	// Extra 1MB for the cover and form overhead
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, &formError{status: http.StatusRequestEntityTooLarge, message: fmt.Sprintf("upload exceeds max size (%d bytes)", cfg.MaxUploadBytes)}
		}
		return nil, badRequest("invalid multipart form: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("file is required")
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".txt" {
		return nil, badRequest("unsupported file type: %q (want .txt)", ext)
	}

	data, err := io.ReadAll(io.LimitReader(file, cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, &formError{status: http.StatusInternalServerError, message: "failed to read file"}
	}
	if int64(len(data)) > cfg.MaxUploadBytes {
		return nil, &formError{status: http.StatusRequestEntityTooLarge, message: fmt.Sprintf("file exceeds max size (%d bytes)", cfg.MaxUploadBytes)}
	}

	form := &conversionForm{
		filename: filename,
		data:     data,
		meta: convert.Metadata{
			Title:    valueOr(r.FormValue("title"), convert.TitleFor(filename)),
			Author:   valueOr(r.FormValue("author"), cfg.Author),
			Language: valueOr(r.FormValue("language"), cfg.Language),
		},
		opts: types.Options{
			ChapterPattern: valueOr(r.FormValue("chapter_pattern"), cfg.ChapterPattern),
			ParagraphMode:  cfg.ParagraphMode,
			ForceIndent:    cfg.ForceIndent,
		},
	}

	if v := r.FormValue("paragraph_mode"); v != "" {
		mode, err := segmentation.ParseParagraphMode(v)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		form.opts.ParagraphMode = mode
	}
	if v := r.FormValue("force_indent"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, badRequest("invalid force_indent: %q", v)
		}
		form.opts.ForceIndent = b
	}
	if _, err := parser.CompilePattern(form.opts.ChapterPattern); err != nil {
		return nil, badRequest("%v", err)
	}

	form.cover = readCover(r, log)
	return form, nil
}

// readCover returns the uploaded cover, or nil when none was sent or it is
// not a supported image.
func readCover(r *http.Request, log *slog.Logger) *epub.Cover {
	file, header, err := r.FormFile("cover")
	if err != nil {
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Warn("Skipping cover image", "filename", header.Filename, "error", err)
		return nil
	}
	cover, err := epub.LoadCover(data)
	if err != nil {
		log.Warn("Skipping cover image", "filename", header.Filename, "error", err)
		return nil
	}
	return cover
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
