package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/unalkalkan/txt2epub/internal/convert"
	"github.com/unalkalkan/txt2epub/internal/textenc"
)

// handleConvert handles POST /api/v1/convert. Nothing is stored; the EPUB
// is the response body.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	form, ferr := parseConversionForm(w, r, s.cfg, s.log)
	if ferr != nil {
		respondError(w, ferr.message, ferr.status)
		return
	}

	out, err := convert.Bytes(r.Context(), form.data, form.meta, form.opts, form.cover)
	if err != nil {
		if errors.Is(err, textenc.ErrUndecodable) {
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("Conversion failed", "filename", form.filename, "error", err)
		respondError(w, "Conversion failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("X-Source-Encoding", out.Encoding)
	w.Header().Set("X-Chapter-Count", strconv.Itoa(len(out.Chapters)))
	respondEPUB(w, form.meta.Title, out.EPUB)
}
