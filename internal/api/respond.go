package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// errorResponse is the body of every non-2xx JSON answer
type errorResponse struct {
	Error  string `json:"error"`
	BookID string `json:"book_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, errorResponse{Error: message}, status)
}

// respondEPUB writes an e-book as an attachment named after its title.
func respondEPUB(w http.ResponseWriter, title string, data []byte) {
	w.Header().Set("Content-Type", "application/epub+zip")
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Header().Set("Content-Disposition", attachment(title))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// attachment builds a Content-Disposition value; non-ASCII titles are
// encoded per RFC 2231.
func attachment(title string) string {
	if title == "" {
		title = "book"
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": title + ".epub"})
}
