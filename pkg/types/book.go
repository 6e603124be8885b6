package types

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Book represents a text document being converted into an e-book
type Book struct {
	ID            string    `json:"id"`
	Identifier    string    `json:"identifier"` // dc:identifier written to the package
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Language      string    `json:"language"` // BCP 47 tag, e.g. "zh-CN"
	UploadedAt    time.Time `json:"uploaded_at"`
	Status        string    `json:"status"`   // "uploaded", "parsing", "packaging", "ready", "error"
	Encoding      string    `json:"encoding"` // source encoding detected on decode
	SourceName    string    `json:"source_name"`
	CoverFormat   string    `json:"cover_format,omitempty"` // "jpeg", "png", "gif" or empty
	Options       Options   `json:"options"`
	Error         string    `json:"error,omitempty"`
	TotalChapters int       `json:"total_chapters"`
	TotalParas    int       `json:"total_paragraphs"`
}

// Book lifecycle states
const (
	StatusUploaded  = "uploaded"
	StatusParsing   = "parsing"
	StatusPackaging = "packaging"
	StatusReady     = "ready"
	StatusError     = "error"
)

// Options captures the inference settings a book was converted with
type Options struct {
	ChapterPattern string        `json:"chapter_pattern"`
	ParagraphMode  ParagraphMode `json:"paragraph_mode"`
	ForceIndent    bool          `json:"force_indent"`
}

// Chapter represents one titled run of paragraphs in source order
type Chapter struct {
	ID         string   `json:"id"`
	BookID     string   `json:"book_id,omitempty"`
	Number     int      `json:"number"`
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// Body renders the chapter's paragraphs as escaped <p> markup, one per line.
// Characters that XML 1.0 forbids are dropped.
func (c *Chapter) Body() string {
	var b strings.Builder
	for i, p := range c.Paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(CleanXMLText(p)))
		b.WriteString("</p>")
	}
	return b.String()
}
