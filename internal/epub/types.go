package epub

import (
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// Book holds everything needed to write one EPUB container.
type Book struct {
	// Identifier is the dc:identifier value. Defaults to "id-" + Title.
	Identifier string

	// Title is the dc:title value. Required.
	Title string

	// Author is written as the single dc:creator.
	Author string

	// Language is the BCP 47 tag for dc:language.
	Language string

	// Stylesheet is the CSS shared by all content documents.
	// Defaults to DefaultStylesheet.
	Stylesheet string

	// Cover is optional.
	Cover *Cover

	// Chapters are written in order, one content document each.
	Chapters []*types.Chapter
}

// Cover holds a validated cover image.
type Cover struct {
	// Data is the raw image bytes.
	Data []byte

	// Format is the image format name: "jpeg", "png" or "gif".
	Format string
}

// MediaType returns the MIME type of the cover image.
func (c *Cover) MediaType() string {
	return "image/" + c.Format
}

// Filename returns the name the image is stored under inside the book.
func (c *Cover) Filename() string {
	return "cover." + c.Format
}
