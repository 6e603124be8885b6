package epub

import "errors"

// Sentinel errors returned by the epub package.
var (
	// ErrNoTitle indicates a Book without a title was passed to Write.
	ErrNoTitle = errors.New("epub: book has no title")

	// ErrUnsupportedCover indicates the cover bytes are not a JPEG, PNG or
	// GIF image.
	ErrUnsupportedCover = errors.New("epub: unsupported cover image")
)
