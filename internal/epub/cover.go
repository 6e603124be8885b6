package epub

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// LoadCover validates data as a JPEG, PNG or GIF image.
func LoadCover(data []byte) (*Cover, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCover, err)
	}
	switch format {
	case "jpeg", "png", "gif":
		return &Cover{Data: data, Format: format}, nil
	default:
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedCover, format)
	}
}

// ReadCover reads and validates a cover image file.
func ReadCover(path string) (*Cover, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("epub: read cover: %w", err)
	}
	return LoadCover(data)
}
