package types

// ParagraphMode selects how the lines of a chapter are grouped into paragraphs.
type ParagraphMode string

const (
	// ModeLine makes every non-blank line its own paragraph.
	ModeLine ParagraphMode = "line"
	// ModeBlank breaks paragraphs on blank lines and on indented lines.
	ModeBlank ParagraphMode = "blank"
	// ModeSmart picks indentation, blank lines or punctuation per chapter.
	ModeSmart ParagraphMode = "smart"
)

// Valid reports whether m names a known mode.
func (m ParagraphMode) Valid() bool {
	switch m {
	case ModeLine, ModeBlank, ModeSmart:
		return true
	}
	return false
}
