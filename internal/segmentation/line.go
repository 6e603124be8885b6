package segmentation

import "strings"

// ideographicSpace is the full-width space used by CJK typesetting for indentation.
const ideographicSpace = "　"

// Line is a single input line together with its layout signals
type Line struct {
	Raw      string // line as read, leading whitespace intact
	Text     string // content with indentation and surrounding whitespace removed
	Blank    bool
	Indented bool
}

// Classify reports the layout signals of a raw line.
func Classify(raw string) Line {
	l := Line{Raw: raw}
	if strings.TrimSpace(raw) == "" {
		l.Blank = true
		return l
	}
	l.Indented = HasIndent(raw)
	if l.Indented {
		l.Text = strings.TrimSpace(RemoveIndent(raw))
	} else {
		l.Text = strings.TrimSpace(raw)
	}
	return l
}

// HasIndent reports whether line opens with a full-width space, two ASCII
// spaces or a tab.
func HasIndent(line string) bool {
	return strings.HasPrefix(line, ideographicSpace) ||
		strings.HasPrefix(line, "  ") ||
		strings.HasPrefix(line, "\t")
}

// RemoveIndent strips leading full-width spaces, then leading spaces and tabs.
func RemoveIndent(line string) string {
	line = strings.TrimLeft(line, ideographicSpace)
	return strings.TrimLeft(line, " \t")
}

// ClassifyAll classifies every line in order.
func ClassifyAll(raw []string) []Line {
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = Classify(r)
	}
	return lines
}
