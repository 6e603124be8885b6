// Package segmentation groups the lines of a chapter into paragraphs.
//
// Three strategies are available. ModeLine keeps one paragraph per line,
// ModeBlank breaks on blank and indented lines, and ModeSmart inspects the
// chapter once and falls back from indentation to blank lines to sentence
// punctuation.
package segmentation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unalkalkan/txt2epub/pkg/types"
)

// IndentMarker is prefixed to every paragraph when forced indentation is on.
const IndentMarker = "　　"

// Terminators are the trailing characters that end a paragraph when a
// chapter carries neither indentation nor blank lines.
const Terminators = "。！？.!?\"'」》)）"

// ErrInvalidMode is returned for an unknown paragraph mode name.
var ErrInvalidMode = errors.New("segmentation: invalid paragraph mode")

// ParseParagraphMode converts a mode name into a ParagraphMode.
func ParseParagraphMode(s string) (types.ParagraphMode, error) {
	m := types.ParagraphMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (want line, blank or smart)", ErrInvalidMode, s)
	}
	return m, nil
}

// Options configures a Segment call
type Options struct {
	Mode        types.ParagraphMode
	ForceIndent bool
}

// Segment groups raw lines into paragraphs according to opts.Mode. Blank
// lines may be present in raw; they never produce paragraphs of their own.
// An unknown mode yields ErrInvalidMode.
func Segment(raw []string, opts Options) ([]string, error) {
	lines := ClassifyAll(raw)

	var paras []string
	switch opts.Mode {
	case types.ModeLine:
		paras = byLine(lines)
	case types.ModeBlank:
		paras = byBlank(lines)
	case types.ModeSmart:
		paras = smart(lines)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}

	if opts.ForceIndent {
		for i := range paras {
			paras[i] = IndentMarker + paras[i]
		}
	}
	return paras, nil
}

func byLine(lines []Line) []string {
	var paras []string
	for _, l := range lines {
		if l.Blank {
			continue
		}
		paras = append(paras, l.Text)
	}
	return paras
}

// byBlank flushes the running paragraph on a blank line, and before an
// indented line when the paragraph already holds text.
func byBlank(lines []Line) []string {
	var (
		paras []string
		buf   strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			paras = append(paras, buf.String())
			buf.Reset()
		}
	}

	for _, l := range lines {
		if l.Blank {
			flush()
			continue
		}
		if l.Indented {
			flush()
		}
		buf.WriteString(l.Text)
	}
	flush()
	return paras
}

// byPunctuation ends a paragraph after any line whose last character is a
// terminator.
func byPunctuation(lines []Line) []string {
	var (
		paras []string
		buf   strings.Builder
	)
	for _, l := range lines {
		if l.Blank {
			continue
		}
		buf.WriteString(l.Text)
		if endsParagraph(l.Text) {
			paras = append(paras, buf.String())
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		paras = append(paras, buf.String())
	}
	return paras
}

func endsParagraph(text string) bool {
	r := []rune(text)
	if len(r) == 0 {
		return false
	}
	return strings.ContainsRune(Terminators, r[len(r)-1])
}

// smart decides once per chapter. Indentation and blank lines share the
// buffered strategy: an indented line opens a paragraph and a blank line
// closes one, so blank lines stay flush points even when indentation is
// the primary delimiter. Only a chapter with neither falls back to
// punctuation.
func smart(lines []Line) []string {
	for _, l := range lines {
		if l.Blank || l.Indented {
			return byBlank(lines)
		}
	}
	return byPunctuation(lines)
}
