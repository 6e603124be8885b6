package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

const (
	// DefaultChapterPattern matches headings such as "第一章 开始".
	DefaultChapterPattern = `^第.+章.*$`

	// PrefaceTitle names the implicit chapter that precedes the first heading.
	PrefaceTitle = "前言"
)

// ErrInvalidPattern is returned when a chapter pattern does not compile.
var ErrInvalidPattern = errors.New("parser: invalid chapter pattern")

// CompilePattern compiles a heading pattern anchored at the start of the
// trimmed line. An empty pattern selects DefaultChapterPattern.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = DefaultChapterPattern
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// SplitChapters partitions lines into chapters at every line whose trimmed
// form matches heading. Heading lines become chapter titles and are not
// part of any chapter body. Chapters that segment to no paragraphs are
// dropped.
func SplitChapters(lines []string, heading *regexp.Regexp, opts segmentation.Options) ([]*types.Chapter, error) {
	var (
		chapters []*types.Chapter
		title    = PrefaceTitle
		buf      []string
	)

	finish := func() error {
		if len(buf) == 0 {
			return nil
		}
		paras, err := segmentation.Segment(buf, opts)
		if err != nil {
			return err
		}
		if len(paras) == 0 {
			return nil
		}
		n := len(chapters) + 1
		chapters = append(chapters, &types.Chapter{
			ID:         fmt.Sprintf("chapter_%03d", n),
			Number:     n,
			Title:      title,
			Paragraphs: paras,
		})
		return nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			buf = append(buf, "")
			continue
		}
		if heading.MatchString(trimmed) {
			if err := finish(); err != nil {
				return nil, err
			}
			title = trimmed
			buf = nil
			continue
		}
		buf = append(buf, line)
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return chapters, nil
}
