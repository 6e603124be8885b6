package parser

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

func mustPattern(t *testing.T, p string) *regexp.Regexp {
	t.Helper()
	re, err := CompilePattern(p)
	if err != nil {
		t.Fatalf("CompilePattern(%q) failed: %v", p, err)
	}
	return re
}

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    bool
	}{
		{"Default matches heading", "", "第一章 开始", true},
		{"Default matches bare heading", "", "第12章", true},
		{"Default rejects body text", "", "他说第一章很好", false},
		{"Anchored at line start", `Chapter \d+`, "See Chapter 3", false},
		{"Custom pattern", `Chapter \d+`, "Chapter 3: Dawn", true},
		{"Alternation stays anchored", `卷|章`, "一章", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustPattern(t, tt.pattern)
			if got := re.MatchString(tt.line); got != tt.want {
				t.Errorf("MatchString(%q) = %v, expected %v", tt.line, got, tt.want)
			}
		})
	}

	t.Run("Invalid pattern", func(t *testing.T) {
		_, err := CompilePattern(`第(.+章`)
		if !errors.Is(err, ErrInvalidPattern) {
			t.Fatalf("Expected ErrInvalidPattern, got %v", err)
		}
	})
}

func TestSplitChapters(t *testing.T) {
	heading := mustPattern(t, DefaultChapterPattern)

	t.Run("Blank mode example", func(t *testing.T) {
		lines := []string{"第一章 开始", "你好。", "", "第二章 继续", "　　再见！"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeBlank, ForceIndent: true})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		if len(chapters) != 2 {
			t.Fatalf("Expected 2 chapters, got %d", len(chapters))
		}
		if chapters[0].Title != "第一章 开始" || !slices.Equal(chapters[0].Paragraphs, []string{"　　你好。"}) {
			t.Errorf("Unexpected first chapter: %q %q", chapters[0].Title, chapters[0].Paragraphs)
		}
		if chapters[1].Title != "第二章 继续" || !slices.Equal(chapters[1].Paragraphs, []string{"　　再见！"}) {
			t.Errorf("Unexpected second chapter: %q %q", chapters[1].Title, chapters[1].Paragraphs)
		}
	})

	t.Run("Preface before first heading", func(t *testing.T) {
		lines := []string{"序言内容。", "第一章", "正文。"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeLine})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		if len(chapters) != 2 {
			t.Fatalf("Expected 2 chapters, got %d", len(chapters))
		}
		if chapters[0].Title != PrefaceTitle {
			t.Errorf("Expected preface title %q, got %q", PrefaceTitle, chapters[0].Title)
		}
	})

	t.Run("Pattern never matches", func(t *testing.T) {
		lines := []string{"甲。", "", "乙。"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeSmart})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		if len(chapters) != 1 || chapters[0].Title != PrefaceTitle {
			t.Fatalf("Expected a single preface chapter, got %+v", chapters)
		}
		if len(chapters[0].Paragraphs) != 2 {
			t.Errorf("Expected 2 paragraphs, got %q", chapters[0].Paragraphs)
		}
	})

	t.Run("Empty chapters are dropped", func(t *testing.T) {
		lines := []string{"", "第一章", "", "", "第二章", "第三章", "内容"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeSmart})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		if len(chapters) != 1 {
			t.Fatalf("Expected 1 chapter, got %d", len(chapters))
		}
		if chapters[0].Title != "第三章" {
			t.Errorf("Expected title 第三章, got %q", chapters[0].Title)
		}
		if chapters[0].Number != 1 || chapters[0].ID != "chapter_001" {
			t.Errorf("Expected numbering to skip dropped chapters, got %d/%s", chapters[0].Number, chapters[0].ID)
		}
	})

	t.Run("Heading titles are trimmed", func(t *testing.T) {
		lines := []string{"　　第五章 归来　 ", "正文"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeLine})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		if len(chapters) != 1 || chapters[0].Title != "第五章 归来" {
			t.Fatalf("Unexpected chapters %+v", chapters)
		}
	})

	t.Run("Indentation survives into the segmenter", func(t *testing.T) {
		lines := []string{"第一章", "　　甲", "乙", "　　丙"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeSmart})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		want := []string{"甲乙", "丙"}
		if !slices.Equal(chapters[0].Paragraphs, want) {
			t.Errorf("Expected %q, got %q", want, chapters[0].Paragraphs)
		}
	})

	t.Run("No text gained or lost", func(t *testing.T) {
		lines := []string{"引子。", "第一章 起", "　　甲乙", "丙。", "", "丁", "第二章 承", "戊！", "己"}
		chapters, err := SplitChapters(lines, heading, segmentation.Options{Mode: types.ModeSmart})
		if err != nil {
			t.Fatalf("SplitChapters failed: %v", err)
		}
		var got strings.Builder
		for _, ch := range chapters {
			for _, p := range ch.Paragraphs {
				got.WriteString(p)
			}
		}
		want := "引子。甲乙丙。丁戊！己"
		if got.String() != want {
			t.Errorf("Expected %q, got %q", want, got.String())
		}
	})

	t.Run("Invalid mode", func(t *testing.T) {
		_, err := SplitChapters([]string{"甲"}, heading, segmentation.Options{Mode: "bogus"})
		if !errors.Is(err, segmentation.ErrInvalidMode) {
			t.Fatalf("Expected ErrInvalidMode, got %v", err)
		}
	})
}
