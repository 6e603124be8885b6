package parser

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/internal/textenc"
	"github.com/unalkalkan/txt2epub/pkg/types"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestTXTParser_Parse(t *testing.T) {
	ctx := context.Background()

	parser, err := NewTXTParser(types.Options{ForceIndent: true})
	if err != nil {
		t.Fatalf("NewTXTParser failed: %v", err)
	}

	t.Run("UTF-8 novel", func(t *testing.T) {
		data := []byte("第一章 开始\r\n　　天亮了。\r\n　　他醒了。\r\n\r\n第二章 继续\r\n　　再见！\r\n")

		result, err := parser.Parse(ctx, data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if result.Encoding != string(textenc.UTF8) {
			t.Errorf("Expected utf-8, got %s", result.Encoding)
		}
		if len(result.Chapters) != 2 {
			t.Fatalf("Expected 2 chapters, got %d", len(result.Chapters))
		}
		want := []string{"　　天亮了。", "　　他醒了。"}
		if !slices.Equal(result.Chapters[0].Paragraphs, want) {
			t.Errorf("Expected %q, got %q", want, result.Chapters[0].Paragraphs)
		}
		if result.Paragraphs() != 3 {
			t.Errorf("Expected 3 paragraphs, got %d", result.Paragraphs())
		}
	})

	t.Run("GBK novel", func(t *testing.T) {
		data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("第一章 开始\n你好。\n"))
		if err != nil {
			t.Fatalf("Failed to encode fixture: %v", err)
		}

		result, err := parser.Parse(ctx, data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if result.Encoding != string(textenc.GBK) {
			t.Errorf("Expected gbk, got %s", result.Encoding)
		}
		if len(result.Chapters) != 1 || result.Chapters[0].Title != "第一章 开始" {
			t.Fatalf("Unexpected chapters %+v", result.Chapters)
		}
	})

	t.Run("Undecodable", func(t *testing.T) {
		_, err := parser.Parse(ctx, []byte{0xFF, 0xFE, 0xFF})
		if !errors.Is(err, textenc.ErrUndecodable) {
			t.Fatalf("Expected ErrUndecodable, got %v", err)
		}
	})

	t.Run("Empty file", func(t *testing.T) {
		result, err := parser.Parse(ctx, nil)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(result.Chapters) != 0 {
			t.Errorf("Expected no chapters, got %d", len(result.Chapters))
		}
	})
}

func TestNewTXTParser(t *testing.T) {
	tests := []struct {
		name    string
		opts    types.Options
		wantErr error
	}{
		{"Defaults", types.Options{}, nil},
		{"Line mode", types.Options{ParagraphMode: types.ModeLine}, nil},
		{"Custom pattern", types.Options{ChapterPattern: `Chapter \d+`}, nil},
		{"Bad pattern", types.Options{ChapterPattern: `(`}, ErrInvalidPattern},
		{"Bad mode", types.Options{ParagraphMode: "sentences"}, segmentation.ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTXTParser(tt.opts)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTXTParser_ParseText_Modes(t *testing.T) {
	text := "第一章\n甲\n乙\n\n丙\n"

	tests := []struct {
		mode types.ParagraphMode
		want []string
	}{
		{types.ModeLine, []string{"甲", "乙", "丙"}},
		{types.ModeBlank, []string{"甲乙", "丙"}},
		{types.ModeSmart, []string{"甲乙", "丙"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			parser, err := NewTXTParser(types.Options{ParagraphMode: tt.mode})
			if err != nil {
				t.Fatalf("NewTXTParser failed: %v", err)
			}
			chapters, err := parser.ParseText(text)
			if err != nil {
				t.Fatalf("ParseText failed: %v", err)
			}
			if len(chapters) != 1 {
				t.Fatalf("Expected 1 chapter, got %d", len(chapters))
			}
			if !slices.Equal(chapters[0].Paragraphs, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, chapters[0].Paragraphs)
			}
		})
	}
}
