package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unalkalkan/txt2epub/pkg/types"
)

const novel = "第一章 开始\n　　你好。\n　　再见。\n"

func writeNovel(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "novel.txt")
	if err := os.WriteFile(p, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}
	return p
}

// readEntry returns the content of the first entry whose name ends in suffix.
func readEntry(t *testing.T, epubPath, suffix string) string {
	t.Helper()
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", epubPath, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, suffix) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		return string(data)
	}
	t.Fatalf("Missing entry ending in %s", suffix)
	return ""
}

func TestRun(t *testing.T) {
	t.Run("DefaultOutput", func(t *testing.T) {
		input := writeNovel(t, novel)
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), []string{input}, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("Expected exit 0, got %d: %s", code, stderr.String())
		}

		want := strings.TrimSuffix(input, ".txt") + ".epub"
		if strings.TrimSpace(stdout.String()) != want {
			t.Errorf("Expected output path %s, got %s", want, stdout.String())
		}
		if !strings.Contains(readEntry(t, want, "/chapter_1.xhtml"), "<p>　　你好。</p>") {
			t.Error("Expected indented paragraph by default")
		}
	})

	t.Run("FlagsAfterInput", func(t *testing.T) {
		input := writeNovel(t, novel)
		output := filepath.Join(t.TempDir(), "out.epub")
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), []string{input, "-o", output, "--title", "书名", "-a", "作者", "--no-indent", "-p", "line"}, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("Expected exit 0, got %d: %s", code, stderr.String())
		}

		opf := readEntry(t, output, ".opf")
		if !strings.Contains(opf, ">书名<") {
			t.Error("Expected title from --title")
		}
		if !strings.Contains(opf, "作者") {
			t.Error("Expected author from -a")
		}
		if !strings.Contains(readEntry(t, output, "/chapter_1.xhtml"), "<p>你好。</p>") {
			t.Error("Expected unindented paragraph with --no-indent")
		}
	})

	t.Run("ConfigDefaults", func(t *testing.T) {
		input := writeNovel(t, "Chapter 1\nHello.\n\nWorld.\n")
		cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
		cfg := "conversion:\n  author: \"Config Author\"\n  language: \"en\"\n  chapter_pattern: \"Chapter \\\\d+\"\n  force_indent: false\n"
		if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), []string{"--config", cfgPath, input}, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("Expected exit 0, got %d: %s", code, stderr.String())
		}

		output := strings.TrimSpace(stdout.String())
		opf := readEntry(t, output, ".opf")
		if !strings.Contains(opf, "Config Author") || !strings.Contains(opf, ">en</dc:language>") {
			t.Errorf("Expected config defaults in package document, got %s", opf)
		}
		if !strings.Contains(readEntry(t, output, "/chapter_1.xhtml"), "<h2>Chapter 1</h2>") {
			t.Error("Expected heading from configured pattern")
		}
	})

	t.Run("Version", func(t *testing.T) {
		for _, flag := range []string{"--version", "-v"} {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), []string{flag}, &stdout, &stderr); code != 0 {
				t.Fatalf("Expected exit 0 for %s, got %d", flag, code)
			}
			if !strings.HasPrefix(stdout.String(), "txt2epub ") {
				t.Errorf("Expected version line for %s, got %s", flag, stdout.String())
			}
		}
	})

	t.Run("Help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != 0 {
			t.Errorf("Expected exit 0, got %d", code)
		}
		if !strings.Contains(stderr.String(), "Usage:") {
			t.Error("Expected usage text")
		}
	})
}

func TestRunFailures(t *testing.T) {
	undecodable := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(undecodable, []byte{0xFF, 0xFF, 0xFE}, 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"NoInput", nil},
		{"TwoInputs", []string{"a.txt", "b.txt"}},
		{"UnknownFlag", []string{"--bogus", "a.txt"}},
		{"UnknownLogLevel", []string{"--log-level", "chatty", "a.txt"}},
		{"MissingFile", []string{filepath.Join(t.TempDir(), "missing.txt")}},
		{"InvalidMode", []string{writeNovel(t, novel), "-p", "sentences"}},
		{"InvalidPattern", []string{writeNovel(t, novel), "-c", "第("}},
		{"Undecodable", []string{undecodable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("Expected exit 1, got %d", code)
			}
			if stdout.Len() != 0 {
				t.Errorf("Expected nothing on stdout, got %s", stdout.String())
			}
		})
	}

	if _, err := os.Stat(strings.TrimSuffix(undecodable, ".txt") + ".epub"); !os.IsNotExist(err) {
		t.Errorf("Expected no output for undecodable input, got %v", err)
	}
}

func TestBuildRequest(t *testing.T) {
	defaults := types.ConversionConfig{
		Author:         "默认",
		Language:       "zh-CN",
		ChapterPattern: "^第.+章.*$",
		ParagraphMode:  types.ModeSmart,
		ForceIndent:    true,
	}

	req, err := buildRequest("a.txt", options{author: "甲", paragraphMode: "BLANK", noIndent: true}, defaults)
	if err != nil {
		t.Fatalf("buildRequest failed: %v", err)
	}
	if req.Author != "甲" || req.Language != "zh-CN" {
		t.Errorf("Expected flag author and default language, got %s and %s", req.Author, req.Language)
	}
	if req.Options.ParagraphMode != types.ModeBlank {
		t.Errorf("Expected blank mode, got %s", req.Options.ParagraphMode)
	}
	if req.Options.ForceIndent {
		t.Error("Expected --no-indent to disable forced indentation")
	}
}
