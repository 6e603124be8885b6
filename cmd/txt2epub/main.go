// Command txt2epub converts a plain-text Chinese novel into an EPUB,
// inferring chapters from heading lines and paragraphs from indentation,
// blank lines or sentence punctuation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/unalkalkan/txt2epub/internal/config"
	"github.com/unalkalkan/txt2epub/internal/convert"
	"github.com/unalkalkan/txt2epub/internal/logging"
	"github.com/unalkalkan/txt2epub/internal/segmentation"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// Version info (injected via ldflags)
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	output         string
	title          string
	author         string
	language       string
	chapterPattern string
	coverImage     string
	paragraphMode  string
	noIndent       bool
	configPath     string
	logLevel       string
	showVersion    bool
}

func newFlagSet(stderr io.Writer, o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("txt2epub", flag.ContinueOnError)
	fs.SetOutput(stderr)

	str := func(p *string, short, long, usage string) {
		fs.StringVar(p, short, "", usage)
		fs.StringVar(p, long, "", usage+" (shorthand -"+short+")")
	}
	str(&o.output, "o", "output", "Output EPUB path (default: input path with .epub)")
	str(&o.title, "t", "title", "Book title (default: input file name)")
	str(&o.author, "a", "author", "Book author (default: "+convert.DefaultAuthor+")")
	str(&o.language, "l", "language", "Book language (default: "+convert.DefaultLanguage+")")
	str(&o.chapterPattern, "c", "chapter-pattern", "Regular expression matching chapter headings")
	str(&o.coverImage, "i", "cover-image", "Cover image (JPEG, PNG or GIF)")
	str(&o.paragraphMode, "p", "paragraph-mode", "Paragraph mode: line, blank or smart")
	fs.BoolVar(&o.noIndent, "no-indent", false, "Do not prefix paragraphs with two ideographic spaces")
	fs.StringVar(&o.configPath, "config", "", "YAML file providing conversion defaults")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.showVersion, "v", false, "Show version information")
	fs.BoolVar(&o.showVersion, "version", false, "Show version information (shorthand -v)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "txt2epub - convert a plain-text novel to EPUB\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  txt2epub [options] <txt_file>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  txt2epub novel.txt\n")
		fmt.Fprintf(stderr, "  txt2epub novel.txt -t 书名 -a 作者 -i cover.jpg\n")
		fmt.Fprintf(stderr, "  txt2epub -p blank -c '^Chapter \\d+' novel.txt\n")
	}
	return fs
}

// parseArgs accepts flags before and after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(stderr, &o)

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if o.showVersion {
		fmt.Fprintf(stdout, "txt2epub %s\n", version)
		return 0
	}
	if len(positional) != 1 {
		fmt.Fprintln(stderr, "Error: exactly one input file is required")
		fs.Usage()
		return 1
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level := cfg.Logging.Level
	if o.logLevel != "" {
		if _, err := logging.ParseLevel(o.logLevel); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		level = o.logLevel
	}
	log := logging.New(types.LoggingConfig{Level: level, Format: "text"}, stderr)

	req, err := buildRequest(positional[0], o, cfg.Conversion)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	sum, err := convert.File(ctx, req, log)
	if err != nil {
		log.Error("Conversion failed", "input", req.InputPath, "error", err)
		return 1
	}

	fmt.Fprintln(stdout, sum.OutputPath)
	return 0
}

// buildRequest merges command-line options over the configured defaults.
func buildRequest(input string, o options, defaults types.ConversionConfig) (convert.Request, error) {
	req := convert.Request{
		InputPath:  input,
		OutputPath: o.output,
		CoverPath:  o.coverImage,
		Metadata: convert.Metadata{
			Title:    o.title,
			Author:   valueOr(o.author, defaults.Author),
			Language: valueOr(o.language, defaults.Language),
		},
		Options: types.Options{
			ChapterPattern: valueOr(o.chapterPattern, defaults.ChapterPattern),
			ParagraphMode:  defaults.ParagraphMode,
			ForceIndent:    defaults.ForceIndent && !o.noIndent,
		},
	}

	if o.paragraphMode != "" {
		mode, err := segmentation.ParseParagraphMode(o.paragraphMode)
		if err != nil {
			return convert.Request{}, err
		}
		req.Options.ParagraphMode = mode
	}
	return req, nil
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
