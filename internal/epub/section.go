package epub

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/unalkalkan/txt2epub/pkg/types"
)

const titlePageFilename = "titlepage.xhtml"

func sectionFilename(n int) string {
	return fmt.Sprintf("chapter_%d.xhtml", n)
}

// heading renders an escaped heading element.
func heading(a atom.Atom, text string) (string, error) {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: types.CleanXMLText(text)})

	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", fmt.Errorf("epub: render heading: %w", err)
	}
	return b.String(), nil
}

// sectionBody is the <body> content of a chapter document: the title as
// <h2> followed by the chapter's paragraphs.
func sectionBody(ch *types.Chapter) (string, error) {
	h, err := heading(atom.H2, ch.Title)
	if err != nil {
		return "", err
	}
	if len(ch.Paragraphs) == 0 {
		return h, nil
	}
	return h + "\n" + ch.Body(), nil
}
