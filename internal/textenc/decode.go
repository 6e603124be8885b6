// Package textenc decodes source text files, trying UTF-8 first and GBK
// second.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Encoding names a supported source encoding
type Encoding string

const (
	UTF8 Encoding = "utf-8"
	GBK  Encoding = "gbk"
)

// ErrUndecodable is returned when the data is valid in neither encoding.
var ErrUndecodable = errors.New("textenc: input is neither valid UTF-8 nor GBK")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as a string together with the encoding that produced it.
func Decode(data []byte) (string, Encoding, error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), UTF8, nil
	}

	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	// The GBK decoder substitutes U+FFFD for byte sequences it cannot map.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", "", ErrUndecodable
	}
	return string(out), GBK, nil
}

// SplitLines normalizes line endings and splits text into lines. A trailing
// newline produces a final empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
