// Package textenc resolves the text encoding of statement exports.
//
// The legacy banking system behind these exports emits UTF-16 or Latin-1
// without declaring an encoding, so content-based sniffing against known
// structural tokens is more reliable than BOM detection alone.
package textenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/castmind/quetzal/internal/common"
)

// headLines bounds how far into the document a structural token must
// appear. Header material sits at the top of every supported export.
const headLines = 15

type candidate struct {
	enc  encoding.Encoding
	name string
}

// candidates are tried in order; the first decode whose head contains an
// expected token wins. UTF-8 is handled separately because its decoder
// substitutes invalid bytes instead of failing, which would let a Latin-1
// file with accented characters slip through as mangled UTF-8.
// UTF-16 candidates ignore the BOM on decode: a BOM is honored only
// implicitly, through the token check succeeding for the right endianness.
var candidates = []candidate{
	{name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{name: "iso-8859-1", enc: charmap.ISO8859_1},
	{name: "windows-1252", enc: charmap.Windows1252},
}

// Resolve decodes raw statement bytes, trying UTF-8, UTF-16BE, UTF-16LE,
// Latin-1 and Windows-1252 in that order and accepting the first decoding
// under which one of the expected tokens appears near the top of the
// document. It returns the decoded text and the name of the encoding used.
func Resolve(raw []byte, tokens []string) (string, string, error) {
	tried := []string{"utf-8"}

	if utf8.Valid(raw) {
		text := strings.TrimPrefix(string(raw), "\uFEFF")
		if containsToken(text, tokens) {
			return text, "utf-8", nil
		}
	}

	for _, c := range candidates {
		tried = append(tried, c.name)
		decoded, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		text := strings.TrimPrefix(string(decoded), "\uFEFF")
		if containsToken(text, tokens) {
			return text, c.name, nil
		}
	}

	return "", "", &common.EncodingError{Tried: tried}
}

// containsToken reports whether any expected token appears (case
// insensitively) within the first few lines of text.
func containsToken(text string, tokens []string) bool {
	lines := strings.SplitN(text, "\n", headLines+1)
	if len(lines) > headLines {
		lines = lines[:headLines]
	}
	head := strings.ToLower(strings.Join(lines, "\n"))

	for _, token := range tokens {
		if strings.Contains(head, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
