package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
//  1. Strips UTF-8 BOM if present.
//  2. Normalizes Windows (\r\n) and legacy Mac (\r) newlines to \n, so
//     every downstream line/column calculation only has to handle one
//     internal representation.
//  3. Applies Unicode NFC normalization.
//
// This ensures that lexically equivalent source code produces identical
// token streams regardless of encoding variations (Testable Property:
// "lexing followed by re-lexing of a canonicalized token-stream produces
// the same tokens").
//
// Normalization is performed once at input to avoid repeated processing.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)

	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	src = bytes.ReplaceAll(src, []byte("\r"), []byte("\n"))

	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}
