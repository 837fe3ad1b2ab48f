// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape encodes decoded text as JSON string literals.
package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends the JSON string literal encoding of src to dst,
// including the enclosing double quotation marks, and returns the extended
// slice. Control characters are escaped, as are the line and paragraph
// separators that are legal in JSON but not in JavaScript source.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for src.Len() > 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		if r < utf8.RuneSelf {
			switch {
			case r < ' ':
				if b := controlEsc[r]; b != 0 {
					dst = append(dst, '\\', b)
				} else {
					dst = append(dst, '\\', 'u', '0', '0', hexDigit[r>>4], hexDigit[r&15])
				}
			case r == '\\' || r == '"':
				dst = append(dst, '\\', byte(r))
			default:
				dst = append(dst, byte(r))
			}
			continue
		}

		switch r {
		case '\ufffd': // replacement rune
			dst = append(dst, `\ufffd`...)
		case '\u2028': // line separator
			dst = append(dst, `\u2028`...)
		case '\u2029': // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			var rbuf [utf8.UTFMax]byte
			k := utf8.EncodeRune(rbuf[:], r)
			dst = append(dst, rbuf[:k]...)
		}
	}
	return append(dst, '"')
}

// Quote returns the JSON string literal encoding of src.
func Quote(src string) []byte { return AppendQuote(nil, mem.S(src)) }
