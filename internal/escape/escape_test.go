// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jpush/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\u2028 \u2029 \ufffd", `"\u2028 \u2029 \ufffd"`},
		{"This is the end\v", `"This is the end\u000b"`},
		{"<\x1e>", `"<\u001e>"`},
		{"h\u00e9llo 𝄞", "\"héllo 𝄞\""},
	}
	for _, test := range tests {
		got := string(escape.Quote(test.input))
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestAppendQuote(t *testing.T) {
	got := escape.AppendQuote([]byte("key: "), mem.S("a\tb"))
	const want = `key: "a\tb"`
	if string(got) != want {
		t.Errorf("AppendQuote: got %#q, want %#q", got, want)
	}
}
