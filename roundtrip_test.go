// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jpush_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/creachadair/jpush"
	"github.com/creachadair/jpush/pretty"
	"github.com/google/go-cmp/cmp"
)

// reprint parses input through a Parser fed chunk bytes at a time and
// renders the event stream with a Printer using the given indent.
func reprint(t *testing.T, input string, chunk int, indent string) string {
	t.Helper()
	var buf bytes.Buffer
	pr := pretty.NewPrinter(&buf, indent)
	p := jpush.NewParser()
	feeder := p.Feeder()
	rest := []byte(input)

	for {
		switch e := p.NextEvent(); e {
		case jpush.NeedMoreInput:
			if len(rest) == 0 {
				feeder.MarkDone()
				continue
			}
			n := len(rest)
			if chunk > 0 && chunk < n {
				n = chunk
			}
			fed, err := feeder.FeedBytes(rest[:n])
			if err != nil {
				t.Fatalf("FeedBytes failed: %v", err)
			}
			rest = rest[fed:]
		case jpush.Error:
			t.Fatalf("Input %#q: unexpected parse error: %v", input, p.Err())
		case jpush.Eof:
			return buf.String()
		default:
			if err := pr.Event(e, p); err != nil {
				t.Fatalf("Render %v failed: %v", e, err)
			}
		}
	}
}

// TestRoundTrip verifies that re-serializing the event stream yields a
// document that a reference decoder considers equal to its input, for both
// compact and indented output and independent of input fragmentation.
func TestRoundTrip(t *testing.T) {
	docs := []string{
		`{}`,
		`[]`,
		`{"name": "Elvis"}`,
		`["Elvis", 132, "Max", 80.67]`,
		`{"menu": {
		   "id": "file",
		   "popup": {"menuitem": [
		     {"value": "New", "onclick": "CreateNewDoc()"},
		     {"value": "Open", "onclick": null}
		   ]},
		   "flags": [true, false],
		   "weights": [0, -1.5, 2e10, 0.125, -0.001e-2]
		 }}`,
		`["escape salad: \" \\ \/ \b \f \n \r \t ! 𝄞", "plain"]`,
		`{"unicode": "füße 𝄞", "empty": {"a": [], "o": {}}}`,
		`3.25`,
		`"top-level string"`,
	}

	for _, doc := range docs {
		var want any
		if err := json.Unmarshal([]byte(doc), &want); err != nil {
			t.Fatalf("Reference decode of %#q failed: %v", doc, err)
		}

		for _, indent := range []string{"", "  "} {
			for _, chunk := range []int{0, 1, 7} {
				out := reprint(t, doc, chunk, indent)

				var got any
				if err := json.Unmarshal([]byte(out), &got); err != nil {
					t.Fatalf("Output %#q does not parse: %v", out, err)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("Input %#q, indent %q, chunk %d: (-want, +got)\n%s",
						doc, indent, chunk, diff)
				}
			}
		}
	}
}
