// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program jpretty reads a JSON document from a file or stdin and reformats
// it on stdout. It drives a jpush.Parser through its feed/poll loop over
// fixed-size chunks, so arbitrarily large documents are processed without
// buffering more than one chunk plus the parser's feeder.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jpush"
	"github.com/creachadair/jpush/pretty"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/tailscale/hujson"
)

var (
	fileName = flag.String("file", "", "Input file name (stdin if omitted)")
	indent   = flag.Int("indent", 2, "Indent step for output (0 means compact)")
	maxDepth = flag.Int("depth", jpush.DefaultMaxDepth, "Maximum nesting depth")
	fixup    = flag.Bool("hujson", false, "Standardize human JSON (comments, trailing commas) before parsing")
)

func main() {
	useColor := isatty.IsTerminal(os.Stdout.Fd())
	flag.BoolFunc("colors", "Force colored output", func(string) error {
		useColor = true
		return nil
	})
	flag.BoolFunc("nocolors", "Disable colored output", func(string) error {
		useColor = false
		return nil
	})
	flag.Parse()

	var in io.Reader = os.Stdin
	if *fileName != "" {
		f, err := os.Open(*fileName)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		in = f
	}
	if *fixup {
		data, err := io.ReadAll(in)
		if err != nil {
			fail(err)
		}
		std, err := hujson.Standardize(data)
		if err != nil {
			fail(err)
		}
		in = bytes.NewReader(std)
	}

	var out io.Writer = os.Stdout
	var pal *pretty.Palette
	if useColor {
		color.NoColor = false
		out = colorable.NewColorableStdout()
		pal = pretty.DefaultPalette()
	}
	pr := pretty.NewPrinter(out, strings.Repeat(" ", max(*indent, 0)))
	pr.SetPalette(pal)

	if err := run(in, pr, *maxDepth); err != nil {
		fail(err)
	}
	fmt.Fprintln(out)
}

// run feeds r through a parser one chunk at a time, forwarding each
// structural or scalar event to pr.
func run(r io.Reader, pr *pretty.Printer, maxDepth int) error {
	p := jpush.NewParserDepth(maxDepth)
	feeder := p.Feeder()
	br := bufio.NewReader(r)
	chunk := make([]byte, 4096)
	var carry []byte // bytes read but not yet accepted by the feeder

	for {
		switch ev := p.NextEvent(); ev {
		case jpush.NeedMoreInput:
			if len(carry) == 0 {
				n, err := br.Read(chunk)
				if n == 0 {
					if err == io.EOF {
						feeder.MarkDone()
						continue
					}
					return err
				}
				carry = chunk[:n]
			}
			n, err := feeder.FeedBytes(carry)
			if err != nil {
				return err
			}
			carry = carry[n:]
		case jpush.Error:
			return p.Err()
		case jpush.Eof:
			return nil
		default:
			if err := pr.Event(ev, p); err != nil {
				return err
			}
		}
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "jpretty:", err)
	os.Exit(1)
}
