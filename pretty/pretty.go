// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package pretty renders the event stream of a jpush.Parser back into JSON
// text. It is a collaborator of the parser, not part of its core: the
// caller runs the feed/poll loop and forwards each structural or scalar
// event to a Printer, which reconstructs an equivalent document. The
// round-trip tests of the parser rely on this to compare against a
// reference decoder.
package pretty

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jpush"
	"github.com/creachadair/jpush/internal/escape"
	"github.com/fatih/color"
	"go4.org/mem"
)

// A Palette assigns colors to the lexical classes of the output. A nil
// Palette renders plain text, as does any nil entry.
type Palette struct {
	Key     *color.Color // object member keys
	String  *color.Color // string values
	Number  *color.Color // integer and floating-point values
	Literal *color.Color // true, false, null
}

// DefaultPalette returns the palette used by the jpretty command-line tool.
func DefaultPalette() *Palette {
	return &Palette{
		Key:     color.New(color.FgBlue, color.Bold),
		String:  color.New(color.FgGreen),
		Number:  color.New(color.FgCyan),
		Literal: color.New(color.FgRed),
	}
}

func (p *Palette) key(s string) string     { return paint(p, func() *color.Color { return p.Key }, s) }
func (p *Palette) str(s string) string     { return paint(p, func() *color.Color { return p.String }, s) }
func (p *Palette) num(s string) string     { return paint(p, func() *color.Color { return p.Number }, s) }
func (p *Palette) literal(s string) string { return paint(p, func() *color.Color { return p.Literal }, s) }

func paint(p *Palette, pick func() *color.Color, s string) string {
	if p == nil {
		return s
	}
	c := pick()
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// A Printer consumes parser events and writes the corresponding JSON text
// to an underlying writer. An empty indent produces compact output on a
// single line; a nonempty indent produces one element per line, nested by
// repetition of the indent string.
//
// Events must be delivered in the order the parser produced them. The
// control events (NeedMoreInput, Error, Eof) are not meaningful to a
// Printer and must not be forwarded.
type Printer struct {
	w      io.Writer
	indent string
	pal    *Palette

	level   int
	firsts  []bool // whether the open container at each level is still empty
	inValue bool   // a member key was just printed; its value follows inline
	err     error  // first write error, sticky
}

// NewPrinter constructs a Printer writing to w, indenting nested elements
// by repetition of indent. An empty indent yields compact output.
func NewPrinter(w io.Writer, indent string) *Printer {
	return &Printer{w: w, indent: indent, firsts: []bool{true}}
}

// SetPalette configures pal for coloring output. A nil palette (the
// default) disables coloring.
func (pr *Printer) SetPalette(pal *Palette) { pr.pal = pal }

// Event renders one parser event. For payload-bearing events the text is
// taken from p, which must be the parser that produced ev. The first write
// error is reported by this and every subsequent call.
func (pr *Printer) Event(ev jpush.Event, p *jpush.Parser) error {
	switch ev {
	case jpush.StartObject:
		pr.beginValue()
		pr.put("{")
		pr.open()
	case jpush.EndObject:
		pr.close()
		pr.put("}")
	case jpush.StartArray:
		pr.beginValue()
		pr.put("[")
		pr.open()
	case jpush.EndArray:
		pr.close()
		pr.put("]")
	case jpush.FieldName:
		pr.beginElement()
		pr.put(pr.pal.key(quote(p.Text())))
		if pr.indent == "" {
			pr.put(":")
		} else {
			pr.put(": ")
		}
		pr.inValue = true
	case jpush.ValueString:
		pr.beginValue()
		pr.put(pr.pal.str(quote(p.Text())))
	case jpush.ValueInt, jpush.ValueDouble:
		pr.beginValue()
		pr.put(pr.pal.num(string(p.Text())))
	case jpush.ValueTrue:
		pr.beginValue()
		pr.put(pr.pal.literal("true"))
	case jpush.ValueFalse:
		pr.beginValue()
		pr.put(pr.pal.literal("false"))
	case jpush.ValueNull:
		pr.beginValue()
		pr.put(pr.pal.literal("null"))
	default:
		return fmt.Errorf("pretty: cannot render %v event", ev)
	}
	return pr.err
}

// Err returns the first error that occurred writing output, or nil.
func (pr *Printer) Err() error { return pr.err }

func quote(text []byte) string { return string(escape.AppendQuote(nil, mem.B(text))) }

// beginValue starts a value: inline after its member key, otherwise as a
// new element of the enclosing container.
func (pr *Printer) beginValue() {
	if pr.inValue {
		pr.inValue = false
		return
	}
	pr.beginElement()
}

// beginElement writes the separator preceding a new element at the current
// level: a comma unless it is the first element, and a line break with
// indentation when indented output is enabled.
func (pr *Printer) beginElement() {
	if !pr.firsts[pr.level] {
		pr.put(",")
	}
	pr.firsts[pr.level] = false
	if pr.indent != "" && pr.level > 0 {
		pr.put("\n" + strings.Repeat(pr.indent, pr.level))
	}
}

func (pr *Printer) open() {
	pr.level++
	pr.firsts = append(pr.firsts, true)
}

func (pr *Printer) close() {
	empty := pr.firsts[pr.level]
	pr.firsts = pr.firsts[:pr.level]
	pr.level--
	if !empty && pr.indent != "" {
		pr.put("\n" + strings.Repeat(pr.indent, pr.level))
	}
}

func (pr *Printer) put(s string) {
	if pr.err == nil {
		_, pr.err = io.WriteString(pr.w, s)
	}
}
