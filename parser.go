// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jpush

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// DefaultMaxDepth is the maximum nesting depth of a Parser constructed by
// NewParser. It is generous enough for any realistic document; callers that
// need a different bound use NewParserDepth.
const DefaultMaxDepth = 2048

// A Parser is a non-blocking, incremental JSON parser. Input bytes arrive
// through the parser's Feeder; each call to NextEvent consumes pending bytes
// until it can report one structural or lexical event. When the feeder runs
// dry mid-scan, NextEvent returns NeedMoreInput and the parser resumes at
// exactly the same byte boundary on the next call, including in the middle
// of a string, an escape sequence, a surrogate pair, a number, or a literal
// keyword. No byte is ever consumed twice.
//
// A Parser is not safe for concurrent use. Feeding and parsing must be
// strictly sequenced on a single logical thread of control.
type Parser struct {
	feeder   *Feeder
	stack    []mode // nesting modes; stack[0] is always modeTop
	maxDepth int
	state    lexState
	event    Event        // the event most recently returned by NextEvent
	buf      bytes.Buffer // decoded text of the token being scanned
	pos      int          // count of bytes consumed from the feeder
	pending  int          // one-byte pushback after a number, -1 if none
	err      error

	// String sub-state, preserved across suspensions.
	inKey      bool // the current string is an object member key
	u8Left     int  // pending UTF-8 continuation bytes
	u8Lo, u8Hi byte // acceptance range for the next continuation byte
	highSur    rune // pending high surrogate awaiting its low half
	hexVal     rune // accumulated \uXXXX value
	hexLeft    int  // hex digits still required

	// Literal sub-state.
	lit      mem.RO // the keyword being matched
	litPos   int
	litEvent Event

	// Number sub-state.
	isDouble bool // the number has a fraction or an exponent
}

// NewParser constructs a parser with the default maximum nesting depth and
// a feeder of DefaultFeederCapacity.
func NewParser() *Parser { return NewParserDepth(DefaultMaxDepth) }

// NewParserDepth constructs a parser that fails with Error when the input
// nests arrays and objects more than maxDepth levels deep. If maxDepth < 1,
// DefaultMaxDepth is used.
func NewParserDepth(maxDepth int) *Parser {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{
		feeder:   NewFeeder(0),
		stack:    make([]mode, 1, 16),
		maxDepth: maxDepth,
		pending:  -1,
	}
}

// Feeder returns the feeder through which input is supplied to p.
func (p *Parser) Feeder() *Feeder { return p.feeder }

// NextEvent consumes pending input and returns the next event of the
// document. The possible results are:
//
//   - NeedMoreInput: the feeder is empty and not yet marked done. The caller
//     must feed more bytes, or mark the feeder done, before calling again.
//     No scan state is lost across the suspension.
//
//   - A structural or scalar event, returned exactly once per occurrence at
//     the byte where the token lexically completes.
//
//   - Error: the input violates the JSON grammar, or the nesting depth
//     exceeded the configured maximum, or the input ended prematurely, or a
//     complete top-level value was followed by trailing garbage. Terminal;
//     Err reports an enriched reason.
//
//   - Eof: the feeder is done and empty after exactly one complete top-level
//     value. Terminal. An empty or whitespace-only input yields Error, not
//     Eof, since a JSON text requires one value.
func (p *Parser) NextEvent() Event {
	switch p.state {
	case stError:
		return p.ret(Error)
	case stDone:
		return p.ret(Eof)
	}
	for {
		b, ok := p.nextByte()
		if !ok {
			if p.feeder.isDoneAndEmpty() {
				return p.ret(p.finishEOF())
			}
			return p.ret(NeedMoreInput)
		}
		if ev, emit := p.step(b); emit {
			return p.ret(ev)
		}
	}
}

// Text returns the decoded text payload of the current event: the member
// key or string value with all escapes resolved, or the literal text of a
// number. It panics if the current event does not carry text (see
// Event.HasText). The returned slice is only valid until the next call to
// NextEvent; the caller must copy it if needed longer.
func (p *Parser) Text() []byte {
	if !p.event.HasText() {
		panic(fmt.Sprintf("jpush: %v event has no text payload", p.event))
	}
	return p.buf.Bytes()
}

// StringValue returns a copy of Text as a string.
func (p *Parser) StringValue() string { return string(p.Text()) }

// Int64 decodes the text of the current ValueInt event. It fails only if
// the value does not fit in an int64.
func (p *Parser) Int64() (int64, error) {
	return strconv.ParseInt(string(p.Text()), 10, 64)
}

// Float64 decodes the text of the current ValueInt or ValueDouble event.
func (p *Parser) Float64() (float64, error) {
	return strconv.ParseFloat(string(p.Text()), 64)
}

// Err returns a descriptive reason after NextEvent has returned Error, or
// nil. The error has concrete type *SyntaxError, but its contents are an
// enrichment for reporting only: callers must treat the Error event itself
// as the verdict and not branch on the error structure.
func (p *Parser) Err() error { return p.err }

// SyntaxError is the concrete type of errors reported by Err.
type SyntaxError struct {
	Offset  int // byte offset at which parsing failed
	Message string
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", e.Offset, e.Message)
}

// A mode identifies the kind of nesting context being scanned.
type mode byte

const (
	modeTop    mode = iota // outside any array or object
	modeArray              // inside an array
	modeObject             // inside an object
)

// A lexState identifies how far the scan of the current token has advanced.
// Every state is a legal suspension point.
type lexState byte

const (
	stValue       lexState = iota // awaiting the start of a value
	stValueOrClose                // after "[": value or "]"
	stKeyOrClose                  // after "{": member key or "}"
	stKey                         // after "," in an object: member key required
	stColon                       // after a member key: ":" required
	stBetween                     // after a complete value: "," or closer or end
	stString                      // inside a string
	stEscape                      // after "\" inside a string
	stUnicode                     // inside a \uXXXX escape
	stLiteral                     // inside true, false or null
	stNumMinus                    // after a leading "-"
	stNumZero                     // after a leading "0"
	stNumInt                      // inside integer digits
	stNumDot                      // after "." awaiting the first fraction digit
	stNumFrac                     // inside fraction digits
	stNumExpStart                 // after "e"/"E" awaiting sign or digit
	stNumExpSign                  // after an exponent sign awaiting a digit
	stNumExp                      // inside exponent digits
	stDone                        // terminal: Eof reported
	stError                       // terminal: Error reported
)

var (
	litTrue  = mem.S("true")
	litFalse = mem.S("false")
	litNull  = mem.S("null")
)

func (p *Parser) ret(ev Event) Event { p.event = ev; return ev }

// nextByte returns the next byte to scan: the pushed-back delimiter that
// terminated a number, if any, otherwise the oldest pending feeder byte.
func (p *Parser) nextByte() (byte, bool) {
	if p.pending >= 0 {
		b := byte(p.pending)
		p.pending = -1
		return b, true
	}
	b, ok := p.feeder.next()
	if ok {
		p.pos++
	}
	return b, ok
}

// failf records a terminal parse error and returns the Error event.
func (p *Parser) failf(msg string, args ...any) Event {
	p.err = &SyntaxError{Offset: p.pos, Message: fmt.Sprintf(msg, args...)}
	p.state = stError
	return Error
}

// finishEOF resolves the scan state once the feeder is done and empty.
// A number still in progress may be completed by the end of input; any
// other unfinished token or unclosed container is an error.
func (p *Parser) finishEOF() Event {
	switch p.state {
	case stNumZero, stNumInt, stNumFrac, stNumExp:
		p.state = stBetween
		return p.numberEvent()
	case stBetween:
		if len(p.stack) == 1 {
			p.state = stDone
			return Eof
		}
		return p.failf("unexpected end of input")
	case stValue:
		if len(p.stack) == 1 {
			return p.failf("no JSON value in input")
		}
		return p.failf("unexpected end of input")
	default:
		return p.failf("unexpected end of input")
	}
}

// step advances the state machine by one byte. It reports an event and true
// if the byte completed a token, otherwise false.
func (p *Parser) step(b byte) (Event, bool) {
	switch p.state {
	case stValue, stValueOrClose:
		return p.stepValue(b)
	case stKeyOrClose, stKey:
		return p.stepKey(b)
	case stColon:
		if isSpace(b) {
			return 0, false
		} else if b == ':' {
			p.state = stValue
			return 0, false
		}
		return p.failf(`got %q, want ":"`, b), true
	case stBetween:
		return p.stepBetween(b)
	case stString:
		return p.stepString(b)
	case stEscape:
		return p.stepEscape(b)
	case stUnicode:
		return p.stepUnicode(b)
	case stLiteral:
		return p.stepLiteral(b)
	default:
		return p.stepNumber(b)
	}
}

func (p *Parser) stepValue(b byte) (Event, bool) {
	switch {
	case isSpace(b):
		return 0, false
	case b == '{':
		return p.push(modeObject, stKeyOrClose, StartObject)
	case b == '[':
		return p.push(modeArray, stValueOrClose, StartArray)
	case b == ']' && p.state == stValueOrClose:
		return p.pop(EndArray)
	case b == '"':
		p.buf.Reset()
		p.inKey = false
		p.state = stString
		return 0, false
	case b == '-':
		p.startNumber(b, stNumMinus)
		return 0, false
	case b == '0':
		p.startNumber(b, stNumZero)
		return 0, false
	case b >= '1' && b <= '9':
		p.startNumber(b, stNumInt)
		return 0, false
	case b == 't':
		p.startLiteral(litTrue, ValueTrue)
		return 0, false
	case b == 'f':
		p.startLiteral(litFalse, ValueFalse)
		return 0, false
	case b == 'n':
		p.startLiteral(litNull, ValueNull)
		return 0, false
	default:
		return p.failf("unexpected %q", b), true
	}
}

func (p *Parser) stepKey(b byte) (Event, bool) {
	switch {
	case isSpace(b):
		return 0, false
	case b == '"':
		p.buf.Reset()
		p.inKey = true
		p.state = stString
		return 0, false
	case b == '}' && p.state == stKeyOrClose:
		return p.pop(EndObject)
	default:
		return p.failf("got %q, want object key", b), true
	}
}

func (p *Parser) stepBetween(b byte) (Event, bool) {
	if isSpace(b) {
		return 0, false
	}
	switch p.stack[len(p.stack)-1] {
	case modeArray:
		if b == ',' {
			p.state = stValue
			return 0, false
		} else if b == ']' {
			return p.pop(EndArray)
		}
		return p.failf(`got %q, want "," or "]"`, b), true
	case modeObject:
		if b == ',' {
			p.state = stKey
			return 0, false
		} else if b == '}' {
			return p.pop(EndObject)
		}
		return p.failf(`got %q, want "," or "}"`, b), true
	default:
		return p.failf("unexpected %q after top-level value", b), true
	}
}

// push enters a new array or object. The depth check happens before the
// push, so an overflowing open bracket fails without corrupting the stack.
func (p *Parser) push(m mode, next lexState, ev Event) (Event, bool) {
	if len(p.stack)-1 >= p.maxDepth {
		return p.failf("nesting exceeds %d levels", p.maxDepth), true
	}
	p.stack = append(p.stack, m)
	p.state = next
	return ev, true
}

func (p *Parser) pop(ev Event) (Event, bool) {
	p.stack = p.stack[:len(p.stack)-1]
	p.state = stBetween
	return ev, true
}

func (p *Parser) stepString(b byte) (Event, bool) {
	if p.u8Left > 0 {
		if b < p.u8Lo || b > p.u8Hi {
			return p.failf("invalid UTF-8 continuation byte %#x", b), true
		}
		p.buf.WriteByte(b)
		p.u8Left--
		p.u8Lo, p.u8Hi = 0x80, 0xbf
		return 0, false
	}
	if p.highSur != 0 && b != '\\' {
		return p.failf("unpaired surrogate escape"), true
	}
	switch {
	case b == '"':
		if p.inKey {
			p.state = stColon
			return FieldName, true
		}
		p.state = stBetween
		return ValueString, true
	case b == '\\':
		p.state = stEscape
		return 0, false
	case b < 0x20:
		return p.failf("unescaped control %q in string", b), true
	case b < 0x80:
		p.buf.WriteByte(b)
		return 0, false
	default:
		return p.startRune(b)
	}
}

// startRune classifies the leading byte of a multibyte UTF-8 sequence and
// records the acceptance range for its first continuation byte. The ranges
// exclude overlong encodings, surrogate code points and values past U+10FFFF.
func (p *Parser) startRune(b byte) (Event, bool) {
	switch {
	case b >= 0xc2 && b <= 0xdf:
		p.u8Left, p.u8Lo, p.u8Hi = 1, 0x80, 0xbf
	case b == 0xe0:
		p.u8Left, p.u8Lo, p.u8Hi = 2, 0xa0, 0xbf
	case b >= 0xe1 && b <= 0xec || b == 0xee || b == 0xef:
		p.u8Left, p.u8Lo, p.u8Hi = 2, 0x80, 0xbf
	case b == 0xed:
		p.u8Left, p.u8Lo, p.u8Hi = 2, 0x80, 0x9f
	case b == 0xf0:
		p.u8Left, p.u8Lo, p.u8Hi = 3, 0x90, 0xbf
	case b >= 0xf1 && b <= 0xf3:
		p.u8Left, p.u8Lo, p.u8Hi = 3, 0x80, 0xbf
	case b == 0xf4:
		p.u8Left, p.u8Lo, p.u8Hi = 3, 0x80, 0x8f
	default:
		return p.failf("invalid UTF-8 byte %#x", b), true
	}
	p.buf.WriteByte(b)
	return 0, false
}

func (p *Parser) stepEscape(b byte) (Event, bool) {
	if p.highSur != 0 && b != 'u' {
		return p.failf("unpaired surrogate escape"), true
	}
	switch b {
	case '"', '\\', '/':
		p.buf.WriteByte(b)
	case 'b':
		p.buf.WriteByte('\b')
	case 'f':
		p.buf.WriteByte('\f')
	case 'n':
		p.buf.WriteByte('\n')
	case 'r':
		p.buf.WriteByte('\r')
	case 't':
		p.buf.WriteByte('\t')
	case 'u':
		p.hexVal, p.hexLeft = 0, 4
		p.state = stUnicode
		return 0, false
	default:
		return p.failf("invalid %q after escape", b), true
	}
	p.state = stString
	return 0, false
}

func (p *Parser) stepUnicode(b byte) (Event, bool) {
	v := hexValue(b)
	if v < 0 {
		return p.failf("not a hex digit: %q", b), true
	}
	p.hexVal = p.hexVal<<4 | rune(v)
	p.hexLeft--
	if p.hexLeft > 0 {
		return 0, false
	}
	p.state = stString
	r := p.hexVal
	switch {
	case p.highSur != 0:
		u := utf16.DecodeRune(p.highSur, r)
		if u == utf8.RuneError {
			return p.failf(`invalid low surrogate \u%04x`, r), true
		}
		p.highSur = 0
		p.buf.WriteRune(u)
	case utf16.IsSurrogate(r):
		if r >= 0xdc00 {
			return p.failf(`unpaired low surrogate \u%04x`, r), true
		}
		p.highSur = r
	default:
		p.buf.WriteRune(r)
	}
	return 0, false
}

func (p *Parser) startLiteral(lit mem.RO, ev Event) {
	p.lit, p.litPos, p.litEvent = lit, 1, ev
	p.state = stLiteral
}

func (p *Parser) stepLiteral(b byte) (Event, bool) {
	if b != p.lit.At(p.litPos) {
		return p.failf("unknown constant, want %q", p.lit.StringCopy()), true
	}
	p.litPos++
	if p.litPos == p.lit.Len() {
		p.state = stBetween
		return p.litEvent, true
	}
	return 0, false
}

func (p *Parser) startNumber(b byte, next lexState) {
	p.buf.Reset()
	p.buf.WriteByte(b)
	p.isDouble = false
	p.state = next
}

func (p *Parser) stepNumber(b byte) (Event, bool) {
	switch p.state {
	case stNumMinus:
		switch {
		case b == '0':
			p.state = stNumZero
		case b >= '1' && b <= '9':
			p.state = stNumInt
		default:
			return p.failf("want digit, got %q", b), true
		}
	case stNumZero:
		switch {
		case b == '.':
			p.isDouble = true
			p.state = stNumDot
		case b == 'e' || b == 'E':
			p.isDouble = true
			p.state = stNumExpStart
		case isDigit(b):
			return p.failf("extra leading zeroes"), true
		default:
			return p.endNumber(b)
		}
	case stNumInt:
		switch {
		case isDigit(b):
		case b == '.':
			p.isDouble = true
			p.state = stNumDot
		case b == 'e' || b == 'E':
			p.isDouble = true
			p.state = stNumExpStart
		default:
			return p.endNumber(b)
		}
	case stNumDot:
		if !isDigit(b) {
			return p.failf("no digits after decimal point"), true
		}
		p.state = stNumFrac
	case stNumFrac:
		switch {
		case isDigit(b):
		case b == 'e' || b == 'E':
			p.state = stNumExpStart
		default:
			return p.endNumber(b)
		}
	case stNumExpStart:
		switch {
		case b == '+' || b == '-':
			p.state = stNumExpSign
		case isDigit(b):
			p.state = stNumExp
		default:
			return p.failf("want sign or digit, got %q", b), true
		}
	case stNumExpSign:
		if !isDigit(b) {
			return p.failf("missing exponent digits"), true
		}
		p.state = stNumExp
	case stNumExp:
		if !isDigit(b) {
			return p.endNumber(b)
		}
	}
	p.buf.WriteByte(b)
	return 0, false
}

// endNumber completes a number at a delimiter byte. The delimiter is pushed
// back so the next call to NextEvent scans it in the enclosing context.
func (p *Parser) endNumber(b byte) (Event, bool) {
	p.pending = int(b)
	p.state = stBetween
	return p.numberEvent(), true
}

func (p *Parser) numberEvent() Event {
	if p.isDouble {
		return ValueDouble
	}
	return ValueInt
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func hexValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b - 'a' + 10)
	case b >= 'A' && b <= 'F':
		return int(b - 'A' + 10)
	}
	return -1
}
