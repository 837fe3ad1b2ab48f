// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jpush

// Event is the type of a notification returned by a single call to the
// NextEvent method of a Parser. An event reports either a structural
// transition, a scalar value, a control condition, or a fatal parse error.
type Event byte

// Constants defining the valid Event values.
const (
	NeedMoreInput Event = iota // the parser is suspended awaiting input
	Error                      // the input is not valid JSON (terminal)
	Eof                        // the input ended after one complete value (terminal)
	StartObject                // object opened: "{"
	EndObject                  // object closed: "}"
	StartArray                 // array opened: "["
	EndArray                   // array closed: "]"
	FieldName                  // object member key (has text)
	ValueString                // string value (has text)
	ValueInt                   // number with no fraction or exponent (has text)
	ValueDouble                // number with fraction and/or exponent (has text)
	ValueTrue                  // constant: true
	ValueFalse                 // constant: false
	ValueNull                  // constant: null
)

var eventStr = [...]string{
	NeedMoreInput: "need more input",
	Error:         "error",
	Eof:           "end of input",
	StartObject:   "start object",
	EndObject:     "end object",
	StartArray:    "start array",
	EndArray:      "end array",
	FieldName:     "field name",
	ValueString:   "string",
	ValueInt:      "integer",
	ValueDouble:   "number",
	ValueTrue:     "true",
	ValueFalse:    "false",
	ValueNull:     "null",
}

func (e Event) String() string {
	v := int(e)
	if v >= len(eventStr) {
		return "invalid event"
	}
	return eventStr[v]
}

// HasText reports whether e carries a text payload that can be recovered
// from the Text method of the Parser that produced it.
func (e Event) HasText() bool {
	return e == FieldName || e == ValueString || e == ValueInt || e == ValueDouble
}

// Terminal reports whether e is a terminal condition. Once a parser has
// returned a terminal event it returns the same event forever.
func (e Event) Terminal() bool { return e == Error || e == Eof }
