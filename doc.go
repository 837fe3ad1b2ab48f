// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jpush implements a non-blocking, event-driven JSON parser.
//
// Unlike a pull parser wrapped around an io.Reader, a jpush.Parser never
// performs I/O and never blocks: the caller pushes input bytes into the
// parser's Feeder as they become available, and polls the parser for
// events. When the parser runs out of bytes in the middle of a token it
// suspends by returning NeedMoreInput, and the next call resumes scanning
// at exactly the same byte boundary. This makes the parser suitable for
// callers that receive input incrementally, such as network readers, and
// that want structural events without buffering a whole document.
//
// # The feed/poll loop
//
// Construct a parser and alternate between asking for events and feeding
// bytes:
//
//	p := jpush.NewParser()
//	feeder := p.Feeder()
//
//	for {
//	   switch e := p.NextEvent(); e {
//	   case jpush.NeedMoreInput:
//	      // Feed more of the input, or mark the feeder done when the
//	      // source is exhausted.
//	      n, err := feeder.FeedBytes(input)
//	      // ...
//	   case jpush.Error:
//	      log.Fatalf("Parse failed: %v", p.Err())
//	   case jpush.Eof:
//	      return // one complete value was parsed
//	   default:
//	      handle(e, p)
//	   }
//	}
//
// The structural and scalar events are StartObject, EndObject, StartArray,
// EndArray, FieldName, ValueString, ValueInt, ValueDouble, ValueTrue,
// ValueFalse and ValueNull. Each is reported exactly once, at the byte
// where its token lexically completes. For the events that carry a payload
// (see Event.HasText), the Text method returns the decoded member key,
// string value, or number literal.
//
// # Termination
//
// Error and Eof are terminal: once either is returned, every subsequent
// call returns the same event. Eof is reported only when the feeder has
// been marked done, all bytes are consumed, and the input held exactly one
// complete JSON value; an empty or whitespace-only input is an Error. Error
// reports any grammar violation, including trailing data after the value
// and nesting deeper than the limit fixed by NewParserDepth.
//
// # Concurrency
//
// The parser and its feeder share no synchronization. Feeding and polling
// must be strictly sequenced on one logical thread of control; the
// non-blocking design makes this natural inside an existing event loop.
package jpush
