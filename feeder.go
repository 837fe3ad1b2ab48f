// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jpush

import "errors"

// DefaultFeederCapacity is the buffer capacity of a Feeder constructed with
// a non-positive capacity, and of the Feeder a Parser creates for itself.
const DefaultFeederCapacity = 1024

var (
	// ErrFeederFull is reported by Feed when the buffer is at capacity.
	// The caller must drain the parser before feeding more input.
	ErrFeederFull = errors.New("feeder buffer is full")

	// ErrFeederClosed is reported by Feed after MarkDone has been called.
	ErrFeederClosed = errors.New("feeder is marked done")
)

// A Feeder is a bounded FIFO byte buffer through which a caller supplies
// input to a Parser without blocking. The caller feeds bytes in as capacity
// permits; the parser consumes them as it scans. Once the input source is
// exhausted the caller must call MarkDone so the parser can distinguish a
// suspension from the true end of input.
//
// A Feeder is not safe for concurrent use. Feeding and parsing must be
// strictly sequenced on a single logical thread of control.
type Feeder struct {
	buf   []byte
	head  int // index of the first pending byte
	count int // number of pending bytes
	done  bool
}

// NewFeeder constructs a Feeder with the given buffer capacity.
// If capacity <= 0, DefaultFeederCapacity is used.
func NewFeeder(capacity int) *Feeder {
	if capacity <= 0 {
		capacity = DefaultFeederCapacity
	}
	return &Feeder{buf: make([]byte, capacity)}
}

// Feed appends one byte to the buffer. It reports ErrFeederFull if the
// buffer is at capacity and ErrFeederClosed if MarkDone has been called.
func (f *Feeder) Feed(b byte) error {
	if f.done {
		return ErrFeederClosed
	} else if f.count == len(f.buf) {
		return ErrFeederFull
	}
	f.buf[(f.head+f.count)%len(f.buf)] = b
	f.count++
	return nil
}

// FeedBytes appends as many bytes of p as the buffer has room for, and
// returns the number of bytes consumed. It is not an error for the buffer to
// fill before p is exhausted; the caller retries with the remainder after
// draining the parser. FeedBytes reports ErrFeederClosed after MarkDone.
func (f *Feeder) FeedBytes(p []byte) (int, error) {
	if f.done {
		return 0, ErrFeederClosed
	}
	n := min(len(p), len(f.buf)-f.count)
	tail := (f.head + f.count) % len(f.buf)
	m := copy(f.buf[tail:], p[:n])
	copy(f.buf, p[m:n])
	f.count += n
	return n, nil
}

// IsFull reports whether the buffer is at capacity. A caller seeing true
// must drain the parser before feeding further bytes.
func (f *Feeder) IsFull() bool { return f.count == len(f.buf) }

// MarkDone irreversibly records that no further bytes will be fed.
// It is safe to call MarkDone multiple times.
func (f *Feeder) MarkDone() { f.done = true }

// IsDone reports whether MarkDone has been called.
func (f *Feeder) IsDone() bool { return f.done }

// Len reports the number of fed bytes not yet consumed by the parser.
func (f *Feeder) Len() int { return f.count }

// next removes and returns the oldest pending byte.
func (f *Feeder) next() (byte, bool) {
	if f.count == 0 {
		return 0, false
	}
	b := f.buf[f.head]
	f.head = (f.head + 1) % len(f.buf)
	f.count--
	return b, true
}

// isDoneAndEmpty reports whether the input has truly ended: the caller has
// called MarkDone and no pending bytes remain.
func (f *Feeder) isDoneAndEmpty() bool { return f.done && f.count == 0 }
