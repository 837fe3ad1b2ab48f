// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jpush

import (
	"errors"
	"testing"
)

func TestFeederCapacity(t *testing.T) {
	f := NewFeeder(4)
	for i, b := range []byte("abcd") {
		if f.IsFull() {
			t.Fatalf("IsFull true after %d bytes of 4", i)
		}
		if err := f.Feed(b); err != nil {
			t.Fatalf("Feed(%q) failed: %v", b, err)
		}
	}
	if !f.IsFull() {
		t.Error("IsFull false at capacity")
	}
	if err := f.Feed('e'); !errors.Is(err, ErrFeederFull) {
		t.Errorf("Feed at capacity: got %v, want %v", err, ErrFeederFull)
	}

	// Draining one byte makes room for exactly one more.
	if b, ok := f.next(); !ok || b != 'a' {
		t.Errorf("next: got %q, %v; want 'a', true", b, ok)
	}
	if err := f.Feed('e'); err != nil {
		t.Errorf("Feed after drain failed: %v", err)
	}

	// The remaining bytes come out in feed order.
	var got []byte
	for {
		b, ok := f.next()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "bcde" {
		t.Errorf("Drained %q, want %q", got, "bcde")
	}
}

func TestFeederFeedBytes(t *testing.T) {
	f := NewFeeder(8)

	n, err := f.FeedBytes([]byte("abcde"))
	if err != nil || n != 5 {
		t.Fatalf("FeedBytes: got %d, %v; want 5, nil", n, err)
	}

	// Only the remaining capacity is consumed.
	n, err = f.FeedBytes([]byte("fghij"))
	if err != nil || n != 3 {
		t.Fatalf("FeedBytes at near-capacity: got %d, %v; want 3, nil", n, err)
	}
	if !f.IsFull() {
		t.Error("IsFull false after filling by FeedBytes")
	}

	// Drain across the ring wrap point, then refill.
	for range 6 {
		f.next()
	}
	n, err = f.FeedBytes([]byte("ij"))
	if err != nil || n != 2 {
		t.Fatalf("FeedBytes after wrap: got %d, %v; want 2, nil", n, err)
	}
	var got []byte
	for {
		b, ok := f.next()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "ghij" {
		t.Errorf("Drained %q, want %q", got, "ghij")
	}
}

func TestFeederDone(t *testing.T) {
	f := NewFeeder(2)
	if f.IsDone() {
		t.Error("IsDone true before MarkDone")
	}
	if err := f.Feed('x'); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	f.MarkDone()
	f.MarkDone() // marking done twice is harmless
	if !f.IsDone() {
		t.Error("IsDone false after MarkDone")
	}
	if f.isDoneAndEmpty() {
		t.Error("isDoneAndEmpty true with a pending byte")
	}

	if err := f.Feed('y'); !errors.Is(err, ErrFeederClosed) {
		t.Errorf("Feed after done: got %v, want %v", err, ErrFeederClosed)
	}
	if _, err := f.FeedBytes([]byte("yz")); !errors.Is(err, ErrFeederClosed) {
		t.Errorf("FeedBytes after done: got %v, want %v", err, ErrFeederClosed)
	}

	f.next()
	if !f.isDoneAndEmpty() {
		t.Error("isDoneAndEmpty false after draining")
	}
}

func TestFeederDefaultCapacity(t *testing.T) {
	for _, capacity := range []int{0, -3} {
		f := NewFeeder(capacity)
		if got := len(f.buf); got != DefaultFeederCapacity {
			t.Errorf("NewFeeder(%d): capacity %d, want %d", capacity, got, DefaultFeederCapacity)
		}
	}
}
