package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 8)}
}

func (r *recorder) fire(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestPush_FiresLatestOnce(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.fire)

	for _, v := range []string{"L", "LN", "LN-", "LN-4"} {
		d.Push(v)
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatalf("debouncer never fired")
	}
	time.Sleep(60 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "LN-4" {
		t.Fatalf("calls = %v, want [LN-4]", got)
	}
}

func TestPush_SeparateBursts(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.fire)

	d.Push("a")
	<-rec.done
	d.Push("b")
	<-rec.done

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("calls = %v, want [a b]", got)
	}
}

func TestStop_CancelsPending(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.fire)

	d.Push("x")
	d.Stop()
	d.Push("y")
	time.Sleep(40 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("calls = %v, want none", got)
	}
}

func TestFlush(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.fire)

	if d.Flush() {
		t.Fatalf("Flush = true with nothing pending")
	}
	d.Push("x")
	if !d.Flush() {
		t.Fatalf("Flush = false with a pending value")
	}
	time.Sleep(40 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("calls = %v, want none after Flush", got)
	}
}
